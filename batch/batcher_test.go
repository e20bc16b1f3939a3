package batch_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger-archives/sawtooth-supply-chain/batch"
	xcrypto "github.com/hyperledger-archives/sawtooth-supply-chain/crypto"
	"github.com/hyperledger-archives/sawtooth-supply-chain/platform"
)

type stubSubmitter struct {
	statuses []platform.Status
	calls    int
}

func (s *stubSubmitter) SubmitBatch(context.Context, []byte) (string, error) {
	return "batch-1", nil
}

func (s *stubSubmitter) BatchStatus(context.Context, string) (platform.Status, error) {
	st := s.statuses[s.calls]
	if s.calls < len(s.statuses)-1 {
		s.calls++
	}
	return st, nil
}

func TestSubmitRejectsWrongBatcherKey(t *testing.T) {
	key, err := xcrypto.GeneratePrivateKey()
	require.NoError(t, err)
	other, err := xcrypto.GeneratePrivateKey()
	require.NoError(t, err)

	b := batch.NewBatcher(key, &stubSubmitter{statuses: []platform.Status{platform.StatusCommitted}}, time.Millisecond)
	_, err = b.Submit(context.Background(), []batch.Transaction{
		{Header: batch.TransactionHeader{BatcherPublicKey: other.PubKey().PublicKeyHex()}},
	}, false, 0)
	require.Error(t, err)
	var badReq *batch.BadRequestError
	require.ErrorAs(t, err, &badReq)
}

func TestSubmitWaitsForCommit(t *testing.T) {
	key, err := xcrypto.GeneratePrivateKey()
	require.NoError(t, err)

	sub := &stubSubmitter{statuses: []platform.Status{platform.StatusPending, platform.StatusCommitted}}
	b := batch.NewBatcher(key, sub, time.Millisecond)

	result, err := b.Submit(context.Background(), []batch.Transaction{
		{Header: batch.TransactionHeader{BatcherPublicKey: key.PubKey().PublicKeyHex()}},
	}, true, time.Second)
	require.NoError(t, err)
	require.Equal(t, platform.StatusCommitted, result.Status)
	require.Equal(t, "batch-1", result.BatchID)
}

func TestSubmitSurfacesInvalid(t *testing.T) {
	key, err := xcrypto.GeneratePrivateKey()
	require.NoError(t, err)

	sub := &stubSubmitter{statuses: []platform.Status{platform.StatusInvalid}}
	b := batch.NewBatcher(key, sub, time.Millisecond)

	_, err = b.Submit(context.Background(), []batch.Transaction{
		{Header: batch.TransactionHeader{BatcherPublicKey: key.PubKey().PublicKeyHex()}},
	}, true, time.Second)
	require.Error(t, err)
}

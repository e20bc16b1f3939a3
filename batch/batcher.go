package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	xcrypto "github.com/hyperledger-archives/sawtooth-supply-chain/crypto"
	"github.com/hyperledger-archives/sawtooth-supply-chain/platform"
)

// envelope is the JSON-serialized batch frame handed to the platform's
// submit_batch call. The platform treats this as opaque bytes; its own
// consensus layer is responsible for re-deriving the signature over the
// canonical encoding below.
type envelope struct {
	SignerPublicKey string        `json:"signer_public_key"`
	Signature       string        `json:"signature"`
	Transactions    []Transaction `json:"transactions"`
}

// BadRequestError marks a submission rejected before it ever reached
// the platform — the caller's fault, not an internal failure.
type BadRequestError struct{ Reason string }

func (e *BadRequestError) Error() string { return e.Reason }

// Batcher wraps end-user-signed transactions into a batch signed by the
// server's own key, submits it, and optionally waits for commit.
type Batcher struct {
	key            *xcrypto.PrivateKey
	submitter      platform.Submitter
	settleInterval time.Duration
}

func NewBatcher(key *xcrypto.PrivateKey, submitter platform.Submitter, settleInterval time.Duration) *Batcher {
	if settleInterval <= 0 {
		settleInterval = time.Second
	}
	return &Batcher{key: key, submitter: submitter, settleInterval: settleInterval}
}

// SubmitResult reports what happened to a submitted batch.
type SubmitResult struct {
	BatchID string
	Status  platform.Status
}

// Submit validates every transaction's batcher key, signs and wraps
// them into one batch, and submits it. When wait is true (and timeout
// is positive) it then polls BatchStatus until COMMITTED, INVALID, or
// timeout, pausing one settle interval after COMMITTED before
// returning so the caller observes a state the read store has already
// indexed.
func (b *Batcher) Submit(ctx context.Context, txns []Transaction, wait bool, timeout time.Duration) (SubmitResult, error) {
	if len(txns) == 0 {
		return SubmitResult{}, &BadRequestError{Reason: "batch must contain at least one transaction"}
	}
	for _, txn := range txns {
		if err := ValidateBatcherKey(txn, b.key); err != nil {
			return SubmitResult{}, &BadRequestError{Reason: err.Error()}
		}
	}

	signerHex := b.key.PubKey().PublicKeyHex()
	payload, err := json.Marshal(struct {
		SignerPublicKey string        `json:"signer_public_key"`
		Transactions    []Transaction `json:"transactions"`
	}{SignerPublicKey: signerHex, Transactions: txns})
	if err != nil {
		return SubmitResult{}, fmt.Errorf("batch: encode: %w", err)
	}
	sig, err := b.key.Sign(payload)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("batch: sign: %w", err)
	}

	batchBytes, err := json.Marshal(envelope{SignerPublicKey: signerHex, Signature: sig, Transactions: txns})
	if err != nil {
		return SubmitResult{}, fmt.Errorf("batch: encode envelope: %w", err)
	}

	batchID, err := b.submitter.SubmitBatch(ctx, batchBytes)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("batch: submit: %w", err)
	}
	result := SubmitResult{BatchID: batchID, Status: platform.StatusPending}

	if !wait || timeout <= 0 {
		return result, nil
	}

	deadline := time.Now().Add(timeout)
	for {
		status, err := b.submitter.BatchStatus(ctx, batchID)
		if err != nil {
			return result, fmt.Errorf("batch: status: %w", err)
		}
		result.Status = status
		switch status {
		case platform.StatusCommitted:
			select {
			case <-time.After(b.settleInterval):
			case <-ctx.Done():
				return result, ctx.Err()
			}
			return result, nil
		case platform.StatusInvalid:
			return result, fmt.Errorf("batch: rejected by platform")
		}
		if time.Now().After(deadline) {
			return result, fmt.Errorf("batch: timed out waiting for commit, last status %s", status)
		}
		select {
		case <-time.After(100 * time.Millisecond):
		case <-ctx.Done():
			return result, ctx.Err()
		}
	}
}

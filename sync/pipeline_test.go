package sync_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hyperledger-archives/sawtooth-supply-chain/addressing"
	"github.com/hyperledger-archives/sawtooth-supply-chain/platform"
	"github.com/hyperledger-archives/sawtooth-supply-chain/store"
	syncpkg "github.com/hyperledger-archives/sawtooth-supply-chain/sync"
	"github.com/hyperledger-archives/sawtooth-supply-chain/wire"
)

type stubEventSource struct {
	events chan platform.Event
}

func (s *stubEventSource) Subscribe(ctx context.Context, fromBlockNum uint64) (<-chan platform.Event, error) {
	return s.events, nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, store.AutoMigrate(db))
	return store.New(db)
}

func TestPipelineAppliesAgentAndInsertsBlock(t *testing.T) {
	s := newTestStore(t)
	src := &stubEventSource{events: make(chan platform.Event, 1)}

	agent := wire.Agent{PublicKey: "s1", Name: "Alice", Timestamp: 1}
	container := wire.AgentContainer{Entries: []wire.Agent{agent}}
	addr := addressing.AgentAddress("s1")

	src.events <- platform.Event{
		BlockNum: 1,
		BlockID:  "b1",
		Changes: []platform.StateChange{
			{Address: addr, Type: platform.ChangeSet, Value: container.Marshal()},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := syncpkg.NewPipeline(src, s, nil)

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool {
		cur, err := s.CurrentBlockNum()
		return err == nil && cur == 1
	}, 2*time.Second, 10*time.Millisecond)

	row, ok, err := s.AgentAsOf("s1", 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Alice", row.Name)

	cancel()
	<-done
}

func TestPipelineSkipsMalformedChangeWithoutAbortingBlock(t *testing.T) {
	s := newTestStore(t)
	src := &stubEventSource{events: make(chan platform.Event, 1)}

	agent := wire.Agent{PublicKey: "s2", Name: "Bob", Timestamp: 1}
	container := wire.AgentContainer{Entries: []wire.Agent{agent}}

	src.events <- platform.Event{
		BlockNum: 1,
		BlockID:  "b1",
		Changes: []platform.StateChange{
			{Address: addressing.AgentAddress("garbage"), Type: platform.ChangeSet, Value: []byte{0xff, 0xff, 0xff}},
			{Address: addressing.AgentAddress("s2"), Type: platform.ChangeSet, Value: container.Marshal()},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := syncpkg.NewPipeline(src, s, nil)

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, ok, err := s.AgentAsOf("s2", 1)
		return err == nil && ok
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

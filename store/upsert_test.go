package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hyperledger-archives/sawtooth-supply-chain/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, store.AutoMigrate(db))
	return store.New(db)
}

func TestUpsertAgentClosesPreviousInterval(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpsertAgent(store.AgentRow{PublicKey: "s1", Name: "Alice", Timestamp: 1}, 1))
	row, ok, err := s.AgentAsOf("s1", 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(1), row.StartBlockNum)
	require.Equal(t, store.MaxBlockNum, row.EndBlockNum)

	require.NoError(t, s.UpsertAgent(store.AgentRow{PublicKey: "s1", Name: "Alice Updated", Timestamp: 1}, 4))

	oldRow, ok, err := s.AgentAsOf("s1", 3)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Alice", oldRow.Name)
	require.Equal(t, uint64(4), oldRow.EndBlockNum)

	newRow, ok, err := s.AgentAsOf("s1", 4)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Alice Updated", newRow.Name)
}

func TestUpsertAgentIsIdempotentOnReplay(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpsertAgent(store.AgentRow{PublicKey: "s1", Name: "Alice", Timestamp: 1}, 1))
	require.NoError(t, s.UpsertAgent(store.AgentRow{PublicKey: "s1", Name: "Alice", Timestamp: 1}, 1))

	var count int64
	require.NoError(t, s.DB.Model(&store.AgentRow{}).Where("public_key = ?", "s1").Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestAsOfBeforeStartIsAbsent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpsertAgent(store.AgentRow{PublicKey: "s1", Name: "Alice", Timestamp: 1}, 5))

	_, ok, err := s.AgentAsOf("s1", 4)
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = s.AgentAsOf("s1", 5)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCurrentBlockNum(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.InsertBlock(1, "b1", "root1"))
	require.NoError(t, s.InsertBlock(2, "b2", "root2"))
	require.NoError(t, s.InsertBlock(2, "b2", "root2"))

	cur, err := s.CurrentBlockNum()
	require.NoError(t, err)
	require.Equal(t, uint64(2), cur)
}

package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hyperledger-archives/sawtooth-supply-chain/batch"
	xcrypto "github.com/hyperledger-archives/sawtooth-supply-chain/crypto"
	"github.com/hyperledger-archives/sawtooth-supply-chain/httpapi"
	"github.com/hyperledger-archives/sawtooth-supply-chain/platform"
	"github.com/hyperledger-archives/sawtooth-supply-chain/store"
)

type stubSubmitter struct{}

func (stubSubmitter) SubmitBatch(context.Context, []byte) (string, error) { return "batch-1", nil }
func (stubSubmitter) BatchStatus(context.Context, string) (platform.Status, error) {
	return platform.StatusCommitted, nil
}

func newTestServer(t *testing.T, secret string) (*httpapi.Server, *store.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, store.AutoMigrate(db))
	s := store.New(db)

	key, err := xcrypto.GeneratePrivateKey()
	require.NoError(t, err)
	batcher := batch.NewBatcher(key, stubSubmitter{}, time.Millisecond)

	srv := httpapi.New(httpapi.Config{Store: s, Batcher: batcher, JWTSecret: secret})
	return srv, s
}

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": subject})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestGetAgentNotFound(t *testing.T) {
	srv, _ := newTestServer(t, "secret")
	req := httptest.NewRequest(http.MethodGet, "/agents/abc/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAgentFound(t *testing.T) {
	srv, s := newTestServer(t, "secret")
	require.NoError(t, s.UpsertAgent(store.AgentRow{PublicKey: "abc", Name: "Alice"}, 1))
	require.NoError(t, s.InsertBlock(1, "b1", ""))

	req := httptest.NewRequest(http.MethodGet, "/agents/abc/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var row store.AgentRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &row))
	require.Equal(t, "Alice", row.Name)
}

func TestSubmitTransactionsRequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t, "secret")
	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitTransactionsWithValidToken(t *testing.T) {
	srv, _ := newTestServer(t, "secret")
	token := signToken(t, "secret", "client-1")

	body := bytes.NewReader([]byte(`{"transactions": [], "wait": false}`))
	req := httptest.NewRequest(http.MethodPost, "/transactions", body)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

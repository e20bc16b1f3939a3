package httpapi

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/hyperledger-archives/sawtooth-supply-chain/store"
)

type idempotencyContextKey string

const contextKeyIdempotency idempotencyContextKey = "idempotency-key"

// withIdempotency replays the stored response for a previously seen
// Idempotency-Key instead of resubmitting the batch, so a client retry
// after a dropped response can't double-submit a transaction set.
func withIdempotency(db *store.Store, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("Idempotency-Key")
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		var existing store.IdempotencyKeyRow
		if err := db.DB.First(&existing, "key = ?", key).Error; err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(existing.Status)
			_, _ = io.WriteString(w, existing.Response)
			return
		}

		recorder := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		ctx := context.WithValue(r.Context(), contextKeyIdempotency, key)
		next.ServeHTTP(recorder, r.WithContext(ctx))

		row := store.IdempotencyKeyRow{
			Key:       key,
			RequestID: uuid.NewString(),
			Method:    r.Method,
			Path:      r.URL.Path,
			Status:    recorder.status,
			Response:  recorder.buf,
		}
		_ = db.DB.Create(&row).Error
	})
}

type responseRecorder struct {
	http.ResponseWriter
	buf    string
	status int
}

func (rr *responseRecorder) WriteHeader(status int) {
	rr.status = status
	rr.ResponseWriter.WriteHeader(status)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	rr.buf += string(b)
	return rr.ResponseWriter.Write(b)
}

// Package httpapi is the HTTP façade for the supply_chain application
// (C4): a chi router that accepts signed transactions for batching and
// submission, and serves as-of read queries against the block-versioned
// store. Grounded on the otc-gateway server's router/middleware shape,
// simplified to a single bearer-auth tier since authorization is
// enforced inside the transaction family itself.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hyperledger-archives/sawtooth-supply-chain/batch"
	"github.com/hyperledger-archives/sawtooth-supply-chain/observability"
	"github.com/hyperledger-archives/sawtooth-supply-chain/store"
)

// Config bundles the dependencies the façade needs.
type Config struct {
	Store         *store.Store
	Batcher       *batch.Batcher
	JWTSecret     string
	SubmitTimeout time.Duration
}

// Server wraps the configured chi router.
type Server struct {
	store         *store.Store
	batcher       *batch.Batcher
	submitTimeout time.Duration
	router        http.Handler
}

func New(cfg Config) *Server {
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = 30 * time.Second
	}
	s := &Server{
		store:         cfg.Store,
		batcher:       cfg.Batcher,
		submitTimeout: cfg.SubmitTimeout,
	}
	s.router = s.buildRouter(cfg.JWTSecret)
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) buildRouter(jwtSecret string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Group(func(api chi.Router) {
		api.Use(jwtMiddleware(jwtSecret))
		api.Use(func(next http.Handler) http.Handler { return withIdempotency(s.store, next) })
		api.Post("/transactions", s.submitTransactions)
	})

	r.Route("/agents/{publicKey}", func(rt chi.Router) {
		rt.Get("/", s.getAgent)
	})
	r.Route("/record-types/{name}", func(rt chi.Router) {
		rt.Get("/", s.getRecordType)
	})
	r.Route("/records/{recordId}", func(rt chi.Router) {
		rt.Get("/", s.getRecord)
		rt.Get("/properties/{name}", s.getProperty)
		rt.Get("/properties/{name}/pages/{page}", s.getPropertyPage)
		rt.Get("/proposals", s.listProposals)
	})

	return r
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		observability.Gateway().Observe(route, http.StatusText(rec.status), time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

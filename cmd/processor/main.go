// Command processor runs the supply_chain transaction processor (C3).
// It exposes the handler's Apply contract over HTTP: the platform posts
// one decoded transaction per request (signer, base64 payload) and gets
// back either a 200 (applied) or a validation error — standing in for
// the validator-side TP-register loop a real Sawtooth deployment would
// drive over ZMQ, which is out of scope for the HTTP/JSON platform
// boundary this repository targets.
package main

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/hyperledger-archives/sawtooth-supply-chain/config"
	"github.com/hyperledger-archives/sawtooth-supply-chain/core/processor"
	"github.com/hyperledger-archives/sawtooth-supply-chain/observability"
	"github.com/hyperledger-archives/sawtooth-supply-chain/platform"
)

// applyRequest carries only what the platform's transaction header
// itself provides out of band: who signed. The timestamp is not a
// separate field here — it travels inside Payload as
// wire.Payload.Timestamp, committed to the signed bytes the client
// produced, so Handler.Apply decodes it rather than trusting a
// sibling JSON field.
type applyRequest struct {
	Signer  string `json:"signer"`
	Payload string `json:"payload"`
}

func main() {
	logger := observability.SetupLogging("processor")

	cfg, err := config.Load("config.toml")
	if err != nil {
		log.Fatalf("processor: config: %v", err)
	}

	client := platform.NewClient(platform.Config{URL: cfg.ValidatorURL})
	handler := processor.NewHandler()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /apply", func(w http.ResponseWriter, r *http.Request) {
		var req applyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		payload, err := base64.StdEncoding.DecodeString(req.Payload)
		if err != nil {
			http.Error(w, "invalid payload encoding", http.StatusBadRequest)
			return
		}
		if err := handler.Apply(r.Context(), client, req.Signer, payload); err != nil {
			logger.Warn("transaction rejected", "signer", req.Signer, "error", err)
			if _, ok := err.(*processor.ValidationError); ok {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	addr := os.Getenv("PROCESSOR_ADDRESS")
	if addr == "" {
		addr = ":3031"
	}
	logger.Info("starting processor", slog.String("address", addr), slog.String("family", processor.FamilyName))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("processor: server error: %v", err)
	}
}

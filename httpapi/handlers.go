package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hyperledger-archives/sawtooth-supply-chain/batch"
)

type submitRequest struct {
	Transactions []batch.Transaction `json:"transactions"`
	Wait         bool                `json:"wait"`
}

type submitResponse struct {
	BatchID string `json:"batchId"`
	Status  string `json:"status"`
}

func (s *Server) submitTransactions(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	result, err := s.batcher.Submit(r.Context(), req.Transactions, req.Wait, s.submitTimeout)
	if err != nil {
		if _, ok := err.(*batch.BadRequestError); ok {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusAccepted, submitResponse{BatchID: result.BatchID, Status: string(result.Status)})
}

func (s *Server) currentBlockNum() (uint64, error) {
	return s.store.CurrentBlockNum()
}

func (s *Server) getAgent(w http.ResponseWriter, r *http.Request) {
	current, err := s.currentBlockNum()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	row, ok, err := s.store.AgentAsOf(chi.URLParam(r, "publicKey"), current)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "agent not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) getRecordType(w http.ResponseWriter, r *http.Request) {
	current, err := s.currentBlockNum()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	row, ok, err := s.store.RecordTypeAsOf(chi.URLParam(r, "name"), current)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "record type not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
	current, err := s.currentBlockNum()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	row, ok, err := s.store.RecordAsOf(chi.URLParam(r, "recordId"), current)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) getProperty(w http.ResponseWriter, r *http.Request) {
	current, err := s.currentBlockNum()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	row, ok, err := s.store.PropertyAsOf(chi.URLParam(r, "recordId"), chi.URLParam(r, "name"), current)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "property not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) getPropertyPage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.ParseUint(chi.URLParam(r, "page"), 10, 32)
	if err != nil {
		http.Error(w, "invalid page number", http.StatusBadRequest)
		return
	}
	current, err := s.currentBlockNum()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	row, ok, err := s.store.PropertyPageAsOf(chi.URLParam(r, "recordId"), chi.URLParam(r, "name"), uint32(page), current)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "property page not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) listProposals(w http.ResponseWriter, r *http.Request) {
	receivingAgent := r.URL.Query().Get("receivingAgent")
	current, err := s.currentBlockNum()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rows, err := s.store.ProposalsAsOf(chi.URLParam(r, "recordId"), receivingAgent, current)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

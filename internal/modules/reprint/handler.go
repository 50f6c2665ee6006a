package reprint

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storeops/posdesk-backend/internal/modules/store"
	"github.com/storeops/posdesk-backend/internal/workers"
)

// Handler exposes the reprint endpoints. Orchestrations block on store
// databases and print hardware, so they run through the bounded worker pool
// rather than directly on the request goroutine.
type Handler struct {
	service Service
	journal *Journal
	pool    *workers.Pool
}

func NewHandler(service Service, journal *Journal, pool *workers.Pool) *Handler {
	return &Handler{service: service, journal: journal, pool: pool}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/stores/{store_code}/reprints", func(r chi.Router) {
		r.Post("/", h.reprint)               // POST /api/v1/stores/{code}/reprints
		r.Post("/command", h.reprintCommand) // POST /api/v1/stores/{code}/reprints/command
	})
	r.Get("/api/v1/reprints/journal", h.listJournal) // GET /api/v1/reprints/journal
}

func (h *Handler) reprint(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.service.Reprint)
}

func (h *Handler) reprintCommand(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.service.ReprintCommand)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, run func(context.Context, Request) Result) {
	storeCode := chi.URLParam(r, "store_code")
	if !store.ValidateCode(storeCode) {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid store code"})
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	req.StoreCode = storeCode

	var result Result
	err := h.pool.Do(r.Context(), func() {
		result = run(r.Context(), req)
	})
	if err != nil {
		respond(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}

	status := http.StatusOK
	switch result.Outcome {
	case OutcomeInvalidRequest:
		status = http.StatusBadRequest
	case OutcomeQuotaExceeded:
		status = http.StatusConflict
	case OutcomeDocumentNotFound:
		status = http.StatusNotFound
	case OutcomePrintDataMissing, OutcomeUnknownFailure:
		status = http.StatusBadGateway
	}
	respond(w, status, result)
}

func (h *Handler) listJournal(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.journal.Entries())
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

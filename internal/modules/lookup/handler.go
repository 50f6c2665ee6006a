package lookup

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storeops/posdesk-backend/internal/modules/store"
	"github.com/storeops/posdesk-backend/internal/modules/storedb"
)

// Handler exposes document lookup HTTP endpoints. The chat front end calls
// these and does its own message formatting.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/stores/{store_code}", func(r chi.Router) {
		r.Get("/ping", h.testConnection)                          // GET /api/v1/stores/{code}/ping
		r.Get("/orders/{order_id}/status", h.getOrderStatus)      // GET /api/v1/stores/{code}/orders/{id}/status
		r.Get("/orders/{order_id}/audit", h.auditOrder)           // GET /api/v1/stores/{code}/orders/{id}/audit
		r.Get("/documents/{document_id}/code", h.getAssociated)   // GET /api/v1/stores/{code}/documents/{id}/code
		r.Get("/documents/{document_id}/url", h.getDocumentURL)   // GET /api/v1/stores/{code}/documents/{id}/url?type=
	})
}

func (h *Handler) testConnection(w http.ResponseWriter, r *http.Request) {
	storeCode, ok := storeCodeParam(w, r)
	if !ok {
		return
	}
	if err := h.service.TestStoreConnection(r.Context(), storeCode); err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"store": storeCode, "status": "reachable"})
}

func (h *Handler) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	storeCode, ok := storeCodeParam(w, r)
	if !ok {
		return
	}
	status, err := h.service.GetOrderStatus(r.Context(), storeCode, chi.URLParam(r, "order_id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if status == nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	respond(w, http.StatusOK, status)
}

func (h *Handler) auditOrder(w http.ResponseWriter, r *http.Request) {
	storeCode, ok := storeCodeParam(w, r)
	if !ok {
		return
	}
	changes, err := h.service.AuditOrder(r.Context(), storeCode, chi.URLParam(r, "order_id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, changes)
}

func (h *Handler) getAssociated(w http.ResponseWriter, r *http.Request) {
	storeCode, ok := storeCodeParam(w, r)
	if !ok {
		return
	}
	code, err := h.service.GetAssociatedCode(r.Context(), storeCode, chi.URLParam(r, "document_id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if code == "" {
		respond(w, http.StatusNotFound, map[string]string{"error": "no associated code"})
		return
	}
	respond(w, http.StatusOK, map[string]string{"code": code})
}

func (h *Handler) getDocumentURL(w http.ResponseWriter, r *http.Request) {
	storeCode, ok := storeCodeParam(w, r)
	if !ok {
		return
	}
	docType := DocumentType(r.URL.Query().Get("type"))
	url, err := h.service.DocumentURL(r.Context(), docType, storeCode, chi.URLParam(r, "document_id"))
	if err != nil {
		if !docType.Valid() {
			respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		respondStoreError(w, err)
		return
	}
	if url == "" {
		respond(w, http.StatusNotFound, map[string]string{"error": "document not found"})
		return
	}
	respond(w, http.StatusOK, map[string]string{"url": url})
}

func storeCodeParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	code := chi.URLParam(r, "store_code")
	if !store.ValidateCode(code) {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid store code"})
		return "", false
	}
	return code, true
}

func respondStoreError(w http.ResponseWriter, err error) {
	var se *storedb.StoreError
	if errors.As(err, &se) {
		status := http.StatusBadGateway
		if se.Kind == storedb.KindAuthenticationFailed {
			status = http.StatusServiceUnavailable
		}
		respond(w, status, map[string]string{
			"error":       se.Error(),
			"kind":        string(se.Kind),
			"remediation": se.Remediation(),
		})
		return
	}
	respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

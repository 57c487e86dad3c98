// Package httpapi exposes the review workflow over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/lendstack/backoffice/internal/auth"
	"github.com/lendstack/backoffice/internal/domain"
	"github.com/lendstack/backoffice/internal/review"
)

// Handler routes review API requests to the workflow controller.
type Handler struct {
	controller *review.Controller
	mux        *http.ServeMux
}

// NewHandler builds the API router over the workflow controller.
func NewHandler(controller *review.Controller) *Handler {
	h := &Handler{controller: controller, mux: http.NewServeMux()}

	h.mux.HandleFunc("POST /api/changes", h.submit)
	h.mux.HandleFunc("GET /api/changes", h.list)
	h.mux.HandleFunc("POST /api/changes/{id}/approve", h.approve)
	h.mux.HandleFunc("POST /api/changes/{id}/reject", h.reject)
	h.mux.HandleFunc("GET /api/changes/{id}/diff", h.diff)
	h.mux.HandleFunc("GET /healthz", h.healthz)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type submitRequest struct {
	EntityType string               `json:"entityType"`
	EntityID   *uuid.UUID           `json:"entityId,omitempty"`
	ChangeType domain.ChangeType    `json:"changeType"`
	Payload    domain.ChangePayload `json:"payload"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireActor(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	change, err := h.controller.Submit(r.Context(), req.EntityType, req.EntityID, req.ChangeType, req.Payload, actorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, change)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireActor(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	changeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid change id: %v", err), http.StatusBadRequest)
		return
	}

	change, err := h.controller.Approve(r.Context(), changeID, actorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, change)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	actorID, err := auth.RequireActor(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	changeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid change id: %v", err), http.StatusBadRequest)
		return
	}

	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	change, err := h.controller.Reject(r.Context(), changeID, actorID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, change)
}

func (h *Handler) diff(w http.ResponseWriter, r *http.Request) {
	changeID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid change id: %v", err), http.StatusBadRequest)
		return
	}

	summary, err := h.controller.ComputeDiff(r.Context(), changeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var status *domain.ChangeStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.ChangeStatus(raw)
		switch s {
		case domain.ChangeStatusPending, domain.ChangeStatusApproved, domain.ChangeStatusRejected:
			status = &s
		default:
			http.Error(w, fmt.Sprintf("invalid status %q", raw), http.StatusBadRequest)
			return
		}
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	changes, err := h.controller.List(r.Context(), status, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, changes)
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps the workflow error taxonomy onto HTTP statuses: bad
// payloads are the client's fault, conflicts mean the change moved on,
// and an unregistered entity type is a server misconfiguration.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrAlreadyProcessed), errors.Is(err, domain.ErrSelfApprovalForbidden):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

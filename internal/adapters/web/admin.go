package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ── Agent roster ──────────────────────────────────────────────────────────────

func (h *Handler) listAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"agents": h.svc.ListAgents()})
}

func (h *Handler) addAgent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.AddAgent(req.Name); err != nil {
		writeError(w, r, err.Error(), "VALIDATION", http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{"agents": h.svc.ListAgents()})
}

func (h *Handler) removeAgent(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveAgent(chi.URLParam(r, "name")); err != nil {
		writeError(w, r, err.Error(), "VALIDATION", http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{"agents": h.svc.ListAgents()})
}

// ── Schema maintenance ────────────────────────────────────────────────────────

func (h *Handler) checkSchema(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.svc.CheckSchema(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"tables": statuses})
}

func (h *Handler) repairSchema(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RepairSchema(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "repaired"})
}

func (h *Handler) initSchema(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Initialize(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "initialized"})
}

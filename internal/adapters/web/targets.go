package web

import (
	"net/http"

	"realtoros/internal/core"
)

func (h *Handler) listTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := h.svc.ListTargets(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"targets": targets, "count": len(targets)})
}

func (h *Handler) setTarget(w http.ResponseWriter, r *http.Request) {
	var req core.SetTargetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := h.svc.SetTarget(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"target": t})
}

func (h *Handler) suggestTargets(w http.ResponseWriter, r *http.Request) {
	suggestion, err := h.svc.SuggestTargets(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"suggestion": suggestion})
}

// quickSetTargets writes week, month, quarter and year targets in one call.
// Omitted amounts fall back to the current suggestion.
func (h *Handler) quickSetTargets(w http.ResponseWriter, r *http.Request) {
	var req core.TargetSuggestion
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Week.IsZero() && req.Month.IsZero() && req.Quarter.IsZero() && req.Year.IsZero() {
		suggestion, err := h.svc.SuggestTargets(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		req = suggestion
	}
	rows, err := h.svc.QuickSetTargets(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"targets": rows})
}

package web

import (
	"net/http"

	"realtoros/internal/ai"
)

// generateInsights handles POST /api/insights. The custom type requires a
// question; every other type ignores it.
func (h *Handler) generateInsights(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type     ai.InsightType `json:"type"`
		Question string         `json:"question"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Type == "" {
		req.Type = ai.InsightPerformance
	}
	result, err := h.svc.GenerateInsights(r.Context(), req.Type, req.Question)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

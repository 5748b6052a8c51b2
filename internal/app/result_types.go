package app

import (
	"realtoros/internal/ai"
	"realtoros/internal/core"
)

// DashboardResult is the full dashboard payload: period progress plus the
// aggregate summary the panels are built from.
type DashboardResult struct {
	Report  core.DashboardReport `json:"report"`
	Summary core.SummaryStats    `json:"summary"`
}

// InsightResult is one completed AI analysis together with its downloadable
// text rendering.
type InsightResult struct {
	Type   ai.InsightType    `json:"type"`
	Label  string            `json:"label"`
	Report *ai.InsightReport `json:"report"`
	Text   string            `json:"text"`
}

package export_test

import (
	"strings"
	"testing"
	"time"

	"realtoros/internal/ai"
	"realtoros/internal/core"
	"realtoros/internal/export"
)

func TestInsightText(t *testing.T) {
	report := &ai.InsightReport{
		Headline:        "Revenue is concentrated in one location",
		Assessment:      "Most payments this quarter came from Kitengela.",
		KeyFindings:     []string{"Kitengela contributes 80% of revenue"},
		Risks:           []string{"Single-location dependence"},
		Recommendations: []string{"Push listings in Ngong"},
		Confidence:      0.85,
	}
	now := time.Date(2025, 8, 20, 10, 30, 0, 0, time.UTC)
	stats := core.BuildSummaryStats(nil, nil, now)

	text := export.InsightText(ai.InsightLocations, report, stats, now)

	for _, want := range []string{
		"Generated: 2025-08-20 10:30:00",
		"Analysis Type: Location Analysis",
		strings.Repeat("=", 60),
		"Revenue is concentrated in one location",
		"KEY FINDINGS:",
		"- Kitengela contributes 80% of revenue",
		"RISKS:",
		"RECOMMENDATIONS:",
		"Confidence: 85%",
		"DATA SUMMARY USED FOR THIS ANALYSIS",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("insight text missing %q", want)
		}
	}
}

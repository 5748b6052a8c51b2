package export

import (
	"fmt"
	"strings"
	"time"

	"realtoros/internal/ai"
	"realtoros/internal/core"
)

var rule = strings.Repeat("=", 60)

// InsightText renders a generated insight report plus the data summary it was
// based on as a plain-text document for download.
func InsightText(typ ai.InsightType, report *ai.InsightReport, stats core.SummaryStats, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "REALTOROS AI BUSINESS INSIGHTS\n")
	fmt.Fprintf(&b, "Generated: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Analysis Type: %s\n", typ.Label())
	fmt.Fprintf(&b, "%s\n\n", rule)

	fmt.Fprintf(&b, "%s\n\n", report.Headline)
	fmt.Fprintf(&b, "%s\n", report.Assessment)

	if len(report.KeyFindings) > 0 {
		fmt.Fprintf(&b, "\nKEY FINDINGS:\n")
		for _, f := range report.KeyFindings {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	if len(report.Risks) > 0 {
		fmt.Fprintf(&b, "\nRISKS:\n")
		for _, r := range report.Risks {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}
	if len(report.Recommendations) > 0 {
		fmt.Fprintf(&b, "\nRECOMMENDATIONS:\n")
		for _, r := range report.Recommendations {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}
	fmt.Fprintf(&b, "\nConfidence: %.0f%%\n", report.Confidence*100)

	fmt.Fprintf(&b, "\n%s\n", rule)
	fmt.Fprintf(&b, "DATA SUMMARY USED FOR THIS ANALYSIS\n")
	fmt.Fprintf(&b, "%s\n\n", rule)
	b.WriteString(stats.Text())
	return b.String()
}

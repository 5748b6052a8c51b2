package core

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// parseAmount reads a money cell. Blank or unparseable values coerce to zero
// rather than failing the whole table load; thousands separators are
// tolerated because sheet cells are sometimes hand-edited.
func parseAmount(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseDate reads a date cell, accepting the canonical layout and the
// datetime form some sheet edits leave behind. Unparseable → zero time.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func intString(n int) string {
	return strconv.Itoa(n)
}

// padRow extends a ragged row with empty cells up to width. Spreadsheet APIs
// drop trailing empty cells on read.
func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

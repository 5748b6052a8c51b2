package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Business identifiers are generated client-side: a type prefix plus either a
// second-resolution timestamp (sales) or a short random hex token (clients,
// transactions). Uniqueness is probabilistic — the store enforces nothing.

const idTimestampLayout = "20060102150405"

// NewSaleID returns an identifier for a sale recorded through the app.
func NewSaleID(now time.Time) string {
	return "SALE-" + now.Format(idTimestampLayout)
}

// NewLegacySaleID returns an identifier for a historical import, kept
// visually distinct from normal sales.
func NewLegacySaleID(now time.Time) string {
	return "LEGACY-" + now.Format(idTimestampLayout)
}

// NewClientID returns a client identifier with an 8-hex-digit token.
func NewClientID() string {
	return "CLIENT-" + hexToken()
}

// NewTransactionID returns a transaction identifier with an 8-hex-digit token.
func NewTransactionID() string {
	return "TXN-" + hexToken()
}

func hexToken() string {
	u := uuid.New()
	return strings.ToUpper(fmt.Sprintf("%x", u[:4]))
}

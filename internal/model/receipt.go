package model

import (
	"strings"
	"time"
)

// receiptPrefix brands every receipt number issued by this service.
const receiptPrefix = "FMS-"

// Receipt is the read-only composed view returned by the receipt endpoint.
// It bundles the fee, the resolved student and generation metadata.
type Receipt struct {
	Fee           *Fee        `json:"fee"`
	Student       *StudentRef `json:"student"`
	ReceiptNumber string      `json:"receiptNumber"`
	GeneratedAt   time.Time   `json:"generatedAt"`
	GeneratedBy   string      `json:"generatedBy"`
}

// ReceiptNumber derives a receipt number from a fee identifier: the fixed
// prefix plus the last six characters of the id, uppercased. Identifiers
// sharing a suffix share a receipt number; the number is a display label,
// not a unique key.
func ReceiptNumber(feeID string) string {
	suffix := feeID
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return receiptPrefix + strings.ToUpper(suffix)
}

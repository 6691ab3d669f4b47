package model

import "time"

// Fee lifecycle statuses. The status enum in storage admits the literal
// "overdue" for rows imported from elsewhere, but this service never
// writes it: overdue is a query-time condition computed from a pending
// status and an elapsed due date.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

// Fee represents a single billable obligation tied to one student.
// Student and AddedBy/UpdatedBy are resolved display subsets; they are
// nil when the referenced record no longer exists (dangling references
// are possible and tolerated).
type Fee struct {
	ID            string      `json:"id"`
	Student       *StudentRef `json:"studentId"` // resolved student reference
	FeeType       string      `json:"feeType"`
	Amount        float64     `json:"amount"`
	DueDate       time.Time   `json:"dueDate"`
	Status        string      `json:"status"`
	PaidDate      *time.Time  `json:"paidDate,omitempty"`
	PaidAmount    *float64    `json:"paidAmount,omitempty"`
	PaymentMethod *string     `json:"paymentMethod,omitempty"`
	AddedBy       *AdminRef   `json:"addedBy"`
	UpdatedBy     *AdminRef   `json:"updatedBy,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// IsOverdue reports whether a fee counts as overdue at the given instant:
// still pending and past its due date. A stored "overdue" literal does
// not count; the dashboard figure is purely computed.
func IsOverdue(status string, dueDate, now time.Time) bool {
	return status == StatusPending && dueDate.Before(now)
}

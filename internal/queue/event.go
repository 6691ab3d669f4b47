// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// FeePaidEvent is published when a fee is successfully marked paid. It
// carries enough information for downstream consumers to log or notify
// without querying the primary database. The full fee id is included so a
// truncated receipt number can always be traced back to one record.
type FeePaidEvent struct {
	FeeID         string  `json:"fee_id"`
	ReceiptNumber string  `json:"receipt_number"`
	StudentID     string  `json:"student_id"`
	StudentName   string  `json:"student_name"`
	RollNumber    string  `json:"roll_number"`
	FeeType       string  `json:"fee_type"`
	PaidAmount    float64 `json:"paid_amount"`
	PaymentMethod string  `json:"payment_method"`
	PaidBy        string  `json:"paid_by"` // email of the recording administrator
	PaidAt        string  `json:"paid_at"`
}

// QueueName is the durable queue fee payment events travel through.
const QueueName = "fee.paid"

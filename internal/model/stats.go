package model

import "time"

// DashboardStats is the aggregate view served by the admin dashboard.
// totalAmountCollected sums the nominal amount of paid fees, not the
// recorded paidAmount; the two differ when a payment was adjusted. That
// matches the figure the ledger has always reported.
type DashboardStats struct {
	Success              bool    `json:"success"`
	TotalStudents        int     `json:"totalStudents"`
	TotalFees            int     `json:"totalFees"`
	PendingFees          int     `json:"pendingFees"`
	OverdueFees          int     `json:"overdueFees"`
	PaidFees             int     `json:"paidFees"`
	TotalAmountCollected float64 `json:"totalAmountCollected"`
	PendingAmount        float64 `json:"pendingAmount"`
}

// StatRow is the minimal projection of a fee row needed to tally the
// dashboard. The repository scans these in a single pass so the counts
// and sums over the fee table are mutually consistent.
type StatRow struct {
	Status  string
	Amount  float64
	DueDate time.Time
}

// TallyStats folds fee rows and a student count into DashboardStats as of
// the given instant. Overdue is computed (pending + past due), never read
// from the stored status.
func TallyStats(rows []StatRow, totalStudents int, now time.Time) DashboardStats {
	s := DashboardStats{Success: true, TotalStudents: totalStudents, TotalFees: len(rows)}
	for _, r := range rows {
		switch r.Status {
		case StatusPaid:
			s.PaidFees++
			s.TotalAmountCollected += r.Amount
		case StatusPending:
			s.PendingFees++
			s.PendingAmount += r.Amount
			if r.DueDate.Before(now) {
				s.OverdueFees++
			}
		}
	}
	return s
}

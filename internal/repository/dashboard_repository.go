package repository

import (
	"context"
	"database/sql"

	"github.com/feesms/fees-management-backend/internal/model"
)

// DashboardRepo reads the projections the dashboard aggregates over. The
// fee figures come from a single row scan so counts and sums over the fee
// table are mutually consistent; the student count is a separate
// statement (a cross-table snapshot is not worth a transaction here).
type DashboardRepo struct{ DB *sql.DB }

func NewDashboardRepo(db *sql.DB) *DashboardRepo { return &DashboardRepo{DB: db} }

// FeeStatRows returns the status/amount/due-date projection of every fee.
func (r *DashboardRepo) FeeStatRows(ctx context.Context) ([]model.StatRow, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT status, amount, due_date FROM fees")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.StatRow, 0)
	for rows.Next() {
		var s model.StatRow
		if err := rows.Scan(&s.Status, &s.Amount, &s.DueDate); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountStudents counts every student record, active or not.
func (r *DashboardRepo) CountStudents(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM students").Scan(&n)
	return n, err
}

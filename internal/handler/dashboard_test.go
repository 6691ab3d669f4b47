package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/feesms/fees-management-backend/internal/model"
)

type fakeStatsStore struct {
	rows     []model.StatRow
	students int
}

func (s *fakeStatsStore) FeeStatRows(context.Context) ([]model.StatRow, error) {
	return s.rows, nil
}

func (s *fakeStatsStore) CountStudents(context.Context) (int, error) {
	return s.students, nil
}

func TestDashboard(t *testing.T) {
	now := time.Now().UTC()
	h := NewDashboardHandler(&fakeStatsStore{
		students: 4,
		rows: []model.StatRow{
			{Status: model.StatusPaid, Amount: 100, DueDate: now.Add(-48 * time.Hour)},
			{Status: model.StatusPending, Amount: 50, DueDate: now.Add(48 * time.Hour)},
			{Status: model.StatusPending, Amount: 30, DueDate: now.Add(-48 * time.Hour)},
		},
	})

	rec := request(t, h.Dashboard, http.MethodGet, "/api/admin/dashboard", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got model.DashboardStats
	if err := jsonUnmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := model.DashboardStats{
		Success:              true,
		TotalStudents:        4,
		TotalFees:            3,
		PendingFees:          2,
		OverdueFees:          1,
		PaidFees:             1,
		TotalAmountCollected: 100,
		PendingAmount:        80,
	}
	if got != want {
		t.Fatalf("stats = %+v, want %+v", got, want)
	}
}

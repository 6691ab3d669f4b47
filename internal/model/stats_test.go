package model

import (
	"testing"
	"time"
)

func TestTallyStats(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	tests := []struct {
		name     string
		rows     []StatRow
		students int
		want     DashboardStats
	}{
		{
			name: "paid and pending split",
			rows: []StatRow{
				{Status: StatusPaid, Amount: 100, DueDate: past},
				{Status: StatusPending, Amount: 50, DueDate: future},
			},
			students: 3,
			want: DashboardStats{
				Success: true, TotalStudents: 3, TotalFees: 2,
				PendingFees: 1, PaidFees: 1,
				TotalAmountCollected: 100, PendingAmount: 50,
			},
		},
		{
			name: "overdue is pending past due",
			rows: []StatRow{
				{Status: StatusPending, Amount: 80, DueDate: past},
				{Status: StatusPending, Amount: 20, DueDate: future},
			},
			students: 1,
			want: DashboardStats{
				Success: true, TotalStudents: 1, TotalFees: 2,
				PendingFees: 2, OverdueFees: 1, PendingAmount: 100,
			},
		},
		{
			name: "stored overdue literal counts only toward the total",
			rows: []StatRow{
				{Status: StatusOverdue, Amount: 75, DueDate: past},
			},
			students: 0,
			want: DashboardStats{
				Success: true, TotalFees: 1,
			},
		},
		{
			name:     "empty ledger",
			rows:     nil,
			students: 5,
			want:     DashboardStats{Success: true, TotalStudents: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TallyStats(tt.rows, tt.students, now)
			if got != tt.want {
				t.Fatalf("TallyStats = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Now().UTC()
	if !IsOverdue(StatusPending, now.Add(-time.Hour), now) {
		t.Fatal("pending past due should be overdue")
	}
	if IsOverdue(StatusPending, now.Add(time.Hour), now) {
		t.Fatal("pending future due should not be overdue")
	}
	if IsOverdue(StatusPaid, now.Add(-time.Hour), now) {
		t.Fatal("paid fees are never overdue")
	}
}

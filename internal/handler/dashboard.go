package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/feesms/fees-management-backend/internal/model"
)

// StatsStore is the persistence surface the dashboard needs. It is
// satisfied by *repository.DashboardRepo.
type StatsStore interface {
	FeeStatRows(ctx context.Context) ([]model.StatRow, error)
	CountStudents(ctx context.Context) (int, error)
}

// DashboardHandler serves the admin dashboard aggregate.
type DashboardHandler struct {
	Stats StatsStore
}

func NewDashboardHandler(stats StatsStore) *DashboardHandler {
	return &DashboardHandler{Stats: stats}
}

// Dashboard computes the summary statistics as of the moment of the call.
// The fee figures come from one row scan (so they are mutually
// consistent) and the overdue count is computed from pending fees past
// their due date, never from a stored status.
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.Stats.FeeStatRows(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}
	totalStudents, err := h.Stats.CountStudents(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}

	return c.JSON(http.StatusOK, model.TallyStats(rows, totalStudents, time.Now().UTC()))
}

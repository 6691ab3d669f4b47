package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/feesms/fees-management-backend/internal/model"
	"github.com/feesms/fees-management-backend/internal/queue"
	"github.com/feesms/fees-management-backend/internal/repository"
	queue_publisher "github.com/feesms/fees-management-backend/internal/service"
	"github.com/feesms/fees-management-backend/internal/utils"
)

// FeeStore is the persistence surface the fee endpoints need. It is
// satisfied by *repository.FeeRepo.
type FeeStore interface {
	Create(ctx context.Context, in repository.FeeInput, addedBy string) (model.Fee, error)
	GetByID(ctx context.Context, id string) (model.Fee, error)
	List(ctx context.Context) ([]model.Fee, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Fee, error)
	ListDue(ctx context.Context, now time.Time) ([]model.Fee, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]model.Fee, error)
	MarkPaid(ctx context.Context, id, updatedBy string, p repository.Payment) (model.Fee, error)
	Update(ctx context.Context, id, updatedBy string, p repository.FeePatch) (model.Fee, error)
	Delete(ctx context.Context, id string) (model.Fee, error)
}

// FeeHandler bundles dependencies for the fee ledger endpoints. AMQPURL
// is empty when event publishing is disabled.
type FeeHandler struct {
	Fees    FeeStore
	AMQPURL string
}

func NewFeeHandler(fees FeeStore, amqpURL string) *FeeHandler {
	return &FeeHandler{Fees: fees, AMQPURL: amqpURL}
}

// ----- DTOs -----

type addFeeReq struct {
	StudentID string   `json:"studentId" validate:"required"`
	FeeType   string   `json:"feeType" validate:"required"`
	Amount    float64  `json:"amount" validate:"required"`
	DueDate   string   `json:"dueDate" validate:"required"`
	PaidDate  *string  `json:"paidDate"`
	Status    string   `json:"status" validate:"omitempty,oneof=pending paid overdue"`
}

type payFeeReq struct {
	PaidAmount    *float64 `json:"paidAmount"`
	PaymentMethod *string  `json:"paymentMethod"`
}

type updateFeeReq struct {
	StudentID     *string  `json:"studentId"`
	FeeType       *string  `json:"feeType"`
	Amount        *float64 `json:"amount"`
	DueDate       *string  `json:"dueDate"`
	Status        *string  `json:"status" validate:"omitempty,oneof=pending paid overdue"`
	PaidDate      *string  `json:"paidDate"`
	PaidAmount    *float64 `json:"paidAmount"`
	PaymentMethod *string  `json:"paymentMethod"`
}

// ListFees returns every fee record, newest first.
func (h *FeeHandler) ListFees(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	fees, err := h.Fees.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch fees", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Found %d fee records", len(fees)),
		"count":   len(fees),
		"data":    fees,
	})
}

// AddFee records a new fee. Due and paid dates accept the DD-MM-YYYY form
// and are normalized before storage. The student reference is not
// validated; a dangling reference is possible by design.
func (h *FeeHandler) AddFee(c echo.Context) error {
	var req addFeeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to add fee", "error": err.Error()})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to add fee", "error": err.Error()})
	}
	due, err := utils.ParseDueDate(req.DueDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to add fee", "error": "invalid dueDate"})
	}
	in := repository.FeeInput{
		StudentID: req.StudentID,
		FeeType:   req.FeeType,
		Amount:    req.Amount,
		DueDate:   due,
		Status:    req.Status,
	}
	if req.PaidDate != nil {
		paid, err := utils.ParseDueDate(*req.PaidDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to add fee", "error": "invalid paidDate"})
		}
		in.PaidDate = &paid
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	fee, err := h.Fees.Create(ctx, in, adminID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to add fee", "error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": fmt.Sprintf("Fee '%s' added successfully for %s", fee.FeeType, studentName(fee.Student)),
		"success": true,
		"data":    fee,
	})
}

// DueFees returns pending (or stored-overdue) fees whose due date has
// arrived. The response is a bare array, mirroring the admin view this
// endpoint feeds.
func (h *FeeHandler) DueFees(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	fees, err := h.Fees.ListDue(ctx, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, fees)
}

// UpcomingFees returns pending fees due within the next seven days.
func (h *FeeHandler) UpcomingFees(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	fees, err := h.Fees.ListUpcoming(ctx, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": err.Error()})
	}
	return c.JSON(http.StatusOK, fees)
}

// PayFee marks a fee as paid. The operation is not idempotent: paying an
// already-paid fee is a 400 so the audit trail distinguishes "already
// paid" from "successfully paid". Overrides default to the fee's nominal
// amount and the Cash method.
func (h *FeeHandler) PayFee(c echo.Context) error {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid fee ID format", "feeId": id})
	}
	var req payFeeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to process payment", "error": err.Error()})
	}

	method := "Cash"
	if req.PaymentMethod != nil && *req.PaymentMethod != "" {
		method = *req.PaymentMethod
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	fee, err := h.Fees.MarkPaid(ctx, id, adminID(c), repository.Payment{
		PaidAmount:    req.PaidAmount,
		PaymentMethod: method,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Fee record not found for payment", "feeId": id})
		case errors.Is(err, repository.ErrAlreadyPaid):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Fee is already marked as paid", "feeId": id})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to process payment", "error": err.Error()})
		}
	}

	paidAmount := fee.Amount
	if fee.PaidAmount != nil {
		paidAmount = *fee.PaidAmount
	}
	h.publishPaid(fee, adminEmail(c))

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Payment of ₹%s received successfully for %s", fmtAmount(paidAmount), studentName(fee.Student)),
		"success": true,
		"data":    fee,
	})
}

// UpdateFee applies a partial patch. Attribution fields are always set
// server-side; the patch cannot forge them.
func (h *FeeHandler) UpdateFee(c echo.Context) error {
	id := c.Param("id")
	var req updateFeeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to update fee", "error": err.Error()})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to update fee", "error": err.Error()})
	}

	patch := repository.FeePatch{
		StudentID:     req.StudentID,
		FeeType:       req.FeeType,
		Amount:        req.Amount,
		Status:        req.Status,
		PaidAmount:    req.PaidAmount,
		PaymentMethod: req.PaymentMethod,
	}
	if req.DueDate != nil {
		due, err := utils.ParseDueDate(*req.DueDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to update fee", "error": "invalid dueDate"})
		}
		patch.DueDate = &due
	}
	if req.PaidDate != nil {
		paid, err := utils.ParseDueDate(*req.PaidDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to update fee", "error": "invalid paidDate"})
		}
		patch.PaidDate = &paid
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	fee, err := h.Fees.Update(ctx, id, adminID(c), patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Fee not found"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to update fee", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Fee updated successfully for %s", studentName(fee.Student)),
		"success": true,
		"data":    fee,
	})
}

// GetFee returns a single fee with its references resolved.
func (h *FeeHandler) GetFee(c echo.Context) error {
	id := c.Param("id")
	ctx, cancel := reqCtx(c)
	defer cancel()

	fee, err := h.Fees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Fee record not found", "feeId": id})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch fee details", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Fee details retrieved successfully",
		"success": true,
		"data":    fee,
	})
}

// FeeReceipt composes the receipt view for a fee. Receipt numbers derive
// from the id suffix and are display labels, not unique keys.
func (h *FeeHandler) FeeReceipt(c echo.Context) error {
	id := c.Param("id")
	ctx, cancel := reqCtx(c)
	defer cancel()

	fee, err := h.Fees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Fee record not found for receipt generation", "feeId": id})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to generate receipt data", "error": err.Error()})
	}
	receipt := model.Receipt{
		Fee:           &fee,
		Student:       fee.Student,
		ReceiptNumber: model.ReceiptNumber(fee.ID),
		GeneratedAt:   time.Now().UTC(),
		GeneratedBy:   adminEmail(c),
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Fee receipt data retrieved successfully",
		"success": true,
		"data":    receipt,
	})
}

// DeleteFee removes a fee permanently. The student's name is resolved
// before removal for the confirmation message; a dangling reference
// degrades to a placeholder instead of failing the delete.
func (h *FeeHandler) DeleteFee(c echo.Context) error {
	id := c.Param("id")
	ctx, cancel := reqCtx(c)
	defer cancel()

	fee, err := h.Fees.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Fee record not found for deletion", "feeId": id})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to delete fee", "error": err.Error()})
	}
	name := "Unknown Student"
	if fee.Student != nil {
		name = fee.Student.Name
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Fee record deleted successfully for %s", name),
		"success": true,
		"deletedFee": echo.Map{
			"id":      fee.ID,
			"feeType": fee.FeeType,
			"amount":  fee.Amount,
		},
	})
}

// publishPaid emits the fee.paid event. Fire and forget: a broker outage
// never fails the payment that already committed.
func (h *FeeHandler) publishPaid(fee model.Fee, byEmail string) {
	if h.AMQPURL == "" {
		return
	}
	ev := queue.FeePaidEvent{
		FeeID:         fee.ID,
		ReceiptNumber: model.ReceiptNumber(fee.ID),
		FeeType:       fee.FeeType,
		PaymentMethod: "Cash",
		PaidBy:        byEmail,
		PaidAt:        time.Now().UTC().Format(time.RFC3339),
	}
	if fee.PaidAmount != nil {
		ev.PaidAmount = *fee.PaidAmount
	} else {
		ev.PaidAmount = fee.Amount
	}
	if fee.PaymentMethod != nil {
		ev.PaymentMethod = *fee.PaymentMethod
	}
	if fee.Student != nil {
		ev.StudentID = fee.Student.ID
		ev.StudentName = fee.Student.Name
		ev.RollNumber = fee.Student.RollNumber
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishFeePaid(ctx, h.AMQPURL, ev)
	}()
}

// studentName resolves the display name for a possibly dangling student
// reference.
func studentName(ref *model.StudentRef) string {
	if ref == nil || ref.Name == "" {
		return "Student"
	}
	return ref.Name
}

// fmtAmount renders an amount the way the API always has: no trailing
// zeros, no exponent.
func fmtAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

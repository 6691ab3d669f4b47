package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feesms/fees-management-backend/internal/model"
	"github.com/feesms/fees-management-backend/internal/repository"
	"github.com/feesms/fees-management-backend/internal/utils"
)

// StudentStore is the persistence surface the student endpoints need. It
// is satisfied by *repository.StudentRepo.
type StudentStore interface {
	Create(ctx context.Context, in repository.StudentInput, addedBy string) (model.Student, error)
	GetByID(ctx context.Context, id string) (model.Student, error)
	ListActive(ctx context.Context) ([]model.Student, error)
	Update(ctx context.Context, id string, p repository.StudentPatch) (model.Student, error)
	Delete(ctx context.Context, id string) (model.Student, error)
}

// StudentHandler bundles dependencies for the student registry endpoints.
type StudentHandler struct {
	Students StudentStore
	Fees     FeeStore
}

func NewStudentHandler(students StudentStore, fees FeeStore) *StudentHandler {
	return &StudentHandler{Students: students, Fees: fees}
}

// ----- DTOs -----

type addStudentReq struct {
	Name          string  `json:"name" validate:"required"`
	RollNumber    string  `json:"rollNumber" validate:"required"`
	Class         string  `json:"class" validate:"required"`
	Section       *string `json:"section"`
	Phone         string  `json:"phone" validate:"required"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	ParentName    string  `json:"parentName" validate:"required"`
	ParentPhone   string  `json:"parentPhone" validate:"required"`
	AdmissionDate string  `json:"admissionDate" validate:"required"`
	TotalFee      float64 `json:"totalFee" validate:"required"`
	FeeType       string  `json:"feeType"`
}

type updateStudentReq struct {
	Name          *string  `json:"name"`
	RollNumber    *string  `json:"rollNumber"`
	Class         *string  `json:"class"`
	Section       *string  `json:"section"`
	Phone         *string  `json:"phone"`
	Email         *string  `json:"email"`
	Address       *string  `json:"address"`
	ParentName    *string  `json:"parentName"`
	ParentPhone   *string  `json:"parentPhone"`
	AdmissionDate *string  `json:"admissionDate"`
	TotalFee      *float64 `json:"totalFee"`
	FeeType       *string  `json:"feeType"`
	IsActive      *bool    `json:"isActive"`
}

// ShowStudents lists active students, newest first.
func (h *StudentHandler) ShowStudents(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	students, err := h.Students.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch students", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Found %d active students", len(students)),
		"count":   len(students),
		"data":    students,
	})
}

// GetStudent returns a single student by id.
func (h *StudentHandler) GetStudent(c echo.Context) error {
	id := c.Param("id")
	ctx, cancel := reqCtx(c)
	defer cancel()

	student, err := h.Students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Student not found with the provided ID", "studentId": id})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch student details", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Student details retrieved successfully",
		"data":    student,
	})
}

// AddStudent registers a new student attributed to the caller. A
// duplicate unique field surfaces as a 400 naming the field.
func (h *StudentHandler) AddStudent(c echo.Context) error {
	var req addStudentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to add student", "error": err.Error()})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to add student", "error": err.Error()})
	}
	admission, err := utils.ParseDueDate(req.AdmissionDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to add student", "error": "invalid admissionDate"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	student, err := h.Students.Create(ctx, repository.StudentInput{
		Name:          req.Name,
		RollNumber:    req.RollNumber,
		Class:         req.Class,
		Section:       req.Section,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		ParentName:    req.ParentName,
		ParentPhone:   req.ParentPhone,
		AdmissionDate: admission,
		TotalFee:      req.TotalFee,
		FeeType:       req.FeeType,
	}, adminID(c))
	if err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"message": fmt.Sprintf("Student with this %s already exists", dup.Field),
				"error":   err.Error(),
			})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to add student", "error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": fmt.Sprintf("Student '%s' added successfully", student.Name),
		"success": true,
		"data":    student,
	})
}

// UpdateStudent overwrites the provided fields of a student record. No
// normalization is applied to the patch.
func (h *StudentHandler) UpdateStudent(c echo.Context) error {
	id := c.Param("id")
	var req updateStudentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to update student", "error": err.Error()})
	}

	patch := repository.StudentPatch{
		Name:        req.Name,
		RollNumber:  req.RollNumber,
		Class:       req.Class,
		Section:     req.Section,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		ParentName:  req.ParentName,
		ParentPhone: req.ParentPhone,
		TotalFee:    req.TotalFee,
		FeeType:     req.FeeType,
		IsActive:    req.IsActive,
	}
	if req.AdmissionDate != nil {
		admission, err := utils.ParseDueDate(*req.AdmissionDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to update student", "error": "invalid admissionDate"})
		}
		patch.AdmissionDate = &admission
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	student, err := h.Students.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Student not found for update", "studentId": id})
		}
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"message": fmt.Sprintf("Student with this %s already exists", dup.Field),
				"error":   err.Error(),
			})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Failed to update student", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Student '%s' updated successfully", student.Name),
		"success": true,
		"data":    student,
	})
}

// StudentFees lists the fee records referencing one student.
func (h *StudentHandler) StudentFees(c echo.Context) error {
	id := c.Param("id")
	ctx, cancel := reqCtx(c)
	defer cancel()

	student, err := h.Students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Student not found", "studentId": id})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch student fees", "error": err.Error()})
	}

	fees, err := h.Fees.ListByStudent(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch student fees", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Found %d fee records for %s", len(fees), student.Name),
		"student": echo.Map{
			"id":         student.ID,
			"name":       student.Name,
			"rollNumber": student.RollNumber,
			"class":      student.Class,
		},
		"fees": fees,
	})
}

// DeleteStudent removes a student permanently. Fees referencing the
// student are left orphaned; readers substitute a placeholder for the
// missing reference.
func (h *StudentHandler) DeleteStudent(c echo.Context) error {
	id := c.Param("id")
	ctx, cancel := reqCtx(c)
	defer cancel()

	student, err := h.Students.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Student not found for deletion", "studentId": id})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to delete student", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Student '%s' deleted successfully", student.Name),
		"success": true,
		"deletedStudent": echo.Map{
			"id":         student.ID,
			"name":       student.Name,
			"rollNumber": student.RollNumber,
		},
	})
}

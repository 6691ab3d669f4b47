package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feesms/fees-management-backend/internal/config"
	"github.com/feesms/fees-management-backend/internal/model"
	"github.com/feesms/fees-management-backend/internal/repository"
	"github.com/feesms/fees-management-backend/internal/utils"
)

// AdminStore is the persistence surface the auth endpoints need. It is
// satisfied by *repository.AdminRepo.
type AdminStore interface {
	Create(ctx context.Context, email, password string, cost int) (string, error)
	GetByEmail(ctx context.Context, email string) (model.Admin, error)
	GetByID(ctx context.Context, id string) (model.Admin, error)
	UpdatePassword(ctx context.Context, id, newHash string) error
}

// AuthHandler bundles dependencies for administrator account endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Admins AdminStore
}

func NewAuthHandler(cfg config.Config, admins AdminStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Admins: admins}
}

// ----- DTOs -----

type createAdminReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}
type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}
type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// CreateAdmin provisions a new administrator account.
func (h *AuthHandler) CreateAdmin(c echo.Context) error {
	var req createAdminReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email and password are required", "error": err.Error()})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email and password are required", "error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Admins.Create(ctx, req.Email, req.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Admin already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to create admin", "error": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Admin created successfully",
	})
}

// Login verifies credentials and issues a 24-hour session token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email and password are required", "error": err.Error()})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email and password are required", "error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	admin, err := h.Admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Login failed", "error": err.Error()})
	}
	if !utils.VerifyPassword(admin.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, admin.ID, admin.Email, h.Cfg.TokenTTLHrs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Login failed", "error": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Login successful",
		"token":   tok.Token,
		"admin":   echo.Map{"id": admin.ID, "email": admin.Email},
	})
}

// ChangePassword rotates the caller's credential. It requires the current
// password and rejects a new password equal to it.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Current password and new password are required", "error": err.Error()})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Current password and new password are required", "error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	admin, err := h.Admins.GetByID(ctx, adminID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Admin not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to change password", "error": err.Error()})
	}
	if !utils.VerifyPassword(admin.PasswordHash, req.CurrentPassword) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Current password is incorrect"})
	}
	if req.CurrentPassword == req.NewPassword {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "New password cannot be same as current password"})
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to change password", "error": err.Error()})
	}
	if err := h.Admins.UpdatePassword(ctx, admin.ID, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to change password", "error": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Password changed successfully",
	})
}

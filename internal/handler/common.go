// Package handler implements the HTTP handlers for the fee-management
// API. Handlers depend on small store interfaces satisfied by the
// repository types, bind and validate request DTOs, and translate store
// errors into the JSON error contract: every failure body carries a
// human-readable "message" and, where available, an "error" detail.
package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/feesms/fees-management-backend/internal/middleware"
)

// reqCtx derives a bounded context for storage calls from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// adminID returns the authenticated administrator's id placed in the
// context by the JWT middleware. Routes using it are always registered
// behind that middleware, so an empty value means a wiring bug, not a
// client error; callers still guard against it.
func adminID(c echo.Context) string {
	id, _ := c.Get(middleware.CtxAdminID).(string)
	return id
}

// adminEmail returns the authenticated administrator's email claim.
func adminEmail(c echo.Context) string {
	email, _ := c.Get(middleware.CtxAdminEmail).(string)
	return email
}

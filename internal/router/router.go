// Package router wires the HTTP routes of the fee-management API onto an
// Echo instance. Every route under /api except the auth provisioning and
// login endpoints requires a valid bearer token.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/feesms/fees-management-backend/internal/config"
	"github.com/feesms/fees-management-backend/internal/handler"
	"github.com/feesms/fees-management-backend/internal/middleware"
)

// Handlers groups the handler sets the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Students  *handler.StudentHandler
	Fees      *handler.FeeHandler
	Dashboard *handler.DashboardHandler
}

// Register mounts every route. The Redis client may be nil, in which case
// rate limiting and dashboard caching are disabled.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	protect := middleware.JWTAuth(jwtSecret)

	// Credential endpoints. Provisioning and login are public but rate
	// limited; password rotation requires a session.
	auth := e.Group("/api/auth")
	auth.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	auth.POST("/create", h.Auth.CreateAdmin)
	auth.POST("/login", h.Auth.Login)
	auth.PUT("/change-password", h.Auth.ChangePassword, protect)

	// Dashboard aggregate, cached briefly.
	admin := e.Group("/api/admin", protect)
	admin.GET("/dashboard", h.Dashboard.Dashboard,
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	// Student registry.
	students := e.Group("/api/students", protect)
	students.GET("/show-students", h.Students.ShowStudents)
	students.POST("/add-student", h.Students.AddStudent)
	students.GET("/:id", h.Students.GetStudent)
	students.PUT("/:id", h.Students.UpdateStudent)
	students.DELETE("/:id", h.Students.DeleteStudent)
	students.GET("/:id/fees", h.Students.StudentFees)

	// Fee ledger.
	fees := e.Group("/api/fees", protect)
	fees.GET("", h.Fees.ListFees)
	fees.POST("", h.Fees.AddFee)
	fees.GET("/due", h.Fees.DueFees)
	fees.GET("/upcoming", h.Fees.UpcomingFees)
	fees.PUT("/:id/pay", h.Fees.PayFee)
	fees.GET("/:id", h.Fees.GetFee)
	fees.PUT("/:id", h.Fees.UpdateFee)
	fees.DELETE("/:id", h.Fees.DeleteFee)
	fees.GET("/:id/receipt", h.Fees.FeeReceipt)
}

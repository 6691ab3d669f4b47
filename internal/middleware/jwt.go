package middleware // package middleware contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys under which JWTAuth stores the authenticated caller.
const (
	CtxAdminID    = "admin_id"
	CtxAdminEmail = "admin_email"
)

// JWTAuth returns an Echo middleware that validates a Bearer session token
// and injects the administrator's id and email claims into the request
// context. The provided secret must match the one used when issuing
// tokens. Protected handlers read the caller via c.Get(CtxAdminID) /
// c.Get(CtxAdminEmail). A missing, malformed or expired token is rejected
// with 401 before the handler runs.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "No token, authorization denied"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				// Reject any signing method other than HMAC.
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				detail := "invalid token"
				if err != nil {
					detail = err.Error()
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token is not valid", "error": detail})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token is not valid", "error": "invalid claims"})
			}
			sub, _ := claims["sub"].(string)
			if sub == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token is not valid", "error": "missing subject"})
			}
			email, _ := claims["email"].(string)

			c.Set(CtxAdminID, sub)
			c.Set(CtxAdminEmail, email)
			return next(c)
		}
	}
}

package utils // package utils provides helper functions for token creation and hashing

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionToken represents a signed JWT session token along with its expiry.
// The token is encoded in the Authorization header when calling protected
// endpoints; the admin identifier and email travel in the claims so the
// middleware can attach them to the request context without a lookup.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for an administrator. The
// claims are: subject (sub) carrying the admin id, email, expiration (exp)
// and issued at (iat). ttlHours controls the token lifetime; the service
// default is 24 hours.
func NewSessionToken(secret, adminID, email string, ttlHours int) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlHours) * time.Hour)
	claims := jwt.MapClaims{
		"sub":   adminID,
		"email": email,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

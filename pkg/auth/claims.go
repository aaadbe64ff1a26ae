package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/portal-harnasi/backend/pkg/enums"
)

// SessionTokenPayload captures the data available when minting a session JWT.
type SessionTokenPayload struct {
	UserID     int64
	Email      string
	Role       enums.Role
	RememberMe bool
}

// SessionClaims represents the typed JWT issued to clients.
type SessionClaims struct {
	UserID int64      `json:"user_id"`
	Email  string     `json:"email"`
	Role   enums.Role `json:"role"`
	jwt.RegisteredClaims
}

package auth

import (
	"github.com/portal-harnasi/backend/internal/users"
)

// RegisterRequest is the payload for new member signup. Role is optional and
// defaults to Kursant.
type RegisterRequest struct {
	FirstName   string  `json:"firstName" validate:"required,max=100"`
	LastName    string  `json:"lastName" validate:"required,max=100"`
	Nickname    *string `json:"nickname,omitempty" validate:"omitempty,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,password"`
	Role        *string `json:"role,omitempty" validate:"omitempty,oneof=Admin Harnas Kursant"`
	BadgeNumber *string `json:"badgeNumber,omitempty" validate:"omitempty,max=50"`
}

// RegisterResponse confirms signup and echoes the stored user.
type RegisterResponse struct {
	Message string         `json:"message"`
	User    *users.UserDTO `json:"user"`
}

// LoginRequest is the credentials payload.
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// LoginUser is the trimmed identity block returned on login.
type LoginUser struct {
	ID          int64   `json:"id"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Nickname    *string `json:"nickname"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	BadgeNumber *string `json:"badgeNumber"`
}

// LoginResponse carries the session token and user summary.
type LoginResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    LoginUser `json:"user"`
}

// ResendVerificationRequest asks for a fresh activation link.
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPasswordRequest starts the reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the reset flow. The token travels in the URL.
type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

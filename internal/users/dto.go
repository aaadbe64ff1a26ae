package users

import (
	"time"

	"github.com/portal-harnasi/backend/pkg/db/models"
	"github.com/portal-harnasi/backend/pkg/enums"
	"github.com/portal-harnasi/backend/pkg/pagination"
)

// UserDTO is the transport shape that omits credentials and token state.
type UserDTO struct {
	ID              int64      `json:"id"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Nickname        *string    `json:"nickname,omitempty"`
	Email           string     `json:"email"`
	Role            enums.Role `json:"role"`
	BadgeNumber     *string    `json:"badgeNumber,omitempty"`
	IsEmailVerified bool       `json:"isEmailVerified"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	FirstName             string
	LastName              string
	Nickname              *string
	Email                 string
	PasswordHash          string
	Role                  enums.Role
	BadgeNumber           *string
	VerificationTokenHash string
	VerificationExpire    time.Time
}

// UpdateProfileDTO carries the profile fields a member may change. Nil
// pointers leave the stored value untouched.
type UpdateProfileDTO struct {
	FirstName *string
	LastName  *string
	Nickname  *string
}

// UpdateProfileRequest is the JSON payload for profile edits.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,min=1,max=100"`
	Nickname  *string `json:"nickname,omitempty" validate:"omitempty,max=100"`
}

// ToDTO converts the request into the repo-facing shape.
func (r UpdateProfileRequest) ToDTO() UpdateProfileDTO {
	return UpdateProfileDTO{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Nickname:  r.Nickname,
	}
}

// ChangeRoleRequest is the JSON payload for admin role changes.
type ChangeRoleRequest struct {
	UserID  int64  `json:"userId" validate:"required"`
	NewRole string `json:"newRole" validate:"required,oneof=Admin Harnas Kursant"`
}

// ListQuery captures admin listing filters.
type ListQuery struct {
	Search  string
	OrderBy string
	Order   string
	Page    pagination.Params
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Nickname:        u.Nickname,
		Email:           u.Email,
		Role:            u.Role,
		BadgeNumber:     u.BadgeNumber,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
	}
}

func FromModels(users []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, *FromModel(&users[i]))
	}
	return out
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.DefaultRole
	}

	tokenHash := c.VerificationTokenHash
	var tokenPtr *string
	var expirePtr *time.Time
	if tokenHash != "" {
		tokenPtr = &tokenHash
		expire := c.VerificationExpire
		expirePtr = &expire
	}

	return &models.User{
		FirstName:               c.FirstName,
		LastName:                c.LastName,
		Nickname:                c.Nickname,
		Email:                   c.Email,
		PasswordHash:            c.PasswordHash,
		Role:                    role,
		BadgeNumber:             c.BadgeNumber,
		EmailVerificationToken:  tokenPtr,
		EmailVerificationExpire: expirePtr,
	}
}

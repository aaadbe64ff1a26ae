package models

import (
	"time"

	"github.com/portal-harnasi/backend/pkg/enums"
)

// User is the canonical identity record. The password is persisted only as an
// argon2id hash; verification and reset tokens are persisted only as sha256
// digests, each paired with an absolute expiry.
type User struct {
	ID           int64      `gorm:"primaryKey;autoIncrement"`
	FirstName    string     `gorm:"column:first_name;not null"`
	LastName     string     `gorm:"column:last_name;not null"`
	Nickname     *string    `gorm:"column:nickname"`
	Email        string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Role         enums.Role `gorm:"type:text;not null;default:'Kursant'"`
	BadgeNumber  *string    `gorm:"column:badge_number"`

	IsEmailVerified         bool       `gorm:"column:is_email_verified;not null;default:false"`
	EmailVerificationToken  *string    `gorm:"column:email_verification_token"`
	EmailVerificationExpire *time.Time `gorm:"column:email_verification_expire"`
	ResetPasswordToken      *string    `gorm:"column:reset_password_token"`
	ResetPasswordExpire     *time.Time `gorm:"column:reset_password_expire"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

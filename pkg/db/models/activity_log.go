package models

import (
	"time"

	"github.com/portal-harnasi/backend/pkg/enums"
)

// ActivityLog is an append-only audit record. UserID is nullable because some
// logged actions happen before authentication; rows never reference users with
// a cascading constraint, so deleting a user keeps its history.
type ActivityLog struct {
	ID          int64        `gorm:"primaryKey;autoIncrement"`
	UserID      *int64       `gorm:"column:user_id;index"`
	Action      enums.Action `gorm:"type:text;not null;index"`
	Description string       `gorm:"type:text"`
	IPAddress   *string      `gorm:"column:ip_address"`
	UserAgent   *string      `gorm:"column:user_agent"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime;index"`
}

// TableName keeps the plural table name used by the migrations.
func (ActivityLog) TableName() string {
	return "activity_logs"
}

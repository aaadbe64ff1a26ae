package activity

import (
	"time"

	"github.com/portal-harnasi/backend/pkg/db/models"
	"github.com/portal-harnasi/backend/pkg/enums"
	"github.com/portal-harnasi/backend/pkg/pagination"
)

// RecordParams carries one audit event to be appended.
type RecordParams struct {
	UserID      *int64
	Action      enums.Action
	Description string
	IPAddress   *string
	UserAgent   *string
}

// Query filters the audit trail. All present filters are combined.
type Query struct {
	UserID    *int64
	Action    *enums.Action
	StartDate *time.Time
	EndDate   *time.Time
	Page      pagination.Params
}

// UserSummary is the enriched actor block attached for admin readers.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LogDTO is the transport shape of one audit row.
type LogDTO struct {
	ID          int64        `json:"id"`
	UserID      *int64       `json:"userId"`
	Action      enums.Action `json:"action"`
	Description string       `json:"description"`
	IPAddress   *string      `json:"ipAddress,omitempty"`
	UserAgent   *string      `json:"userAgent,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	User        *UserSummary `json:"user,omitempty"`
}

func fromModel(log *models.ActivityLog) LogDTO {
	return LogDTO{
		ID:          log.ID,
		UserID:      log.UserID,
		Action:      log.Action,
		Description: log.Description,
		IPAddress:   log.IPAddress,
		UserAgent:   log.UserAgent,
		CreatedAt:   log.CreatedAt,
	}
}

package activity

import (
	"context"
	"time"

	"github.com/portal-harnasi/backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes append and read operations for the audit trail. There
// are no update or delete operations; the table is append-only.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an activity repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create appends one audit row.
func (r *Repository) Create(ctx context.Context, log *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// List returns a page of audit rows, newest first, plus the filtered total.
// Date filters cover whole days.
func (r *Repository) List(ctx context.Context, q Query) ([]models.ActivityLog, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.ActivityLog{})

	if q.UserID != nil {
		base = base.Where("user_id = ?", *q.UserID)
	}
	if q.Action != nil {
		base = base.Where("action = ?", *q.Action)
	}
	if q.StartDate != nil {
		base = base.Where("created_at >= ?", startOfDay(*q.StartDate))
	}
	if q.EndDate != nil {
		base = base.Where("created_at < ?", startOfDay(*q.EndDate).AddDate(0, 0, 1))
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ActivityLog
	err := base.
		Order("created_at DESC").
		Limit(q.Page.Limit).
		Offset(q.Page.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

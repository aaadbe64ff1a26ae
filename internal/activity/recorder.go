package activity

import (
	"context"

	"github.com/portal-harnasi/backend/pkg/db/models"
	"github.com/portal-harnasi/backend/pkg/logger"
)

type appendRepo interface {
	Create(ctx context.Context, log *models.ActivityLog) error
}

// Recorder appends audit events on a best-effort basis. A failed write is
// logged and swallowed so it never fails the operation being audited.
type Recorder struct {
	repo appendRepo
	logg *logger.Logger
}

// NewRecorder constructs a best-effort audit recorder.
func NewRecorder(repo appendRepo, logg *logger.Logger) *Recorder {
	return &Recorder{repo: repo, logg: logg}
}

// Record appends one audit event.
func (r *Recorder) Record(ctx context.Context, params RecordParams) {
	if r == nil || r.repo == nil {
		return
	}
	if !params.Action.IsValid() {
		if r.logg != nil {
			r.logg.Warn(r.logg.WithField(ctx, "action", string(params.Action)), "dropping audit event with unknown action")
		}
		return
	}

	log := &models.ActivityLog{
		UserID:      params.UserID,
		Action:      params.Action,
		Description: params.Description,
		IPAddress:   params.IPAddress,
		UserAgent:   params.UserAgent,
	}
	if err := r.repo.Create(ctx, log); err != nil && r.logg != nil {
		r.logg.Error(ctx, "appending audit event failed", err)
	}
}

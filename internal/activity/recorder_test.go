package activity

import (
	"context"
	"errors"
	"testing"

	"github.com/portal-harnasi/backend/pkg/db/models"
	"github.com/portal-harnasi/backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderAppendsEvent(t *testing.T) {
	repo := &stubAppendRepo{}
	rec := NewRecorder(repo, nil)

	userID := int64(4)
	ip := "10.0.0.1"
	rec.Record(context.Background(), RecordParams{
		UserID:      &userID,
		Action:      enums.ActionLogin,
		Description: "login ok",
		IPAddress:   &ip,
	})

	require.Len(t, repo.created, 1)
	row := repo.created[0]
	assert.Equal(t, enums.ActionLogin, row.Action)
	require.NotNil(t, row.UserID)
	assert.Equal(t, int64(4), *row.UserID)
	require.NotNil(t, row.IPAddress)
	assert.Equal(t, "10.0.0.1", *row.IPAddress)
}

func TestRecorderSwallowsWriteFailures(t *testing.T) {
	repo := &stubAppendRepo{err: errors.New("db down")}
	rec := NewRecorder(repo, nil)

	rec.Record(context.Background(), RecordParams{Action: enums.ActionRegister, Description: "x"})
	// no panic and no error surfaced to the caller
}

func TestRecorderDropsUnknownActions(t *testing.T) {
	repo := &stubAppendRepo{}
	rec := NewRecorder(repo, nil)

	rec.Record(context.Background(), RecordParams{Action: enums.Action("DANCE"), Description: "x"})
	assert.Empty(t, repo.created)
}

type stubAppendRepo struct {
	created []*models.ActivityLog
	err     error
}

func (s *stubAppendRepo) Create(ctx context.Context, log *models.ActivityLog) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, log)
	return nil
}

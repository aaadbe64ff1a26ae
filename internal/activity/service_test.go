package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/portal-harnasi/backend/pkg/db/models"
	"github.com/portal-harnasi/backend/pkg/enums"
	"github.com/portal-harnasi/backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAllEnrichesActors(t *testing.T) {
	userID := int64(7)
	deletedID := int64(8)
	repo := &stubListRepo{
		rows: []models.ActivityLog{
			{ID: 1, UserID: &userID, Action: enums.ActionLogin, Description: "login ok"},
			{ID: 2, UserID: &deletedID, Action: enums.ActionRegister, Description: "register"},
			{ID: 3, Action: enums.ActionPasswordResetRequest, Description: "anonymous request"},
		},
		total: 3,
	}
	lookup := &stubUserLookup{users: []models.User{
		{ID: 7, FirstName: "Jan", LastName: "Kowalski", Email: "jan@example.com"},
	}}
	svc := buildActivityService(t, repo, lookup)

	dtos, meta, err := svc.ListAll(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, dtos, 3)

	require.NotNil(t, dtos[0].User)
	assert.Equal(t, "Jan Kowalski", dtos[0].User.Name)
	assert.Equal(t, "jan@example.com", dtos[0].User.Email)

	assert.Nil(t, dtos[1].User, "rows of deleted users keep a nil summary")
	assert.Nil(t, dtos[2].User, "anonymous rows have no summary")

	assert.Equal(t, int64(3), meta.TotalItems)
	assert.Equal(t, adminListLimit, meta.ItemsPerPage)
	assert.ElementsMatch(t, []int64{7, 8}, lookup.requested)
}

func TestListOwnForcesUserFilter(t *testing.T) {
	repo := &stubListRepo{}
	svc := buildActivityService(t, repo, &stubUserLookup{})

	other := int64(99)
	_, meta, err := svc.ListOwn(context.Background(), 5, Query{UserID: &other})
	require.NoError(t, err)

	require.NotNil(t, repo.lastQuery.UserID)
	assert.Equal(t, int64(5), *repo.lastQuery.UserID, "caller id wins over the query filter")
	assert.Equal(t, ownListLimit, meta.ItemsPerPage)
}

func TestListAllPassesFiltersThrough(t *testing.T) {
	repo := &stubListRepo{}
	svc := buildActivityService(t, repo, &stubUserLookup{})

	action := enums.ActionRoleChange
	start := time.Date(2026, 3, 1, 15, 4, 5, 0, time.UTC)
	_, _, err := svc.ListAll(context.Background(), Query{
		Action:    &action,
		StartDate: &start,
		Page:      pagination.Params{Page: 2, Limit: 50},
	})
	require.NoError(t, err)

	require.NotNil(t, repo.lastQuery.Action)
	assert.Equal(t, enums.ActionRoleChange, *repo.lastQuery.Action)
	require.NotNil(t, repo.lastQuery.StartDate)
	assert.Equal(t, 2, repo.lastQuery.Page.Page)
	assert.Equal(t, 50, repo.lastQuery.Page.Limit)
}

func TestListAllRepoError(t *testing.T) {
	repo := &stubListRepo{err: errors.New("db down")}
	svc := buildActivityService(t, repo, &stubUserLookup{})

	_, _, err := svc.ListAll(context.Background(), Query{})
	require.Error(t, err)
}

func buildActivityService(t *testing.T, repo *stubListRepo, users *stubUserLookup) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Users: users})
	require.NoError(t, err)
	return svc
}

type stubListRepo struct {
	rows      []models.ActivityLog
	total     int64
	err       error
	lastQuery Query
}

func (s *stubListRepo) List(ctx context.Context, q Query) ([]models.ActivityLog, int64, error) {
	s.lastQuery = q
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.rows, s.total, nil
}

type stubUserLookup struct {
	users     []models.User
	requested []int64
}

func (s *stubUserLookup) FindByIDs(ctx context.Context, ids []int64) ([]models.User, error) {
	s.requested = append(s.requested, ids...)
	return s.users, nil
}

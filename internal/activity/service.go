package activity

import (
	"context"
	"fmt"

	"github.com/portal-harnasi/backend/pkg/db/models"
	pkgerrors "github.com/portal-harnasi/backend/pkg/errors"
	"github.com/portal-harnasi/backend/pkg/pagination"
)

const (
	adminListLimit = 25
	ownListLimit   = 10
)

// Service defines the behavior needed by the activity log endpoints.
type Service interface {
	// ListAll serves admin readers and enriches rows with actor summaries.
	ListAll(ctx context.Context, q Query) ([]LogDTO, pagination.Meta, error)
	// ListOwn serves a member reading their own trail. The user filter is
	// forced to the caller regardless of what the query asks for.
	ListOwn(ctx context.Context, userID int64, q Query) ([]LogDTO, pagination.Meta, error)
}

type listRepo interface {
	List(ctx context.Context, q Query) ([]models.ActivityLog, int64, error)
}

type userLookup interface {
	FindByIDs(ctx context.Context, ids []int64) ([]models.User, error)
}

type service struct {
	repo  listRepo
	users userLookup
}

// ServiceParams bundles the dependencies required to build an activity service.
type ServiceParams struct {
	Repo  listRepo
	Users userLookup
}

// NewService constructs an activity service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("activity repository is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user lookup is required")
	}
	return &service{repo: params.Repo, users: params.Users}, nil
}

func (s *service) ListAll(ctx context.Context, q Query) ([]LogDTO, pagination.Meta, error) {
	q.Page = q.Page.Normalize(adminListLimit)

	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list activity logs")
	}

	dtos := make([]LogDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, fromModel(&rows[i]))
	}
	if err := s.enrich(ctx, dtos); err != nil {
		return nil, pagination.Meta{}, err
	}
	return dtos, pagination.NewMeta(total, q.Page), nil
}

func (s *service) ListOwn(ctx context.Context, userID int64, q Query) ([]LogDTO, pagination.Meta, error) {
	q.UserID = &userID
	q.Page = q.Page.Normalize(ownListLimit)

	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list activity logs")
	}

	dtos := make([]LogDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, fromModel(&rows[i]))
	}
	return dtos, pagination.NewMeta(total, q.Page), nil
}

// enrich batch-loads the referenced users and attaches their summaries.
// Rows pointing at deleted users keep a nil summary.
func (s *service) enrich(ctx context.Context, dtos []LogDTO) error {
	idSet := map[int64]struct{}{}
	for _, dto := range dtos {
		if dto.UserID != nil {
			idSet[*dto.UserID] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	found, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load log actors")
	}
	byID := make(map[int64]UserSummary, len(found))
	for i := range found {
		u := found[i]
		byID[u.ID] = UserSummary{
			ID:    u.ID,
			Name:  u.FirstName + " " + u.LastName,
			Email: u.Email,
		}
	}

	for i := range dtos {
		if dtos[i].UserID == nil {
			continue
		}
		if summary, ok := byID[*dtos[i].UserID]; ok {
			s := summary
			dtos[i].User = &s
		}
	}
	return nil
}

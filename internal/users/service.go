package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/portal-harnasi/backend/pkg/db/models"
	"github.com/portal-harnasi/backend/pkg/enums"
	pkgerrors "github.com/portal-harnasi/backend/pkg/errors"
	"github.com/portal-harnasi/backend/pkg/pagination"
	"gorm.io/gorm"
)

const defaultListLimit = 10

// Service defines the behavior needed by the users controller.
type Service interface {
	GetProfile(ctx context.Context, userID int64) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID int64, dto UpdateProfileDTO) (*UserDTO, error)
	List(ctx context.Context, q ListQuery) ([]UserDTO, pagination.Meta, error)
	ChangeRole(ctx context.Context, userID int64, newRole enums.Role) (*UserDTO, enums.Role, error)
}

type repository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, dto UpdateProfileDTO) error
	UpdateRole(ctx context.Context, id int64, role string) error
	List(ctx context.Context, q ListQuery) ([]models.User, int64, error)
}

type service struct {
	repo repository
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo repository
}

// NewService constructs a users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*UserDTO, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, dto UpdateProfileDTO) (*UserDTO, error) {
	if _, err := s.findUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProfile(ctx, userID, dto); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context, q ListQuery) ([]UserDTO, pagination.Meta, error) {
	q.Page = q.Page.Normalize(defaultListLimit)

	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pagination.Meta{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	return FromModels(rows), pagination.NewMeta(total, q.Page), nil
}

func (s *service) ChangeRole(ctx context.Context, userID int64, newRole enums.Role) (*UserDTO, enums.Role, error) {
	if !newRole.IsValid() {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	previous := user.Role

	if err := s.repo.UpdateRole(ctx, userID, string(newRole)); err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update role")
	}
	user.Role = newRole
	return FromModel(user), previous, nil
}

func (s *service) findUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return user, nil
}

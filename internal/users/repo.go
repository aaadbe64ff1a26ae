package users

import (
	"context"
	"strings"
	"time"

	"github.com/portal-harnasi/backend/pkg/db/models"
	"gorm.io/gorm"
)

// orderColumns whitelists sortable fields for the admin listing. Anything
// else falls back to id.
var orderColumns = map[string]string{
	"id":        "id",
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"createdAt": "created_at",
}

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email, case insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", strings.TrimSpace(email)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their numeric id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs loads the users matching the given ids, in no particular order.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByVerificationTokenHash loads the user holding the given verification
// token digest. Expiry is the caller's concern.
func (r *Repository) FindByVerificationTokenHash(ctx context.Context, hash string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email_verification_token = ?", hash).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByResetTokenHash loads the user holding the given reset token digest.
func (r *Repository) FindByResetTokenHash(ctx context.Context, hash string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("reset_password_token = ?", hash).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies the non-nil profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, id int64, dto UpdateProfileDTO) error {
	updates := map[string]any{}
	if dto.FirstName != nil {
		updates["first_name"] = *dto.FirstName
	}
	if dto.LastName != nil {
		updates["last_name"] = *dto.LastName
	}
	if dto.Nickname != nil {
		updates["nickname"] = *dto.Nickname
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateRole overwrites the user's role.
func (r *Repository) UpdateRole(ctx context.Context, id int64, role string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("role", role).Error
}

// MarkEmailVerified flips the verified flag and retires the token pair.
func (r *Repository) MarkEmailVerified(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_email_verified":         true,
			"email_verification_token":  nil,
			"email_verification_expire": nil,
		}).Error
}

// SetVerificationToken stores a fresh verification token digest and expiry.
func (r *Repository) SetVerificationToken(ctx context.Context, id int64, hash string, expire time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"email_verification_token":  hash,
			"email_verification_expire": expire,
		}).Error
}

// SetResetToken stores a fresh reset token digest and expiry.
func (r *Repository) SetResetToken(ctx context.Context, id int64, hash string, expire time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reset_password_token":  hash,
			"reset_password_expire": expire,
		}).Error
}

// ClearResetToken drops any outstanding reset token.
func (r *Repository) ClearResetToken(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reset_password_token":  nil,
			"reset_password_expire": nil,
		}).Error
}

// UpdatePassword replaces the password hash and retires any reset token.
func (r *Repository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash":         passwordHash,
			"reset_password_token":  nil,
			"reset_password_expire": nil,
		}).Error
}

// Delete removes a user row. Used to unwind a registration whose
// verification email could not be delivered.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}

// List returns a page of users plus the filtered total.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.User, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.User{})

	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := "%" + search + "%"
		base = base.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR nickname ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := orderColumns[q.OrderBy]
	if !ok {
		column = "id"
	}
	direction := "ASC"
	if strings.EqualFold(q.Order, "DESC") {
		direction = "DESC"
	}

	var rows []models.User
	err := base.
		Order(column + " " + direction).
		Limit(q.Page.Limit).
		Offset(q.Page.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

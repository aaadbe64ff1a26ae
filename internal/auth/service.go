package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/portal-harnasi/backend/internal/users"
	pkgAuth "github.com/portal-harnasi/backend/pkg/auth"
	"github.com/portal-harnasi/backend/pkg/config"
	"github.com/portal-harnasi/backend/pkg/db"
	"github.com/portal-harnasi/backend/pkg/db/models"
	"github.com/portal-harnasi/backend/pkg/enums"
	pkgerrors "github.com/portal-harnasi/backend/pkg/errors"
	"github.com/portal-harnasi/backend/pkg/mailer"
	"github.com/portal-harnasi/backend/pkg/security"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// emailUniqueConstraint is the case-insensitive unique index on users.email.
const emailUniqueConstraint = "users_email_lower_uidx"

// Service defines the behavior needed by the auth endpoints.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) (int64, error)
	ResetPassword(ctx context.Context, token, password string) (int64, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByVerificationTokenHash(ctx context.Context, hash string) (*models.User, error)
	FindByResetTokenHash(ctx context.Context, hash string) (*models.User, error)
	MarkEmailVerified(ctx context.Context, id int64) error
	SetVerificationToken(ctx context.Context, id int64, hash string, expire time.Time) error
	SetResetToken(ctx context.Context, id int64, hash string, expire time.Time) error
	ClearResetToken(ctx context.Context, id int64) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

type service struct {
	users    userRepository
	mail     mailer.Sender
	appCfg   config.AppConfig
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	tokenCfg config.TokenConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	Mailer         mailer.Sender
	AppConfig      config.AppConfig
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	TokenConfig    config.TokenConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Mailer == nil {
		return nil, fmt.Errorf("mailer is required")
	}
	return &service{
		users:    params.UserRepo,
		mail:     params.Mailer,
		appCfg:   params.AppConfig,
		jwtCfg:   params.JWTConfig,
		pwCfg:    params.PasswordConfig,
		tokenCfg: params.TokenConfig,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDuplicateEmail, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup email")
	}

	role := enums.DefaultRole
	if req.Role != nil {
		parsed, err := enums.ParseRole(*req.Role)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		role = parsed
	}

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	now := time.Now().UTC()
	token, err := security.IssueToken(security.TokenPurposeVerification, now, s.tokenCfg.VerificationTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue verification token")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		FirstName:             strings.TrimSpace(req.FirstName),
		LastName:              strings.TrimSpace(req.LastName),
		Nickname:              req.Nickname,
		Email:                 email,
		PasswordHash:          hash,
		Role:                  role,
		BadgeNumber:           req.BadgeNumber,
		VerificationTokenHash: token.Hash,
		VerificationExpire:    token.ExpiresAt,
	})
	if err != nil {
		// Catches the insert race two concurrent registrations can hit after
		// both pass the FindByEmail pre-check.
		if db.IsUniqueViolation(err, emailUniqueConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicateEmail, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	msg := mailer.VerificationMessage(user.Email, s.appCfg.BaseURL, token.Plain)
	if err := s.mail.Send(ctx, msg); err != nil {
		// The account is unusable without the activation link, so unwind it
		// and let the member retry the whole registration.
		_ = s.users.Delete(ctx, user.ID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotification, err, "send verification email")
	}

	return &RegisterResponse{
		Message: "Użytkownik został zarejestrowany pomyślnie. Sprawdź swoją skrzynkę email, aby aktywować konto.",
		User:    users.FromModel(user),
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	// The password is checked before the verification state so that a wrong
	// password always yields the same answer, verified account or not.
	valid, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if !user.IsEmailVerified {
		return nil, pkgerrors.New(pkgerrors.CodeEmailNotVerified, "email not verified").
			WithDetails(map[string]any{"needVerification": true})
	}

	token, err := pkgAuth.MintSessionToken(s.jwtCfg, time.Now().UTC(), pkgAuth.SessionTokenPayload{
		UserID:     user.ID,
		Email:      user.Email,
		Role:       user.Role,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &LoginResponse{
		Message: "Logowanie pomyślne",
		Token:   token,
		User: LoginUser{
			ID:          user.ID,
			FirstName:   user.FirstName,
			LastName:    user.LastName,
			Nickname:    user.Nickname,
			Email:       user.Email,
			Role:        string(user.Role),
			BadgeNumber: user.BadgeNumber,
		},
	}, nil
}

func (s *service) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.lookupByToken(ctx, token, s.users.FindByVerificationTokenHash)
	if err != nil {
		return err
	}
	if !security.ValidateToken(token, user.EmailVerificationToken, user.EmailVerificationExpire, time.Now().UTC()) {
		return pkgerrors.New(pkgerrors.CodeInvalidToken, "invalid or expired verification token")
	}
	if err := s.users.MarkEmailVerified(ctx, user.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark verified")
	}
	return nil
}

func (s *service) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if user.IsEmailVerified {
		return pkgerrors.New(pkgerrors.CodeAlreadyVerified, "email already verified")
	}

	now := time.Now().UTC()
	token, err := security.IssueToken(security.TokenPurposeVerification, now, s.tokenCfg.VerificationTTL)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue verification token")
	}
	if err := s.users.SetVerificationToken(ctx, user.ID, token.Hash, token.ExpiresAt); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store verification token")
	}

	msg := mailer.ResendVerificationMessage(user.Email, s.appCfg.BaseURL, token.Plain)
	if err := s.mail.Send(ctx, msg); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNotification, err, "send verification email")
	}
	return nil
}

func (s *service) ForgotPassword(ctx context.Context, email string) (int64, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	now := time.Now().UTC()
	token, err := security.IssueToken(security.TokenPurposeReset, now, s.tokenCfg.ResetTTL)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue reset token")
	}
	if err := s.users.SetResetToken(ctx, user.ID, token.Hash, token.ExpiresAt); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store reset token")
	}

	msg := mailer.PasswordResetMessage(user.Email, s.appCfg.BaseURL, token.Plain)
	if err := s.mail.Send(ctx, msg); err != nil {
		// A token nobody received must not stay live.
		_ = s.users.ClearResetToken(ctx, user.ID)
		return 0, pkgerrors.Wrap(pkgerrors.CodeNotification, err, "send reset email")
	}
	return user.ID, nil
}

func (s *service) ResetPassword(ctx context.Context, token, password string) (int64, error) {
	user, err := s.lookupByToken(ctx, token, s.users.FindByResetTokenHash)
	if err != nil {
		return 0, err
	}
	if !security.ValidateToken(token, user.ResetPasswordToken, user.ResetPasswordExpire, time.Now().UTC()) {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidToken, "invalid or expired reset token")
	}

	hash, err := security.HashPassword(password, s.pwCfg)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	return user.ID, nil
}

func (s *service) lookupByToken(
	ctx context.Context,
	token string,
	find func(context.Context, string) (*models.User, error),
) (*models.User, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidToken, "invalid or expired token")
	}
	user, err := find(ctx, security.HashToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidToken, "invalid or expired token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup token")
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

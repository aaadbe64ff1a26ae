package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/portal-harnasi/backend/internal/activity"
	"github.com/portal-harnasi/backend/internal/auth"
	"github.com/portal-harnasi/backend/internal/users"
	pkgAuth "github.com/portal-harnasi/backend/pkg/auth"
	"github.com/portal-harnasi/backend/pkg/config"
	"github.com/portal-harnasi/backend/pkg/enums"
	"github.com/portal-harnasi/backend/pkg/logger"
	"github.com/portal-harnasi/backend/pkg/metrics"
	"github.com/portal-harnasi/backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct {
	login func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
}

func (s stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	if s.login != nil {
		return s.login(ctx, req)
	}
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) VerifyEmail(ctx context.Context, token string) error {
	return fmt.Errorf("not implemented")
}

func (stubAuthService) ResendVerification(ctx context.Context, email string) error {
	return fmt.Errorf("not implemented")
}

func (stubAuthService) ForgotPassword(ctx context.Context, email string) (int64, error) {
	return 0, fmt.Errorf("not implemented")
}

func (stubAuthService) ResetPassword(ctx context.Context, token, password string) (int64, error) {
	return 0, fmt.Errorf("not implemented")
}

type stubUsersService struct {
	profile func(ctx context.Context, userID int64) (*users.UserDTO, error)
	list    func(ctx context.Context, q users.ListQuery) ([]users.UserDTO, pagination.Meta, error)
}

func (s stubUsersService) GetProfile(ctx context.Context, userID int64) (*users.UserDTO, error) {
	if s.profile != nil {
		return s.profile(ctx, userID)
	}
	return nil, fmt.Errorf("not implemented")
}

func (stubUsersService) UpdateProfile(ctx context.Context, userID int64, dto users.UpdateProfileDTO) (*users.UserDTO, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s stubUsersService) List(ctx context.Context, q users.ListQuery) ([]users.UserDTO, pagination.Meta, error) {
	if s.list != nil {
		return s.list(ctx, q)
	}
	return nil, pagination.Meta{}, fmt.Errorf("not implemented")
}

func (stubUsersService) ChangeRole(ctx context.Context, userID int64, newRole enums.Role) (*users.UserDTO, enums.Role, error) {
	return nil, "", fmt.Errorf("not implemented")
}

type stubActivityService struct {
	listOwn func(ctx context.Context, userID int64, q activity.Query) ([]activity.LogDTO, pagination.Meta, error)
}

func (stubActivityService) ListAll(ctx context.Context, q activity.Query) ([]activity.LogDTO, pagination.Meta, error) {
	return []activity.LogDTO{}, pagination.Meta{}, nil
}

func (s stubActivityService) ListOwn(ctx context.Context, userID int64, q activity.Query) ([]activity.LogDTO, pagination.Meta, error) {
	if s.listOwn != nil {
		return s.listOwn(ctx, userID, q)
	}
	return []activity.LogDTO{}, pagination.Meta{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0", BaseURL: "http://localhost:3000"},
		JWT: config.JWTConfig{
			Secret:             "test-secret",
			Issuer:             "portal-test",
			SessionTTLHours:    1,
			RememberMeTTLHours: 2,
		},
		// Zero windows keep the throttling middleware out of the way.
		AuthRateLimit: config.AuthRateLimitConfig{},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, authSvc auth.Service, usersSvc users.Service, activitySvc activity.Service) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil,
		metrics.NewHTTPMetrics(nil),
		nil,
		authSvc,
		usersSvc,
		activitySvc,
		nil,
	)
}

func mintToken(t *testing.T, cfg *config.Config, userID int64, role enums.Role) string {
	t.Helper()
	token, err := pkgAuth.MintSessionToken(cfg.JWT, time.Now(), pkgAuth.SessionTokenPayload{
		UserID: userID,
		Email:  "member@example.com",
		Role:   role,
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return token
}

func TestRouterHealthLive(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg, stubAuthService{}, stubUsersService{}, stubActivityService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Portal-Env"); got != "test" {
		t.Fatalf("expected env header, got %q", got)
	}
}

func TestRouterLoginDispatch(t *testing.T) {
	cfg := testConfig()
	authSvc := stubAuthService{
		login: func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
			return &auth.LoginResponse{
				Message: "Logowanie pomyślne",
				Token:   "jwt",
				User:    auth.LoginUser{ID: 7, Email: req.Email, Role: "Kursant"},
			}, nil
		},
	}
	router := newTestRouter(t, cfg, authSvc, stubUsersService{}, stubActivityService{})

	body := strings.NewReader(`{"email":"member@example.com","password":"Haslo123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/users/login", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if envelope.Data.Token != "jwt" || envelope.Data.User.ID != 7 {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestRouterProfileRequiresAuth(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg, stubAuthService{}, stubUsersService{}, stubActivityService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/profile", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouterProfileWithToken(t *testing.T) {
	cfg := testConfig()
	usersSvc := stubUsersService{
		profile: func(ctx context.Context, userID int64) (*users.UserDTO, error) {
			return &users.UserDTO{ID: userID, Email: "member@example.com", Role: enums.RoleKursant}, nil
		},
	}
	router := newTestRouter(t, cfg, stubAuthService{}, usersSvc, stubActivityService{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, 42, enums.RoleKursant))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"id":42`) {
		t.Fatalf("expected caller id in body, got %s", rec.Body.String())
	}
}

func TestRouterAdminListForbiddenForMembers(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg, stubAuthService{}, stubUsersService{}, stubActivityService{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/all", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, 42, enums.RoleKursant))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRouterAdminListAllowsAdmins(t *testing.T) {
	cfg := testConfig()
	usersSvc := stubUsersService{
		list: func(ctx context.Context, q users.ListQuery) ([]users.UserDTO, pagination.Meta, error) {
			return []users.UserDTO{}, pagination.NewMeta(0, q.Page.Normalize(10)), nil
		},
	}
	router := newTestRouter(t, cfg, stubAuthService{}, usersSvc, stubActivityService{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/all", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, 1, enums.RoleAdmin))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body %s", rec.Code, rec.Body.String())
	}
}

func TestRouterOwnActivityLogsUseCallerIdentity(t *testing.T) {
	cfg := testConfig()
	var seenUserID int64
	activitySvc := stubActivityService{
		listOwn: func(ctx context.Context, userID int64, q activity.Query) ([]activity.LogDTO, pagination.Meta, error) {
			seenUserID = userID
			return []activity.LogDTO{}, pagination.Meta{}, nil
		},
	}
	router := newTestRouter(t, cfg, stubAuthService{}, stubUsersService{}, activitySvc)

	req := httptest.NewRequest(http.MethodGet, "/api/activity-logs/me", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, 77, enums.RoleHarnas))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body %s", rec.Code, rec.Body.String())
	}
	if seenUserID != 77 {
		t.Fatalf("expected caller id 77, got %d", seenUserID)
	}
}

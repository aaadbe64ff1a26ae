package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/portal-harnasi/backend/api/controllers"
	"github.com/portal-harnasi/backend/api/middleware"
	"github.com/portal-harnasi/backend/internal/activity"
	"github.com/portal-harnasi/backend/internal/auth"
	"github.com/portal-harnasi/backend/internal/users"
	"github.com/portal-harnasi/backend/pkg/config"
	"github.com/portal-harnasi/backend/pkg/db"
	"github.com/portal-harnasi/backend/pkg/enums"
	"github.com/portal-harnasi/backend/pkg/logger"
	"github.com/portal-harnasi/backend/pkg/metrics"
	"github.com/portal-harnasi/backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	authService auth.Service,
	usersService users.Service,
	activityService activity.Service,
	recorder *activity.Recorder,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": dbP,
			"redis":    pingerOrNil(redisClient),
		}))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/users", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
			Post("/register", controllers.Register(authService, recorder, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.Login(authService, recorder, logg))

		// Token-bearing links are never throttled; guessing a 160-bit token
		// is not a realistic brute-force surface.
		r.Get("/verify-email/{token}", controllers.VerifyEmail(authService, cfg.App, logg))
		r.Post("/resend-verification", controllers.ResendVerification(authService, logg))
		r.Post("/forgot-password", controllers.ForgotPassword(authService, recorder, logg))
		r.Put("/reset-password/{token}", controllers.ResetPassword(authService, recorder, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/profile", controllers.GetProfile(usersService, logg))
			r.Put("/profile", controllers.UpdateProfile(usersService, recorder, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.RoleAdmin))
				r.Get("/all", controllers.ListUsers(usersService, logg))
				r.Put("/role", controllers.ChangeUserRole(usersService, recorder, logg))
			})
		})
	})

	r.Route("/api/activity-logs", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/me", controllers.ListOwnActivityLogs(activityService, logg))
		r.With(middleware.RequireRole(logg, enums.RoleAdmin)).
			Get("/", controllers.ListActivityLogs(activityService, logg))
	})

	return r
}

// pingerOrNil avoids a typed-nil interface when redis is not wired.
func pingerOrNil(client *redis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}

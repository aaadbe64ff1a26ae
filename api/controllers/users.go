package controllers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/portal-harnasi/backend/api/middleware"
	"github.com/portal-harnasi/backend/api/responses"
	"github.com/portal-harnasi/backend/api/validators"
	"github.com/portal-harnasi/backend/internal/activity"
	"github.com/portal-harnasi/backend/internal/auth"
	"github.com/portal-harnasi/backend/internal/users"
	"github.com/portal-harnasi/backend/pkg/config"
	"github.com/portal-harnasi/backend/pkg/enums"
	pkgerrors "github.com/portal-harnasi/backend/pkg/errors"
	"github.com/portal-harnasi/backend/pkg/logger"
	"github.com/portal-harnasi/backend/pkg/pagination"
)

// Register wires the signup endpoint into the HTTP layer.
func Register(svc auth.Service, rec *activity.Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recordAudit(r, rec, &result.User.ID, enums.ActionRegister, "Nowy użytkownik zarejestrował się.")
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// Login wires the credentials endpoint into the HTTP layer.
func Login(svc auth.Service, rec *activity.Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recordAudit(r, rec, &result.User.ID, enums.ActionLogin, "Użytkownik zalogował się.")
		responses.WriteSuccess(w, result)
	}
}

// VerifyEmail consumes an activation link and redirects to the frontend.
func VerifyEmail(svc auth.Service, appCfg config.AppConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		if err := svc.VerifyEmail(r.Context(), token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		http.Redirect(w, r, appCfg.BaseURL+"/login?verified=true", http.StatusFound)
	}
}

// ResendVerification issues a fresh activation link.
func ResendVerification(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.ResendVerificationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ResendVerification(r.Context(), body.Email); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{
			"message": "Nowy link weryfikacyjny został wysłany na Twój adres email.",
		})
	}
}

// ForgotPassword starts the reset flow.
func ForgotPassword(svc auth.Service, rec *activity.Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.ForgotPasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := svc.ForgotPassword(r.Context(), body.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recordAudit(r, rec, &userID, enums.ActionPasswordResetRequest, "Użytkownik zażądał resetowania hasła.")
		responses.WriteSuccess(w, map[string]string{
			"message": "Email z instrukcjami resetowania hasła został wysłany",
		})
	}
}

// ResetPassword completes the reset flow with the emailed token.
func ResetPassword(svc auth.Service, rec *activity.Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.ResetPasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token := chi.URLParam(r, "token")
		userID, err := svc.ResetPassword(r.Context(), token, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recordAudit(r, rec, &userID, enums.ActionPasswordReset, "Użytkownik zresetował hasło.")
		responses.WriteSuccess(w, map[string]string{
			"message": "Hasło zostało zmienione pomyślnie",
		})
	}
}

// GetProfile returns the authenticated member's record.
func GetProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		user, err := svc.GetProfile(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"user": user})
	}
}

// UpdateProfile applies profile edits for the authenticated member.
func UpdateProfile(svc users.Service, rec *activity.Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var body users.UpdateProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.UpdateProfile(r.Context(), userID, body.ToDTO())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recordAudit(r, rec, &userID, enums.ActionProfileUpdate, "Użytkownik zaktualizował swój profil.")
		responses.WriteSuccess(w, map[string]any{
			"message": "Profil zaktualizowany pomyślnie",
			"user":    user,
		})
	}
}

// ListUsers serves the admin user directory.
func ListUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 10, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, meta, err := svc.List(r.Context(), users.ListQuery{
			Search:  r.URL.Query().Get("search"),
			OrderBy: r.URL.Query().Get("orderBy"),
			Order:   r.URL.Query().Get("order"),
			Page:    pagination.Params{Page: page, Limit: limit},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"users":      rows,
			"pagination": meta,
		})
	}
}

// ChangeUserRole lets an admin reassign a member's role.
func ChangeUserRole(svc users.Service, rec *activity.Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var body users.ChangeRoleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseRole(body.NewRole)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid role"))
			return
		}

		user, _, err := svc.ChangeRole(r.Context(), body.UserID, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		desc := fmt.Sprintf("Zmiana roli dla użytkownika ID: %d na: %s.", user.ID, user.Role)
		recordAudit(r, rec, &actorID, enums.ActionRoleChange, desc)
		responses.WriteSuccess(w, map[string]any{
			"message": "Rola użytkownika została zmieniona",
			"user":    user,
		})
	}
}

// recordAudit appends a best-effort audit row with the request's network
// metadata.
func recordAudit(r *http.Request, rec *activity.Recorder, userID *int64, action enums.Action, description string) {
	if rec == nil {
		return
	}
	var ipPtr, uaPtr *string
	if ip := middleware.ClientIP(r); ip != "" {
		ipPtr = &ip
	}
	if ua := r.UserAgent(); ua != "" {
		uaPtr = &ua
	}
	rec.Record(r.Context(), activity.RecordParams{
		UserID:      userID,
		Action:      action,
		Description: description,
		IPAddress:   ipPtr,
		UserAgent:   uaPtr,
	})
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mathnotes-io/mathnotes/internal/auth"
	"github.com/mathnotes-io/mathnotes/internal/tier"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// statusFor maps session errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrSessionNotFound),
		errors.Is(err, auth.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, tier.ErrUnknownTier):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (api *Api) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	s, err := api.sessions.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		api.sessionFailed(w, "login", err)
		return
	}

	auth.SetCookie(w, s, api.Config.Auth.SecureCookie)
	respondJSON(w, http.StatusOK, newSessionView(s, true))
}

func (api *Api) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	s, err := api.sessions.Signup(r.Context(), creds.Email, creds.Password, creds.Name)
	if err != nil {
		api.sessionFailed(w, "signup", err)
		return
	}

	auth.SetCookie(w, s, api.Config.Auth.SecureCookie)
	respondJSON(w, http.StatusCreated, newSessionView(s, true))
}

// LogoutHandler always clears the cookie; an unknown or stale token is not an error.
func (api *Api) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if token := auth.TokenFromRequest(r); token != "" {
		if err := api.sessions.Logout(token); err != nil {
			api.log.Debug().Err(err).Msg("logout of unknown session")
		}
	}
	auth.ClearCookie(w, api.Config.Auth.SecureCookie)
	w.WriteHeader(http.StatusNoContent)
}

func (api *Api) MeHandler(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.FromContext(r.Context())
	respondJSON(w, http.StatusOK, newSessionView(s, false))
}

func (api *Api) UpgradeHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tier string `json:"tier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	t, err := tier.Parse(req.Tier)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s, err := api.sessions.UpgradeTier(auth.TokenFromRequest(r), t)
	if err != nil {
		api.sessionFailed(w, "upgrade", err)
		return
	}
	respondJSON(w, http.StatusOK, newSessionView(s, false))
}

func (api *Api) sessionFailed(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		api.log.Error().Err(err).Str("op", op).Msg("session operation failed")
		respondError(w, status, "internal error")
		return
	}
	respondError(w, status, err.Error())
}

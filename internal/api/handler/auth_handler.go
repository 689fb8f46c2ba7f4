package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"practicetrack/internal/api/middleware"
	"practicetrack/internal/app/service"
	"practicetrack/internal/common"
	"practicetrack/internal/common/security"
	"practicetrack/internal/platform/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/auth/signup", h.signup)
	r.Post("/auth/login", h.login)
}

func (h *AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/auth/logout", h.logout)
	r.Get("/auth/me", h.me)
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	setSessionCookie(w, resp.Token)
	common.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	setSessionCookie(w, resp.Token)
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		common.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	sessionID, err := security.GetSessionIDFromClaims(claims)
	if err == nil {
		expiry, expErr := security.GetExpiryFromClaims(claims)
		if expErr != nil {
			expiry = time.Now().Add(config.AppConfig.JWTExp)
		}
		if err := h.authService.Logout(r.Context(), sessionID, expiry); err != nil {
			common.RespondWithServiceError(w, err)
			return
		}
	}

	clearSessionCookie(w)
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.authService.Me(r.Context(), identity)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.AppConfig.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(config.AppConfig.JWTExp),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.AppConfig.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

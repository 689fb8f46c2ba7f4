package middleware

import (
	"context"
	"net/http"

	"practicetrack/internal/common"
	"practicetrack/internal/common/security"
	"practicetrack/internal/domain/model"
	"practicetrack/internal/platform/config"
	"practicetrack/internal/platform/session"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const IdentityCtxKey contextKey = "identity"

// Verifier locates the session token in the Authorization header or the
// session cookie and verifies its signature, leaving claims in the context.
func Verifier(next http.Handler) http.Handler {
	return jwtauth.Verify(security.TokenAuth, jwtauth.TokenFromHeader, tokenFromSessionCookie)(next)
}

func tokenFromSessionCookie(r *http.Request) string {
	cookie, err := r.Cookie(config.AppConfig.SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// NewAuthenticator resolves the verified token to an identity, rejecting
// revoked sessions. Every protected route fails here with 401 before any
// store access happens.
func NewAuthenticator(revokeStore session.RevokeStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			userID, err := security.GetUserIDFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
				return
			}
			username, err := security.GetUsernameFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
				return
			}

			if sessionID, err := security.GetSessionIDFromClaims(claims); err == nil {
				revoked, err := revokeStore.IsRevoked(r.Context(), sessionID)
				if err != nil {
					common.RespondWithServiceError(w, err)
					return
				}
				if revoked {
					common.RespondWithError(w, http.StatusUnauthorized, "Session has been logged out")
					return
				}
			}

			identity := model.Identity{UserID: userID, Username: username}
			ctx := context.WithValue(r.Context(), IdentityCtxKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentityFromContext returns the resolved caller identity.
func GetIdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(IdentityCtxKey).(model.Identity)
	return identity, ok
}

package middleware

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"github.com/swiftdrop/courier-api/internal/auth"
	"github.com/swiftdrop/courier-api/internal/domain"
	"github.com/swiftdrop/courier-api/internal/handler"
)

// Auth validates the session token (cookie or bearer header) and stashes the
// claims in the request context. Authorization decisions are always made from
// these verified claims, never from the client-readable role cookie.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := handler.TokenFromRequest(r)
			if !ok {
				handler.RespondAppError(w, handler.ErrMissingToken, nil)
				return
			}

			claims, err := auth.ValidateToken(token, secret, auth.PurposeSession)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					handler.RespondAppError(w, handler.ErrSessionExpired, nil)
					return
				}
				handler.RespondAppError(w, handler.ErrInvalidToken, nil)
				return
			}

			ctx := auth.ContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole is the single role guard used by every gated route. It must
// run inside Auth.
func RequireRole(required domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFromContext(r.Context())
			if !ok {
				handler.RespondAppError(w, handler.ErrMissingToken, nil)
				return
			}

			if !claims.Role.Satisfies(required) {
				handler.RespondAppError(w, handler.ErrForbidden, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

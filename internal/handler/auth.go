package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swiftdrop/courier-api/internal/auth"
	"github.com/swiftdrop/courier-api/internal/domain"
	"github.com/swiftdrop/courier-api/internal/logging"
	"github.com/swiftdrop/courier-api/internal/service"
)

const (
	sessionCookieName = "token"
	roleCookieName    = "role"
)

type authService interface {
	Register(ctx context.Context, in service.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	VerifySession(ctx context.Context, token string) (*domain.User, *auth.Claims, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type AuthHandler struct {
	svc           authService
	secureCookies bool
	sessionTTL    time.Duration
}

func NewAuthHandler(svc authService, secureCookies bool, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{svc: svc, secureCookies: secureCookies, sessionTTL: sessionTTL}
}

type userDTO struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Contact string    `json:"contact"`
	Role    string    `json:"role"`
	Status  string    `json:"status"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Contact: u.Contact,
		Role:    string(u.Role),
		Status:  string(u.Status),
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Contact  string `json:"contact"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Contact:  req.Contact,
		Role:     req.Role,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toUserDTO(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	h.setSessionCookies(w, token, user.Role)
	RespondSuccess(w, http.StatusOK, loginResponse{Token: token, User: toUserDTO(user)})
}

// Logout clears the client-held credential. There is no server-side session
// state to revoke.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookies(w)
	RespondSuccess(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

type verifyResponse struct {
	Authenticated bool    `json:"authenticated"`
	User          userDTO `json:"user"`
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token, ok := TokenFromRequest(r)
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	user, _, err := h.svc.VerifySession(r.Context(), token)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, verifyResponse{Authenticated: true, User: toUserDTO(user)})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	user, err := h.svc.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to load profile", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toUserDTO(user))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if err := h.svc.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword answers identically for known and unknown addresses.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if err := h.svc.ForgotPassword(r.Context(), req.Email); err != nil {
		logging.FromContext(r.Context()).Error("forgot password failed", "error", err)
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{
		"message": "If the address is registered, a reset link has been sent",
	})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if err := h.svc.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
}

// TokenFromRequest extracts the session token from the cookie or, failing
// that, the Authorization header.
func TokenFromRequest(r *http.Request) (string, bool) {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	header := r.Header.Get("Authorization")
	if token, found := strings.CutPrefix(header, "Bearer "); found && token != "" {
		return token, true
	}
	return "", false
}

// The role cookie is readable by the frontend for UI branching only; the
// server never trusts it.
func (h *AuthHandler) setSessionCookies(w http.ResponseWriter, token string, role domain.Role) {
	maxAge := int(h.sessionTTL.Seconds())
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     roleCookieName,
		Value:    string(role),
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: false,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     roleCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

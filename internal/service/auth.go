package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/swiftdrop/courier-api/internal/auth"
	"github.com/swiftdrop/courier-api/internal/domain"
	"github.com/swiftdrop/courier-api/internal/logging"
)

type AuthConfig struct {
	JWTSecret     string
	SessionTTL    time.Duration
	ResetTokenTTL time.Duration
	VerifyTimeout time.Duration
	ClientURL     string
}

type AuthService struct {
	users userRepository
	mail  notificationSender
	cfg   AuthConfig
}

func NewAuthService(users userRepository, mail notificationSender, cfg AuthConfig) *AuthService {
	return &AuthService{users: users, mail: mail, cfg: cfg}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Contact  string
	Role     string
}

func (in RegisterInput) validate() []domain.FieldError {
	var errs []domain.FieldError
	if in.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if in.Email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "required"})
	} else if !validEmail(in.Email) {
		errs = append(errs, domain.FieldError{Field: "email", Message: "invalid email address"})
	}
	if in.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	}
	if in.Contact == "" {
		errs = append(errs, domain.FieldError{Field: "contact", Message: "required"})
	}
	if in.Role == "" {
		errs = append(errs, domain.FieldError{Field: "role", Message: "required"})
	} else if !domain.Role(in.Role).IsValid() {
		errs = append(errs, domain.FieldError{Field: "role", Message: "must be admin or member"})
	}
	return errs
}

// Register creates a new user. It does not log the user in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if fields := in.validate(); len(fields) > 0 {
		return nil, fmt.Errorf("Register: %w", domain.NewValidationError(fields))
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Contact:      in.Contact,
		Role:         domain.Role(in.Role),
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	logging.FromContext(ctx).Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Login verifies credentials and issues a session token. Every failure mode
// (unknown email, wrong password, inactive account) surfaces as the same
// generic error so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("Login: %w", domain.ErrInvalidCredentials)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", fmt.Errorf("Login: %w", domain.ErrInvalidCredentials)
		}
		return nil, "", fmt.Errorf("Login: %w", err)
	}

	if user.Status != domain.UserStatusActive {
		return nil, "", fmt.Errorf("Login: %w", domain.ErrInvalidCredentials)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", fmt.Errorf("Login: %w", domain.ErrInvalidCredentials)
	}

	token, err := auth.GenerateToken(user.ID, user.Role, auth.PurposeSession, s.cfg.JWTSecret, s.cfg.SessionTTL)
	if err != nil {
		return nil, "", fmt.Errorf("Login: %w", err)
	}

	logging.FromContext(ctx).Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// VerifySession validates a session token and confirms the user still
// exists. The whole check is bounded so a stalled dependency cannot hang the
// request.
func (s *AuthService) VerifySession(ctx context.Context, token string) (*domain.User, *auth.Claims, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.VerifyTimeout)
	defer cancel()

	type result struct {
		user   *domain.User
		claims *auth.Claims
		err    error
	}
	ch := make(chan result, 1)

	go func() {
		claims, err := auth.ValidateToken(token, s.cfg.JWTSecret, auth.PurposeSession)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				ch <- result{err: domain.ErrSessionExpired}
				return
			}
			ch <- result{err: domain.ErrSessionInvalid}
			return
		}

		user, err := s.users.GetByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				ch <- result{err: domain.ErrSessionInvalid}
				return
			}
			ch <- result{err: err}
			return
		}
		ch <- result{user: user, claims: claims}
	}()

	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("VerifySession: %w", domain.ErrVerifyTimeout)
	case r := <-ch:
		if r.err != nil {
			return nil, nil, fmt.Errorf("VerifySession: %w", r.err)
		}
		return r.user, r.claims, nil
	}
}

func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("GetProfile: %w", err)
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("ChangePassword: %w", domain.NewValidationError([]domain.FieldError{
			{Field: "new_password", Message: "required"},
		}))
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ChangePassword: %w", err)
	}

	if !auth.CheckPassword(current, user.PasswordHash) {
		return fmt.Errorf("ChangePassword: %w", domain.ErrInvalidCredentials)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("ChangePassword: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("ChangePassword: %w", err)
	}

	logging.FromContext(ctx).Info("password changed", "user_id", userID)
	return nil
}

// ForgotPassword issues a short-lived reset token and emails a reset link.
// The outcome is identical whether or not the address is registered, and the
// email itself is best-effort.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	log := logging.FromContext(ctx)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("ForgotPassword: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, user.Role, auth.PurposePasswordReset, s.cfg.JWTSecret, s.cfg.ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("ForgotPassword: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.ClientURL, token)
	if err := s.mail.PasswordReset(ctx, user.Email, link); err != nil {
		log.Warn("password reset email failed", "user_id", user.ID, "error", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("ResetPassword: %w", domain.NewValidationError([]domain.FieldError{
			{Field: "new_password", Message: "required"},
		}))
	}

	claims, err := auth.ValidateToken(token, s.cfg.JWTSecret, auth.PurposePasswordReset)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("ResetPassword: %w", domain.ErrSessionExpired)
		}
		return fmt.Errorf("ResetPassword: %w", domain.ErrSessionInvalid)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("ResetPassword: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, claims.UserID, hash); err != nil {
		return fmt.Errorf("ResetPassword: %w", err)
	}

	logging.FromContext(ctx).Info("password reset", "user_id", claims.UserID)
	return nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	return users, nil
}

type UpdateUserInput struct {
	Name    *string
	Email   *string
	Contact *string
	Role    *string
	Status  *string
}

func (in UpdateUserInput) validate() []domain.FieldError {
	var errs []domain.FieldError
	if in.Name != nil && *in.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "cannot be empty"})
	}
	if in.Email != nil && !validEmail(*in.Email) {
		errs = append(errs, domain.FieldError{Field: "email", Message: "invalid email address"})
	}
	if in.Contact != nil && *in.Contact == "" {
		errs = append(errs, domain.FieldError{Field: "contact", Message: "cannot be empty"})
	}
	if in.Role != nil && !domain.Role(*in.Role).IsValid() {
		errs = append(errs, domain.FieldError{Field: "role", Message: "must be admin or member"})
	}
	if in.Status != nil && !domain.UserStatus(*in.Status).IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be active or inactive"})
	}
	return errs
}

// UpdateUser applies a partial update; only supplied fields change.
func (s *AuthService) UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*domain.User, error) {
	if fields := in.validate(); len(fields) > 0 {
		return nil, fmt.Errorf("UpdateUser: %w", domain.NewValidationError(fields))
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("UpdateUser: %w", err)
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Contact != nil {
		user.Contact = *in.Contact
	}
	if in.Role != nil {
		user.Role = domain.Role(*in.Role)
	}
	if in.Status != nil {
		user.Status = domain.UserStatus(*in.Status)
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("UpdateUser: %w", err)
	}
	return user, nil
}

func (s *AuthService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("DeleteUser: %w", err)
	}
	logging.FromContext(ctx).Info("user deleted", "user_id", id)
	return nil
}

// DeleteAllUsers wipes the user store. An already-empty store is reported as
// not found, matching the single-record delete behavior.
func (s *AuthService) DeleteAllUsers(ctx context.Context) (int64, error) {
	n, err := s.users.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("DeleteAllUsers: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("DeleteAllUsers: %w", domain.ErrNotFound)
	}
	logging.FromContext(ctx).Info("all users deleted", "count", n)
	return n, nil
}

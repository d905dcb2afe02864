package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/swiftdrop/courier-api/internal/domain"
	"github.com/swiftdrop/courier-api/internal/logging"
	"github.com/swiftdrop/courier-api/internal/service"
)

type userAdminService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, in service.UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	DeleteAllUsers(ctx context.Context) (int64, error)
}

// UserHandler serves the admin-only user management surface. Role gating
// happens in middleware; these handlers assume an admin session.
type UserHandler struct {
	svc userAdminService
}

func NewUserHandler(svc userAdminService) *UserHandler {
	return &UserHandler{svc: svc}
}

type userListResponse struct {
	Users []userDTO `json:"users"`
	Total int       `json:"total"`
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list users", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]userDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	RespondSuccess(w, http.StatusOK, userListResponse{Users: dtos, Total: len(dtos)})
}

type updateUserRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Contact *string `json:"contact"`
	Role    *string `json:"role"`
	Status  *string `json:"status"`
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	user, err := h.svc.UpdateUser(r.Context(), id, service.UpdateUserInput{
		Name:    req.Name,
		Email:   req.Email,
		Contact: req.Contact,
		Role:    req.Role,
		Status:  req.Status,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toUserDTO(user))
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

func (h *UserHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.DeleteAllUsers(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, map[string]int64{"deleted": n})
}

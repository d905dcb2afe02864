package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/swiftdrop/courier-api/internal/domain"
)

type userRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
}

type shipmentRepository interface {
	Create(ctx context.Context, sh *domain.Shipment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Shipment, error)
	GetByTrackingCode(ctx context.Context, code string) (*domain.Shipment, error)
	List(ctx context.Context) ([]domain.Shipment, int, error)
	Update(ctx context.Context, sh *domain.Shipment) error
	DeleteByTrackingCode(ctx context.Context, code string) error
	DeleteAll(ctx context.Context) (int64, error)
}

// notificationSender delivers best-effort emails. Implementations must not
// be relied on for durability; callers treat failures as soft.
type notificationSender interface {
	ShipmentRegistered(ctx context.Context, to, name, trackingCode string, status domain.ShipmentStatus) error
	PasswordReset(ctx context.Context, to, resetLink string) error
}

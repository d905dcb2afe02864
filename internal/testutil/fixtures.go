package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/swiftdrop/courier-api/internal/auth"
	"github.com/swiftdrop/courier-api/internal/domain"
	"github.com/swiftdrop/courier-api/internal/repository"
)

// SeedPassword is the plaintext behind every seeded user's hash.
const SeedPassword = "s3cret-pass"

func SeedUser(t *testing.T, db *sql.DB, email string, role domain.Role) *domain.User {
	t.Helper()

	hash, err := auth.HashPassword(SeedPassword)
	if err != nil {
		t.Fatalf("hash seed password: %v", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         "Seed User",
		Email:        email,
		PasswordHash: hash,
		Contact:      "+2348012345678",
		Role:         role,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := repository.NewUserRepository(db).Create(context.Background(), user); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

func SeedShipment(t *testing.T, db *sql.DB, trackingCode string) *domain.Shipment {
	t.Helper()

	now := time.Now().UTC()
	sh := &domain.Shipment{
		ID:           uuid.New(),
		TrackingCode: trackingCode,

		SenderName:    "Ada Obi",
		SenderAddress: "12 Marina Rd, Lagos",
		SenderEmail:   "ada@example.com",
		SenderContact: "+2348012345678",

		ReceiverName:    "Ben Okafor",
		ReceiverAddress: "4 Aba Rd, Port Harcourt",
		ReceiverEmail:   "ben@example.com",

		PackageName:  "Books",
		PackageTypes: []string{"Box"},
		Weight:       decimal.RequireFromString("2.5"),
		Quantity:     1,

		ShipmentMode: "Land",
		ShipmentType: "Domestic",
		Carrier:      "SwiftDrop Express",
		CarrierRef:   "SDX-001",

		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := repository.NewShipmentRepository(db).Create(context.Background(), sh); err != nil {
		t.Fatalf("seed shipment %s: %v", trackingCode, err)
	}
	return sh
}

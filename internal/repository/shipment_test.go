package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftdrop/courier-api/internal/domain"
	"github.com/swiftdrop/courier-api/internal/repository"
	"github.com/swiftdrop/courier-api/internal/testutil"
)

func TestShipmentRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewShipmentRepository(db)
	ctx := context.Background()

	seeded := testutil.SeedShipment(t, db, "SD1234567890")

	byCode, err := repo.GetByTrackingCode(ctx, "SD1234567890")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, byCode.ID)
	assert.Equal(t, domain.StatusPending, byCode.Status)
	assert.True(t, byCode.Weight.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, []string{"Box"}, byCode.PackageTypes)
	assert.Nil(t, byCode.Origin)
	assert.Nil(t, byCode.PaymentMode)
	assert.Nil(t, byCode.TotalFreight)

	byID, err := repo.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "SD1234567890", byID.TrackingCode)

	_, err = repo.GetByTrackingCode(ctx, "SD0000000000")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShipmentRepository_OptionalFieldsRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewShipmentRepository(db)
	ctx := context.Background()

	origin := "Lagos"
	destination := "Abuja"
	departure := "09:30"
	note := "fragile"
	pickup := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mode := domain.PaymentModeCard
	freight := decimal.RequireFromString("149.99")

	now := time.Now().UTC()
	sh := &domain.Shipment{
		ID:           uuid.New(),
		TrackingCode: "SDABCDEF0123",

		SenderName:    "Ada Obi",
		SenderAddress: "12 Marina Rd",
		SenderEmail:   "ada@example.com",
		SenderContact: "+2348012345678",

		ReceiverName:    "Ben Okafor",
		ReceiverAddress: "4 Aba Rd",
		ReceiverEmail:   "ben@example.com",

		PackageName:  "Electronics",
		PackageTypes: []string{"Box", "Pallet"},
		Weight:       decimal.RequireFromString("12.75"),
		Quantity:     4,

		ShipmentMode: "Air",
		ShipmentType: "International",
		Carrier:      "SwiftDrop Express",
		CarrierRef:   "SDX-042",

		Origin:        &origin,
		Destination:   &destination,
		PickupDate:    &pickup,
		DepartureTime: &departure,

		Status:       domain.StatusPending,
		StatusNote:   &note,
		PaymentMode:  &mode,
		TotalFreight: &freight,

		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, sh))

	got, err := repo.GetByTrackingCode(ctx, sh.TrackingCode)
	require.NoError(t, err)

	require.NotNil(t, got.Origin)
	assert.Equal(t, "Lagos", *got.Origin)
	require.NotNil(t, got.PickupDate)
	assert.True(t, pickup.Equal(*got.PickupDate))
	require.NotNil(t, got.PaymentMode)
	assert.Equal(t, domain.PaymentModeCard, *got.PaymentMode)
	require.NotNil(t, got.TotalFreight)
	assert.True(t, freight.Equal(*got.TotalFreight))
	assert.Equal(t, []string{"Box", "Pallet"}, got.PackageTypes)
}

func TestShipmentRepository_DuplicateTrackingCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewShipmentRepository(db)
	ctx := context.Background()

	first := testutil.SeedShipment(t, db, "SD1234567890")

	dup := *first
	dup.ID = uuid.New()
	require.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrDuplicateTrackingCode)
}

func TestShipmentRepository_ListNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewShipmentRepository(db)
	ctx := context.Background()

	testutil.SeedShipment(t, db, "SD0000000001")
	time.Sleep(10 * time.Millisecond)
	testutil.SeedShipment(t, db, "SD0000000002")

	shipments, total, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, shipments, 2)
	assert.Equal(t, "SD0000000002", shipments[0].TrackingCode)
	assert.Equal(t, "SD0000000001", shipments[1].TrackingCode)
}

func TestShipmentRepository_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewShipmentRepository(db)
	ctx := context.Background()

	sh := testutil.SeedShipment(t, db, "SD1234567890")

	note := "left the depot"
	sh.Status = domain.StatusShipped
	sh.StatusNote = &note
	sh.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, sh))

	got, err := repo.GetByTrackingCode(ctx, "SD1234567890")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, got.Status)
	require.NotNil(t, got.StatusNote)
	assert.Equal(t, "left the depot", *got.StatusNote)
	// Untouched fields persist across the full-row write.
	assert.Equal(t, sh.SenderName, got.SenderName)
	assert.Equal(t, sh.Quantity, got.Quantity)

	t.Run("unknown id", func(t *testing.T) {
		ghost := *sh
		ghost.ID = uuid.New()
		require.ErrorIs(t, repo.Update(ctx, &ghost), domain.ErrNotFound)
	})
}

func TestShipmentRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewShipmentRepository(db)
	ctx := context.Background()

	testutil.SeedShipment(t, db, "SD1234567890")

	require.NoError(t, repo.DeleteByTrackingCode(ctx, "SD1234567890"))
	require.ErrorIs(t, repo.DeleteByTrackingCode(ctx, "SD1234567890"), domain.ErrNotFound)
}

func TestShipmentRepository_DeleteAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewShipmentRepository(db)
	ctx := context.Background()

	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	testutil.SeedShipment(t, db, "SD0000000001")
	testutil.SeedShipment(t, db, "SD0000000002")

	n, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

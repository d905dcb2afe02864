package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftdrop/courier-api/internal/domain"
)

type fakeShipmentRepo struct {
	shipments map[string]*domain.Shipment
	order     []string
	updates   int
}

func newFakeShipmentRepo() *fakeShipmentRepo {
	return &fakeShipmentRepo{shipments: make(map[string]*domain.Shipment)}
}

func (r *fakeShipmentRepo) Create(_ context.Context, sh *domain.Shipment) error {
	if _, ok := r.shipments[sh.TrackingCode]; ok {
		return domain.ErrDuplicateTrackingCode
	}
	cp := *sh
	r.shipments[sh.TrackingCode] = &cp
	r.order = append(r.order, sh.TrackingCode)
	return nil
}

func (r *fakeShipmentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Shipment, error) {
	for _, sh := range r.shipments {
		if sh.ID == id {
			cp := *sh
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeShipmentRepo) GetByTrackingCode(_ context.Context, code string) (*domain.Shipment, error) {
	sh, ok := r.shipments[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *sh
	return &cp, nil
}

func (r *fakeShipmentRepo) List(_ context.Context) ([]domain.Shipment, int, error) {
	out := make([]domain.Shipment, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, *r.shipments[r.order[i]])
	}
	return out, len(out), nil
}

func (r *fakeShipmentRepo) Update(_ context.Context, sh *domain.Shipment) error {
	if _, ok := r.shipments[sh.TrackingCode]; !ok {
		return domain.ErrNotFound
	}
	cp := *sh
	r.shipments[sh.TrackingCode] = &cp
	r.updates++
	return nil
}

func (r *fakeShipmentRepo) DeleteByTrackingCode(_ context.Context, code string) error {
	if _, ok := r.shipments[code]; !ok {
		return domain.ErrNotFound
	}
	delete(r.shipments, code)
	return nil
}

func (r *fakeShipmentRepo) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(r.shipments))
	r.shipments = make(map[string]*domain.Shipment)
	r.order = nil
	return n, nil
}

func validShipmentInput() RegisterShipmentInput {
	return RegisterShipmentInput{
		SenderName:    "Ada Obi",
		SenderAddress: "12 Marina Rd, Lagos",
		SenderEmail:   "ada@example.com",
		SenderContact: "+2348012345678",

		ReceiverName:    "Ben Okafor",
		ReceiverAddress: "4 Aba Rd, Port Harcourt",
		ReceiverEmail:   "ben@example.com",

		PackageName:  "Books",
		PackageTypes: []string{"Box"},
		Weight:       "2.5",
		Quantity:     "3",

		ShipmentMode: "Land",
		ShipmentType: "Domestic",
		Carrier:      "SwiftDrop Express",
		CarrierRef:   "SDX-001",
	}
}

var trackingCodeFormat = regexp.MustCompile(`^SD[0-9A-F]{10}$`)

func TestRegisterShipment(t *testing.T) {
	repo := newFakeShipmentRepo()
	mail := &fakeNotifier{}
	svc := NewTrackingService(repo, mail, "SD")

	sh, err := svc.RegisterShipment(context.Background(), validShipmentInput())
	require.NoError(t, err)

	assert.Regexp(t, trackingCodeFormat, sh.TrackingCode)
	assert.Equal(t, domain.StatusPending, sh.Status)
	assert.Equal(t, "2.5", sh.Weight.String())
	assert.Equal(t, 3, sh.Quantity)
	assert.NotEqual(t, uuid.Nil, sh.ID)

	require.Len(t, mail.shipmentCalls, 1)
	assert.Equal(t, sh.TrackingCode, mail.shipmentCalls[0])
}

func TestRegisterShipment_Validation(t *testing.T) {
	svc := NewTrackingService(newFakeShipmentRepo(), &fakeNotifier{}, "SD")

	tests := []struct {
		name   string
		mutate func(*RegisterShipmentInput)
		field  string
	}{
		{
			name:   "weight with unit suffix",
			mutate: func(in *RegisterShipmentInput) { in.Weight = "8kg" },
			field:  "weight",
		},
		{
			name:   "weight below minimum",
			mutate: func(in *RegisterShipmentInput) { in.Weight = "0.05" },
			field:  "weight",
		},
		{
			name:   "fractional quantity",
			mutate: func(in *RegisterShipmentInput) { in.Quantity = "1.5" },
			field:  "quantity",
		},
		{
			name:   "zero quantity",
			mutate: func(in *RegisterShipmentInput) { in.Quantity = "0" },
			field:  "quantity",
		},
		{
			name:   "missing sender name",
			mutate: func(in *RegisterShipmentInput) { in.SenderName = "" },
			field:  "sender_name",
		},
		{
			name:   "bad sender email",
			mutate: func(in *RegisterShipmentInput) { in.SenderEmail = "not-an-email" },
			field:  "sender_email",
		},
		{
			name:   "no package types",
			mutate: func(in *RegisterShipmentInput) { in.PackageTypes = nil },
			field:  "package_types",
		},
		{
			name:   "lowercase tracking code",
			mutate: func(in *RegisterShipmentInput) { in.TrackingCode = "sd123456" },
			field:  "tracking_code",
		},
		{
			name: "unknown payment mode",
			mutate: func(in *RegisterShipmentInput) {
				m := "Barter"
				in.PaymentMode = &m
			},
			field: "payment_mode",
		},
		{
			name: "bad pickup date",
			mutate: func(in *RegisterShipmentInput) {
				d := "next tuesday"
				in.PickupDate = &d
			},
			field: "pickup_date",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validShipmentInput()
			tc.mutate(&in)

			_, err := svc.RegisterShipment(context.Background(), in)
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)

			fields := make([]string, 0, len(vErr.Fields))
			for _, f := range vErr.Fields {
				fields = append(fields, f.Field)
			}
			assert.Contains(t, fields, tc.field)
		})
	}
}

func TestRegisterShipment_CallerSuppliedCode(t *testing.T) {
	repo := newFakeShipmentRepo()
	svc := NewTrackingService(repo, &fakeNotifier{}, "SD")

	in := validShipmentInput()
	in.TrackingCode = "CUSTOM-123456"

	sh, err := svc.RegisterShipment(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "CUSTOM-123456", sh.TrackingCode)

	// Re-registering under the same code must surface the uniqueness
	// violation, not silently mint a new identity.
	_, err = svc.RegisterShipment(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrDuplicateTrackingCode)
}

func TestRegisterShipment_NotificationFailureIsSoft(t *testing.T) {
	repo := newFakeShipmentRepo()
	mail := &fakeNotifier{err: errors.New("smtp unreachable")}
	svc := NewTrackingService(repo, mail, "SD")

	sh, err := svc.RegisterShipment(context.Background(), validShipmentInput())
	require.NoError(t, err)

	_, err = svc.GetByTrackingCode(context.Background(), sh.TrackingCode)
	require.NoError(t, err)
}

func TestNewTrackingCode(t *testing.T) {
	seen := make(map[string]struct{}, 10_000)
	for range 10_000 {
		code := NewTrackingCode("SD")
		require.Regexp(t, trackingCodeFormat, code)

		_, dup := seen[code]
		require.False(t, dup, "generated duplicate code %s", code)
		seen[code] = struct{}{}
	}
}

func TestUpdateShipment_PartialUpdate(t *testing.T) {
	repo := newFakeShipmentRepo()
	svc := NewTrackingService(repo, &fakeNotifier{}, "SD")

	sh, err := svc.RegisterShipment(context.Background(), validShipmentInput())
	require.NoError(t, err)

	time.Sleep(time.Millisecond)

	status := string(domain.StatusShipped)
	updated, err := svc.UpdateShipment(context.Background(), sh.TrackingCode, UpdateShipmentInput{
		Status: &status,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusShipped, updated.Status)
	assert.Equal(t, sh.SenderName, updated.SenderName)
	assert.Equal(t, sh.Weight.String(), updated.Weight.String())
	assert.Equal(t, sh.Quantity, updated.Quantity)
	assert.True(t, updated.UpdatedAt.After(sh.UpdatedAt))
}

func TestUpdateShipment_StatusTransitions(t *testing.T) {
	repo := newFakeShipmentRepo()
	svc := NewTrackingService(repo, &fakeNotifier{}, "SD")

	sh, err := svc.RegisterShipment(context.Background(), validShipmentInput())
	require.NoError(t, err)

	t.Run("skipping ahead is rejected", func(t *testing.T) {
		status := string(domain.StatusDelivered)
		_, err := svc.UpdateShipment(context.Background(), sh.TrackingCode, UpdateShipmentInput{Status: &status})
		require.ErrorIs(t, err, domain.ErrInvalidTransition)

		// The record must be untouched after a rejected transition.
		current, err := svc.GetByTrackingCode(context.Background(), sh.TrackingCode)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, current.Status)
		assert.Zero(t, repo.updates)
	})

	t.Run("restating the current status is a no-op transition", func(t *testing.T) {
		status := string(domain.StatusPending)
		updated, err := svc.UpdateShipment(context.Background(), sh.TrackingCode, UpdateShipmentInput{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, updated.Status)
	})

	t.Run("walking the full route", func(t *testing.T) {
		for _, next := range []domain.ShipmentStatus{
			domain.StatusShipped,
			domain.StatusInTransit,
			domain.StatusOutForDelivery,
			domain.StatusDelivered,
		} {
			status := string(next)
			updated, err := svc.UpdateShipment(context.Background(), sh.TrackingCode, UpdateShipmentInput{Status: &status})
			require.NoError(t, err)
			assert.Equal(t, next, updated.Status)
		}
	})

	t.Run("delivered is terminal", func(t *testing.T) {
		status := string(domain.StatusCancelled)
		_, err := svc.UpdateShipment(context.Background(), sh.TrackingCode, UpdateShipmentInput{Status: &status})
		require.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestUpdateShipment_NotFound(t *testing.T) {
	svc := NewTrackingService(newFakeShipmentRepo(), &fakeNotifier{}, "SD")

	note := "where is it"
	_, err := svc.UpdateShipment(context.Background(), "SD0000000000", UpdateShipmentInput{StatusNote: &note})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteShipment(t *testing.T) {
	repo := newFakeShipmentRepo()
	svc := NewTrackingService(repo, &fakeNotifier{}, "SD")

	sh, err := svc.RegisterShipment(context.Background(), validShipmentInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteShipment(context.Background(), sh.TrackingCode))

	_, err = svc.GetByTrackingCode(context.Background(), sh.TrackingCode)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteAllShipments(t *testing.T) {
	repo := newFakeShipmentRepo()
	svc := NewTrackingService(repo, &fakeNotifier{}, "SD")

	_, err := svc.DeleteAllShipments(context.Background())
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.RegisterShipment(context.Background(), validShipmentInput())
	require.NoError(t, err)
	_, err = svc.RegisterShipment(context.Background(), validShipmentInput())
	require.NoError(t, err)

	n, err := svc.DeleteAllShipments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/swiftdrop/courier-api/internal/domain"
	"github.com/swiftdrop/courier-api/internal/logging"
	"github.com/swiftdrop/courier-api/internal/metrics"
)

type TrackingService struct {
	shipments  shipmentRepository
	mail       notificationSender
	codePrefix string
}

func NewTrackingService(shipments shipmentRepository, mail notificationSender, codePrefix string) *TrackingService {
	return &TrackingService{shipments: shipments, mail: mail, codePrefix: codePrefix}
}

// NewTrackingCode generates a short business identifier: the configured
// prefix followed by ten uppercase hex characters. Uniqueness is only
// probabilistic here; the store's unique index is the real guarantee.
func NewTrackingCode(prefix string) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + raw[:10]
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	t, err := time.Parse(time.RFC3339, s)
	return t, err == nil
}

type RegisterShipmentInput struct {
	SenderName    string
	SenderAddress string
	SenderEmail   string
	SenderContact string

	ReceiverName    string
	ReceiverAddress string
	ReceiverEmail   string

	PackageName  string
	PackageTypes []string
	Weight       string
	Quantity     string

	ShipmentMode string
	ShipmentType string
	Carrier      string
	CarrierRef   string

	Origin        *string
	Destination   *string
	PickupDate    *string
	DeliveryDate  *string
	DepartureTime *string

	TrackingCode string
	PaymentMode  *string
	TotalFreight *string
}

func (in RegisterShipmentInput) validate() []domain.FieldError {
	var errs []domain.FieldError

	required := []struct {
		field string
		value string
	}{
		{"sender_name", in.SenderName},
		{"sender_address", in.SenderAddress},
		{"sender_email", in.SenderEmail},
		{"sender_contact", in.SenderContact},
		{"receiver_name", in.ReceiverName},
		{"receiver_address", in.ReceiverAddress},
		{"receiver_email", in.ReceiverEmail},
		{"package_name", in.PackageName},
		{"weight", in.Weight},
		{"quantity", in.Quantity},
		{"shipment_mode", in.ShipmentMode},
		{"shipment_type", in.ShipmentType},
		{"carrier", in.Carrier},
		{"carrier_ref", in.CarrierRef},
	}
	for _, f := range required {
		if f.value == "" {
			errs = append(errs, domain.FieldError{Field: f.field, Message: "required"})
		}
	}

	if in.SenderEmail != "" && !validEmail(in.SenderEmail) {
		errs = append(errs, domain.FieldError{Field: "sender_email", Message: "invalid email address"})
	}
	if in.SenderContact != "" && !validContact(in.SenderContact) {
		errs = append(errs, domain.FieldError{Field: "sender_contact", Message: "must contain only digits and separators"})
	}
	if in.ReceiverEmail != "" && !validEmail(in.ReceiverEmail) {
		errs = append(errs, domain.FieldError{Field: "receiver_email", Message: "invalid email address"})
	}
	if len(in.PackageTypes) == 0 {
		errs = append(errs, domain.FieldError{Field: "package_types", Message: "at least one package type required"})
	}
	if in.Weight != "" {
		if _, ok := parseWeight(in.Weight); !ok {
			errs = append(errs, domain.FieldError{Field: "weight", Message: "must be a number of at least 0.1"})
		}
	}
	if in.Quantity != "" {
		if _, ok := parseQuantity(in.Quantity); !ok {
			errs = append(errs, domain.FieldError{Field: "quantity", Message: "must be an integer of at least 1"})
		}
	}
	if in.PickupDate != nil {
		if _, ok := parseDate(*in.PickupDate); !ok {
			errs = append(errs, domain.FieldError{Field: "pickup_date", Message: "must be a date (YYYY-MM-DD)"})
		}
	}
	if in.DeliveryDate != nil {
		if _, ok := parseDate(*in.DeliveryDate); !ok {
			errs = append(errs, domain.FieldError{Field: "delivery_date", Message: "must be a date (YYYY-MM-DD)"})
		}
	}
	if in.TrackingCode != "" && !validTrackingCode(in.TrackingCode) {
		errs = append(errs, domain.FieldError{Field: "tracking_code", Message: "must be 6-32 uppercase alphanumeric characters"})
	}
	if in.PaymentMode != nil && !domain.PaymentMode(*in.PaymentMode).IsValid() {
		errs = append(errs, domain.FieldError{Field: "payment_mode", Message: "must be Cash, Card or Online Transfer"})
	}
	if in.TotalFreight != nil {
		if _, err := decimal.NewFromString(*in.TotalFreight); err != nil {
			errs = append(errs, domain.FieldError{Field: "total_freight", Message: "must be a number"})
		}
	}

	return errs
}

// RegisterShipment validates and persists a new shipment, then sends the
// tracking-code notification to the sender. The notification is a soft side
// effect: once the record is stored the operation has succeeded, whatever
// happens to the email.
func (s *TrackingService) RegisterShipment(ctx context.Context, in RegisterShipmentInput) (*domain.Shipment, error) {
	if fields := in.validate(); len(fields) > 0 {
		return nil, fmt.Errorf("RegisterShipment: %w", domain.NewValidationError(fields))
	}

	weight, _ := parseWeight(in.Weight)
	quantity, _ := parseQuantity(in.Quantity)

	code := in.TrackingCode
	if code == "" {
		code = NewTrackingCode(s.codePrefix)
	}

	now := time.Now().UTC()
	sh := &domain.Shipment{
		ID:           uuid.New(),
		TrackingCode: code,

		SenderName:    in.SenderName,
		SenderAddress: in.SenderAddress,
		SenderEmail:   in.SenderEmail,
		SenderContact: in.SenderContact,

		ReceiverName:    in.ReceiverName,
		ReceiverAddress: in.ReceiverAddress,
		ReceiverEmail:   in.ReceiverEmail,

		PackageName:  in.PackageName,
		PackageTypes: in.PackageTypes,
		Weight:       weight,
		Quantity:     quantity,

		ShipmentMode: in.ShipmentMode,
		ShipmentType: in.ShipmentType,
		Carrier:      in.Carrier,
		CarrierRef:   in.CarrierRef,

		Origin:        in.Origin,
		Destination:   in.Destination,
		DepartureTime: in.DepartureTime,

		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.PickupDate != nil {
		d, _ := parseDate(*in.PickupDate)
		sh.PickupDate = &d
	}
	if in.DeliveryDate != nil {
		d, _ := parseDate(*in.DeliveryDate)
		sh.DeliveryDate = &d
	}
	if in.PaymentMode != nil {
		m := domain.PaymentMode(*in.PaymentMode)
		sh.PaymentMode = &m
	}
	if in.TotalFreight != nil {
		f, _ := decimal.NewFromString(*in.TotalFreight)
		sh.TotalFreight = &f
	}

	if err := s.shipments.Create(ctx, sh); err != nil {
		return nil, fmt.Errorf("RegisterShipment: %w", err)
	}

	log := logging.FromContext(ctx)
	log.Info("shipment registered", "shipment_id", sh.ID, "tracking_code", sh.TrackingCode)

	if err := s.mail.ShipmentRegistered(ctx, sh.SenderEmail, sh.SenderName, sh.TrackingCode, sh.Status); err != nil {
		metrics.NotificationsTotal.WithLabelValues("shipment_registered", "failure").Inc()
		log.Warn("shipment notification failed", "tracking_code", sh.TrackingCode, "error", err)
	} else {
		metrics.NotificationsTotal.WithLabelValues("shipment_registered", "success").Inc()
	}

	return sh, nil
}

func (s *TrackingService) ListShipments(ctx context.Context) ([]domain.Shipment, int, error) {
	shipments, total, err := s.shipments.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("ListShipments: %w", err)
	}
	return shipments, total, nil
}

func (s *TrackingService) GetByTrackingCode(ctx context.Context, code string) (*domain.Shipment, error) {
	sh, err := s.shipments.GetByTrackingCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("GetByTrackingCode: %w", err)
	}
	return sh, nil
}

func (s *TrackingService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shipment, error) {
	sh, err := s.shipments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return sh, nil
}

type UpdateShipmentInput struct {
	SenderName    *string
	SenderAddress *string
	SenderEmail   *string
	SenderContact *string

	ReceiverName    *string
	ReceiverAddress *string
	ReceiverEmail   *string

	PackageName  *string
	PackageTypes []string
	Weight       *string
	Quantity     *string

	ShipmentMode *string
	ShipmentType *string
	Carrier      *string
	CarrierRef   *string

	Origin        *string
	Destination   *string
	PickupDate    *string
	DeliveryDate  *string
	DepartureTime *string

	Status       *string
	StatusNote   *string
	PaymentMode  *string
	TotalFreight *string
}

func (in UpdateShipmentInput) validate() []domain.FieldError {
	var errs []domain.FieldError

	nonEmpty := []struct {
		field string
		value *string
	}{
		{"sender_name", in.SenderName},
		{"sender_address", in.SenderAddress},
		{"receiver_name", in.ReceiverName},
		{"receiver_address", in.ReceiverAddress},
		{"package_name", in.PackageName},
		{"shipment_mode", in.ShipmentMode},
		{"shipment_type", in.ShipmentType},
		{"carrier", in.Carrier},
		{"carrier_ref", in.CarrierRef},
	}
	for _, f := range nonEmpty {
		if f.value != nil && *f.value == "" {
			errs = append(errs, domain.FieldError{Field: f.field, Message: "cannot be empty"})
		}
	}

	if in.SenderEmail != nil && !validEmail(*in.SenderEmail) {
		errs = append(errs, domain.FieldError{Field: "sender_email", Message: "invalid email address"})
	}
	if in.SenderContact != nil && !validContact(*in.SenderContact) {
		errs = append(errs, domain.FieldError{Field: "sender_contact", Message: "must contain only digits and separators"})
	}
	if in.ReceiverEmail != nil && !validEmail(*in.ReceiverEmail) {
		errs = append(errs, domain.FieldError{Field: "receiver_email", Message: "invalid email address"})
	}
	if in.Weight != nil {
		if _, ok := parseWeight(*in.Weight); !ok {
			errs = append(errs, domain.FieldError{Field: "weight", Message: "must be a number of at least 0.1"})
		}
	}
	if in.Quantity != nil {
		if _, ok := parseQuantity(*in.Quantity); !ok {
			errs = append(errs, domain.FieldError{Field: "quantity", Message: "must be an integer of at least 1"})
		}
	}
	if in.PickupDate != nil {
		if _, ok := parseDate(*in.PickupDate); !ok {
			errs = append(errs, domain.FieldError{Field: "pickup_date", Message: "must be a date (YYYY-MM-DD)"})
		}
	}
	if in.DeliveryDate != nil {
		if _, ok := parseDate(*in.DeliveryDate); !ok {
			errs = append(errs, domain.FieldError{Field: "delivery_date", Message: "must be a date (YYYY-MM-DD)"})
		}
	}
	if in.Status != nil && !domain.ShipmentStatus(*in.Status).IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown shipment status"})
	}
	if in.PaymentMode != nil && !domain.PaymentMode(*in.PaymentMode).IsValid() {
		errs = append(errs, domain.FieldError{Field: "payment_mode", Message: "must be Cash, Card or Online Transfer"})
	}
	if in.TotalFreight != nil {
		if _, err := decimal.NewFromString(*in.TotalFreight); err != nil {
			errs = append(errs, domain.FieldError{Field: "total_freight", Message: "must be a number"})
		}
	}

	return errs
}

// UpdateShipment applies a partial update to the shipment identified by its
// tracking code. Supplied fields are re-validated and a status change must be
// a legal transition from the current one; any failure leaves the record
// untouched.
func (s *TrackingService) UpdateShipment(ctx context.Context, code string, in UpdateShipmentInput) (*domain.Shipment, error) {
	if fields := in.validate(); len(fields) > 0 {
		return nil, fmt.Errorf("UpdateShipment: %w", domain.NewValidationError(fields))
	}

	sh, err := s.shipments.GetByTrackingCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("UpdateShipment: %w", err)
	}

	if in.Status != nil {
		next := domain.ShipmentStatus(*in.Status)
		if !sh.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("UpdateShipment: %s to %s: %w", sh.Status, next, domain.ErrInvalidTransition)
		}
		sh.Status = next
	}

	if in.SenderName != nil {
		sh.SenderName = *in.SenderName
	}
	if in.SenderAddress != nil {
		sh.SenderAddress = *in.SenderAddress
	}
	if in.SenderEmail != nil {
		sh.SenderEmail = *in.SenderEmail
	}
	if in.SenderContact != nil {
		sh.SenderContact = *in.SenderContact
	}
	if in.ReceiverName != nil {
		sh.ReceiverName = *in.ReceiverName
	}
	if in.ReceiverAddress != nil {
		sh.ReceiverAddress = *in.ReceiverAddress
	}
	if in.ReceiverEmail != nil {
		sh.ReceiverEmail = *in.ReceiverEmail
	}
	if in.PackageName != nil {
		sh.PackageName = *in.PackageName
	}
	if len(in.PackageTypes) > 0 {
		sh.PackageTypes = in.PackageTypes
	}
	if in.Weight != nil {
		w, _ := parseWeight(*in.Weight)
		sh.Weight = w
	}
	if in.Quantity != nil {
		q, _ := parseQuantity(*in.Quantity)
		sh.Quantity = q
	}
	if in.ShipmentMode != nil {
		sh.ShipmentMode = *in.ShipmentMode
	}
	if in.ShipmentType != nil {
		sh.ShipmentType = *in.ShipmentType
	}
	if in.Carrier != nil {
		sh.Carrier = *in.Carrier
	}
	if in.CarrierRef != nil {
		sh.CarrierRef = *in.CarrierRef
	}
	if in.Origin != nil {
		sh.Origin = in.Origin
	}
	if in.Destination != nil {
		sh.Destination = in.Destination
	}
	if in.PickupDate != nil {
		d, _ := parseDate(*in.PickupDate)
		sh.PickupDate = &d
	}
	if in.DeliveryDate != nil {
		d, _ := parseDate(*in.DeliveryDate)
		sh.DeliveryDate = &d
	}
	if in.DepartureTime != nil {
		sh.DepartureTime = in.DepartureTime
	}
	if in.StatusNote != nil {
		sh.StatusNote = in.StatusNote
	}
	if in.PaymentMode != nil {
		m := domain.PaymentMode(*in.PaymentMode)
		sh.PaymentMode = &m
	}
	if in.TotalFreight != nil {
		f, _ := decimal.NewFromString(*in.TotalFreight)
		sh.TotalFreight = &f
	}
	sh.UpdatedAt = time.Now().UTC()

	if err := s.shipments.Update(ctx, sh); err != nil {
		return nil, fmt.Errorf("UpdateShipment: %w", err)
	}

	logging.FromContext(ctx).Info("shipment updated", "tracking_code", sh.TrackingCode, "status", sh.Status)
	return sh, nil
}

func (s *TrackingService) DeleteShipment(ctx context.Context, code string) error {
	if err := s.shipments.DeleteByTrackingCode(ctx, code); err != nil {
		return fmt.Errorf("DeleteShipment: %w", err)
	}
	logging.FromContext(ctx).Info("shipment deleted", "tracking_code", code)
	return nil
}

// DeleteAllShipments wipes the store. An already-empty store is reported as
// not found; otherwise the removed count is returned.
func (s *TrackingService) DeleteAllShipments(ctx context.Context) (int64, error) {
	n, err := s.shipments.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("DeleteAllShipments: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("DeleteAllShipments: %w", domain.ErrNotFound)
	}
	logging.FromContext(ctx).Info("all shipments deleted", "count", n)
	return n, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/swiftdrop/courier-api/internal/domain"
)

const shipmentColumns = `id, tracking_code,
	sender_name, sender_address, sender_email, sender_contact,
	receiver_name, receiver_address, receiver_email,
	package_name, package_types, weight, quantity,
	shipment_mode, shipment_type, carrier, carrier_ref,
	origin, destination, pickup_date, delivery_date, departure_time,
	status, status_note, payment_mode, total_freight,
	created_at, updated_at`

type ShipmentRepository struct {
	db *sql.DB
}

func NewShipmentRepository(db *sql.DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

func (r *ShipmentRepository) Create(ctx context.Context, sh *domain.Shipment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO shipments (`+shipmentColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		         $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)`,
		sh.ID, sh.TrackingCode,
		sh.SenderName, sh.SenderAddress, sh.SenderEmail, sh.SenderContact,
		sh.ReceiverName, sh.ReceiverAddress, sh.ReceiverEmail,
		sh.PackageName, pq.Array(sh.PackageTypes), sh.Weight, sh.Quantity,
		sh.ShipmentMode, sh.ShipmentType, sh.Carrier, sh.CarrierRef,
		sh.Origin, sh.Destination, sh.PickupDate, sh.DeliveryDate, sh.DepartureTime,
		sh.Status, sh.StatusNote, sh.PaymentMode, sh.TotalFreight,
		sh.CreatedAt, sh.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "shipments_tracking_code_key") {
			return fmt.Errorf("Create: %w", domain.ErrDuplicateTrackingCode)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *ShipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shipment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, id,
	)
	sh, err := scanShipment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return sh, nil
}

func (r *ShipmentRepository) GetByTrackingCode(ctx context.Context, code string) (*domain.Shipment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE tracking_code = $1`, code,
	)
	sh, err := scanShipment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByTrackingCode: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByTrackingCode: %w", err)
	}
	return sh, nil
}

// List returns all shipments newest first, with the total count.
func (r *ShipmentRepository) List(ctx context.Context) ([]domain.Shipment, int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+shipmentColumns+` FROM shipments ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var shipments []domain.Shipment
	for rows.Next() {
		sh, err := scanShipment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("List: %w", err)
		}
		shipments = append(shipments, *sh)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	return shipments, len(shipments), nil
}

// Update writes the full merged record. The tracking code is immutable and
// deliberately absent from the SET list.
func (r *ShipmentRepository) Update(ctx context.Context, sh *domain.Shipment) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shipments SET
			sender_name = $2, sender_address = $3, sender_email = $4, sender_contact = $5,
			receiver_name = $6, receiver_address = $7, receiver_email = $8,
			package_name = $9, package_types = $10, weight = $11, quantity = $12,
			shipment_mode = $13, shipment_type = $14, carrier = $15, carrier_ref = $16,
			origin = $17, destination = $18, pickup_date = $19, delivery_date = $20, departure_time = $21,
			status = $22, status_note = $23, payment_mode = $24, total_freight = $25,
			updated_at = $26
		 WHERE id = $1`,
		sh.ID,
		sh.SenderName, sh.SenderAddress, sh.SenderEmail, sh.SenderContact,
		sh.ReceiverName, sh.ReceiverAddress, sh.ReceiverEmail,
		sh.PackageName, pq.Array(sh.PackageTypes), sh.Weight, sh.Quantity,
		sh.ShipmentMode, sh.ShipmentType, sh.Carrier, sh.CarrierRef,
		sh.Origin, sh.Destination, sh.PickupDate, sh.DeliveryDate, sh.DepartureTime,
		sh.Status, sh.StatusNote, sh.PaymentMode, sh.TotalFreight,
		sh.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return requireRowAffected(res, "Update")
}

func (r *ShipmentRepository) DeleteByTrackingCode(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shipments WHERE tracking_code = $1`, code)
	if err != nil {
		return fmt.Errorf("DeleteByTrackingCode: %w", err)
	}
	return requireRowAffected(res, "DeleteByTrackingCode")
}

// DeleteAll wipes every shipment and returns how many were removed.
func (r *ShipmentRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shipments`)
	if err != nil {
		return 0, fmt.Errorf("DeleteAll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteAll: %w", err)
	}
	return n, nil
}

func scanShipment(s scanner) (*domain.Shipment, error) {
	var sh domain.Shipment
	var paymentMode sql.NullString
	err := s.Scan(
		&sh.ID, &sh.TrackingCode,
		&sh.SenderName, &sh.SenderAddress, &sh.SenderEmail, &sh.SenderContact,
		&sh.ReceiverName, &sh.ReceiverAddress, &sh.ReceiverEmail,
		&sh.PackageName, pq.Array(&sh.PackageTypes), &sh.Weight, &sh.Quantity,
		&sh.ShipmentMode, &sh.ShipmentType, &sh.Carrier, &sh.CarrierRef,
		&sh.Origin, &sh.Destination, &sh.PickupDate, &sh.DeliveryDate, &sh.DepartureTime,
		&sh.Status, &sh.StatusNote, &paymentMode, &sh.TotalFreight,
		&sh.CreatedAt, &sh.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if paymentMode.Valid {
		m := domain.PaymentMode(paymentMode.String)
		sh.PaymentMode = &m
	}
	return &sh, nil
}

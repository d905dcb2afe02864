package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ShipmentStatus string

const (
	StatusPending        ShipmentStatus = "Pending"
	StatusShipped        ShipmentStatus = "Shipped"
	StatusInTransit      ShipmentStatus = "In Transit"
	StatusOutForDelivery ShipmentStatus = "Out for Delivery"
	StatusDelivered      ShipmentStatus = "Delivered"
	StatusOnHold         ShipmentStatus = "On hold"
	StatusCancelled      ShipmentStatus = "Cancelled"
)

func (s ShipmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusInTransit, StatusOutForDelivery,
		StatusDelivered, StatusOnHold, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from s.
func (s ShipmentStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// statusTransitions is the legal transition table. The delivery chain moves
// strictly forward; On hold and Cancelled are reachable from any non-terminal
// state, and On hold may resume to any forward state.
var statusTransitions = map[ShipmentStatus][]ShipmentStatus{
	StatusPending:        {StatusShipped, StatusOnHold, StatusCancelled},
	StatusShipped:        {StatusInTransit, StatusOnHold, StatusCancelled},
	StatusInTransit:      {StatusOutForDelivery, StatusOnHold, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusOnHold, StatusCancelled},
	StatusOnHold:         {StatusShipped, StatusInTransit, StatusOutForDelivery, StatusDelivered, StatusCancelled},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// CanTransitionTo reports whether moving from s to next is legal.
// A no-op transition to the current status is always allowed.
func (s ShipmentStatus) CanTransitionTo(next ShipmentStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentMode string

const (
	PaymentModeCash           PaymentMode = "Cash"
	PaymentModeCard           PaymentMode = "Card"
	PaymentModeOnlineTransfer PaymentMode = "Online Transfer"
)

func (m PaymentMode) IsValid() bool {
	return m == PaymentModeCash || m == PaymentModeCard || m == PaymentModeOnlineTransfer
}

// Shipment is a tracked package. The tracking code is the external identity,
// assigned at creation and immutable afterwards; ID is the storage key.
type Shipment struct {
	ID           uuid.UUID
	TrackingCode string

	SenderName    string
	SenderAddress string
	SenderEmail   string
	SenderContact string

	ReceiverName    string
	ReceiverAddress string
	ReceiverEmail   string

	PackageName  string
	PackageTypes []string
	Weight       decimal.Decimal
	Quantity     int

	ShipmentMode string
	ShipmentType string
	Carrier      string
	CarrierRef   string

	Origin        *string
	Destination   *string
	PickupDate    *time.Time
	DeliveryDate  *time.Time
	DepartureTime *string

	Status       ShipmentStatus
	StatusNote   *string
	PaymentMode  *PaymentMode
	TotalFreight *decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

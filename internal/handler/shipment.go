package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/swiftdrop/courier-api/internal/domain"
	"github.com/swiftdrop/courier-api/internal/logging"
	"github.com/swiftdrop/courier-api/internal/service"
)

type trackingService interface {
	RegisterShipment(ctx context.Context, in service.RegisterShipmentInput) (*domain.Shipment, error)
	ListShipments(ctx context.Context) ([]domain.Shipment, int, error)
	GetByTrackingCode(ctx context.Context, code string) (*domain.Shipment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Shipment, error)
	UpdateShipment(ctx context.Context, code string, in service.UpdateShipmentInput) (*domain.Shipment, error)
	DeleteShipment(ctx context.Context, code string) error
	DeleteAllShipments(ctx context.Context) (int64, error)
}

type ShipmentHandler struct {
	svc trackingService
}

func NewShipmentHandler(svc trackingService) *ShipmentHandler {
	return &ShipmentHandler{svc: svc}
}

type shipmentDTO struct {
	ID           uuid.UUID `json:"id"`
	TrackingCode string    `json:"tracking_code"`

	SenderName    string `json:"sender_name"`
	SenderAddress string `json:"sender_address"`
	SenderEmail   string `json:"sender_email"`
	SenderContact string `json:"sender_contact"`

	ReceiverName    string `json:"receiver_name"`
	ReceiverAddress string `json:"receiver_address"`
	ReceiverEmail   string `json:"receiver_email"`

	PackageName  string   `json:"package_name"`
	PackageTypes []string `json:"package_types"`
	Weight       float64  `json:"weight"`
	Quantity     int      `json:"quantity"`

	ShipmentMode string `json:"shipment_mode"`
	ShipmentType string `json:"shipment_type"`
	Carrier      string `json:"carrier"`
	CarrierRef   string `json:"carrier_ref"`

	Origin        *string `json:"origin,omitempty"`
	Destination   *string `json:"destination,omitempty"`
	PickupDate    *string `json:"pickup_date,omitempty"`
	DeliveryDate  *string `json:"delivery_date,omitempty"`
	DepartureTime *string `json:"departure_time,omitempty"`

	Status       string   `json:"status"`
	StatusNote   *string  `json:"status_note,omitempty"`
	PaymentMode  *string  `json:"payment_mode,omitempty"`
	TotalFreight *float64 `json:"total_freight,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toShipmentDTO(sh *domain.Shipment) shipmentDTO {
	dto := shipmentDTO{
		ID:           sh.ID,
		TrackingCode: sh.TrackingCode,

		SenderName:    sh.SenderName,
		SenderAddress: sh.SenderAddress,
		SenderEmail:   sh.SenderEmail,
		SenderContact: sh.SenderContact,

		ReceiverName:    sh.ReceiverName,
		ReceiverAddress: sh.ReceiverAddress,
		ReceiverEmail:   sh.ReceiverEmail,

		PackageName:  sh.PackageName,
		PackageTypes: sh.PackageTypes,
		Weight:       sh.Weight.InexactFloat64(),
		Quantity:     sh.Quantity,

		ShipmentMode: sh.ShipmentMode,
		ShipmentType: sh.ShipmentType,
		Carrier:      sh.Carrier,
		CarrierRef:   sh.CarrierRef,

		Origin:        sh.Origin,
		Destination:   sh.Destination,
		DepartureTime: sh.DepartureTime,

		Status:     string(sh.Status),
		StatusNote: sh.StatusNote,

		CreatedAt: sh.CreatedAt,
		UpdatedAt: sh.UpdatedAt,
	}
	if sh.PickupDate != nil {
		d := sh.PickupDate.Format("2006-01-02")
		dto.PickupDate = &d
	}
	if sh.DeliveryDate != nil {
		d := sh.DeliveryDate.Format("2006-01-02")
		dto.DeliveryDate = &d
	}
	if sh.PaymentMode != nil {
		m := string(*sh.PaymentMode)
		dto.PaymentMode = &m
	}
	if sh.TotalFreight != nil {
		f := sh.TotalFreight.InexactFloat64()
		dto.TotalFreight = &f
	}
	return dto
}

type createShipmentRequest struct {
	SenderName    string `json:"sender_name"`
	SenderAddress string `json:"sender_address"`
	SenderEmail   string `json:"sender_email"`
	SenderContact string `json:"sender_contact"`

	ReceiverName    string `json:"receiver_name"`
	ReceiverAddress string `json:"receiver_address"`
	ReceiverEmail   string `json:"receiver_email"`

	PackageName  string   `json:"package_name"`
	PackageTypes []string `json:"package_types"`
	Weight       string   `json:"weight"`
	Quantity     string   `json:"quantity"`

	ShipmentMode string `json:"shipment_mode"`
	ShipmentType string `json:"shipment_type"`
	Carrier      string `json:"carrier"`
	CarrierRef   string `json:"carrier_ref"`

	Origin        *string `json:"origin"`
	Destination   *string `json:"destination"`
	PickupDate    *string `json:"pickup_date"`
	DeliveryDate  *string `json:"delivery_date"`
	DepartureTime *string `json:"departure_time"`

	TrackingCode string  `json:"tracking_code"`
	PaymentMode  *string `json:"payment_mode"`
	TotalFreight *string `json:"total_freight"`
}

func (h *ShipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createShipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	sh, err := h.svc.RegisterShipment(r.Context(), service.RegisterShipmentInput{
		SenderName:    req.SenderName,
		SenderAddress: req.SenderAddress,
		SenderEmail:   req.SenderEmail,
		SenderContact: req.SenderContact,

		ReceiverName:    req.ReceiverName,
		ReceiverAddress: req.ReceiverAddress,
		ReceiverEmail:   req.ReceiverEmail,

		PackageName:  req.PackageName,
		PackageTypes: req.PackageTypes,
		Weight:       req.Weight,
		Quantity:     req.Quantity,

		ShipmentMode: req.ShipmentMode,
		ShipmentType: req.ShipmentType,
		Carrier:      req.Carrier,
		CarrierRef:   req.CarrierRef,

		Origin:        req.Origin,
		Destination:   req.Destination,
		PickupDate:    req.PickupDate,
		DeliveryDate:  req.DeliveryDate,
		DepartureTime: req.DepartureTime,

		TrackingCode: req.TrackingCode,
		PaymentMode:  req.PaymentMode,
		TotalFreight: req.TotalFreight,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toShipmentDTO(sh))
}

type shipmentListResponse struct {
	Shipments []shipmentDTO `json:"shipments"`
	Total     int           `json:"total"`
}

func (h *ShipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	shipments, total, err := h.svc.ListShipments(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list shipments", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]shipmentDTO, len(shipments))
	for i := range shipments {
		dtos[i] = toShipmentDTO(&shipments[i])
	}
	RespondSuccess(w, http.StatusOK, shipmentListResponse{Shipments: dtos, Total: total})
}

func (h *ShipmentHandler) GetByTrackingCode(w http.ResponseWriter, r *http.Request) {
	sh, err := h.svc.GetByTrackingCode(r.Context(), r.PathValue("code"))
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toShipmentDTO(sh))
}

func (h *ShipmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	sh, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toShipmentDTO(sh))
}

type updateShipmentRequest struct {
	SenderName    *string `json:"sender_name"`
	SenderAddress *string `json:"sender_address"`
	SenderEmail   *string `json:"sender_email"`
	SenderContact *string `json:"sender_contact"`

	ReceiverName    *string `json:"receiver_name"`
	ReceiverAddress *string `json:"receiver_address"`
	ReceiverEmail   *string `json:"receiver_email"`

	PackageName  *string  `json:"package_name"`
	PackageTypes []string `json:"package_types"`
	Weight       *string  `json:"weight"`
	Quantity     *string  `json:"quantity"`

	ShipmentMode *string `json:"shipment_mode"`
	ShipmentType *string `json:"shipment_type"`
	Carrier      *string `json:"carrier"`
	CarrierRef   *string `json:"carrier_ref"`

	Origin        *string `json:"origin"`
	Destination   *string `json:"destination"`
	PickupDate    *string `json:"pickup_date"`
	DeliveryDate  *string `json:"delivery_date"`
	DepartureTime *string `json:"departure_time"`

	Status       *string `json:"status"`
	StatusNote   *string `json:"status_note"`
	PaymentMode  *string `json:"payment_mode"`
	TotalFreight *string `json:"total_freight"`
}

func (h *ShipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateShipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	sh, err := h.svc.UpdateShipment(r.Context(), r.PathValue("code"), service.UpdateShipmentInput{
		SenderName:    req.SenderName,
		SenderAddress: req.SenderAddress,
		SenderEmail:   req.SenderEmail,
		SenderContact: req.SenderContact,

		ReceiverName:    req.ReceiverName,
		ReceiverAddress: req.ReceiverAddress,
		ReceiverEmail:   req.ReceiverEmail,

		PackageName:  req.PackageName,
		PackageTypes: req.PackageTypes,
		Weight:       req.Weight,
		Quantity:     req.Quantity,

		ShipmentMode: req.ShipmentMode,
		ShipmentType: req.ShipmentType,
		Carrier:      req.Carrier,
		CarrierRef:   req.CarrierRef,

		Origin:        req.Origin,
		Destination:   req.Destination,
		PickupDate:    req.PickupDate,
		DeliveryDate:  req.DeliveryDate,
		DepartureTime: req.DepartureTime,

		Status:       req.Status,
		StatusNote:   req.StatusNote,
		PaymentMode:  req.PaymentMode,
		TotalFreight: req.TotalFreight,
	})
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toShipmentDTO(sh))
}

func (h *ShipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteShipment(r.Context(), r.PathValue("code")); err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, map[string]string{"message": "Shipment deleted successfully"})
}

func (h *ShipmentHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.DeleteAllShipments(r.Context())
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, map[string]int64{"deleted": n})
}

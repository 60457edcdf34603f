package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/souzacred/crm-backend/internal/dto"
	"github.com/souzacred/crm-backend/internal/errs"
	"github.com/souzacred/crm-backend/internal/models"
	"github.com/souzacred/crm-backend/pkg/logger"
)

type appointmentASStore interface {
	CreateAppointment(ctx context.Context, a *models.Appointment) error
	ListForCustomer(ctx context.Context, filters dto.AppointmentFilters, req dto.PageRequest) (dto.Paginated[models.Appointment], error)
}

type appointmentCustomerStore interface {
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
}

type appointmentService struct {
	store           appointmentASStore
	customers       appointmentCustomerStore
	defaultPageSize int
}

func NewAppointmentService(store appointmentASStore, customers appointmentCustomerStore, defaultPageSize int) *appointmentService {
	return &appointmentService{
		store:           store,
		customers:       customers,
		defaultPageSize: defaultPageSize,
	}
}

func (s *appointmentService) CreateAppointment(ctx context.Context, actorUID string, req dto.CreateAppointmentRequest) (*dto.CreateAppointmentResponse, error) {
	log := logger.FromContext(ctx)

	if req.CustomerID == "" {
		return nil, errs.NewValidationError("customerId is required")
	}
	if req.Title == "" {
		return nil, errs.NewValidationError("title is required")
	}
	if req.ScheduledAt == "" {
		return nil, errs.NewValidationError("scheduledAt is required")
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return nil, errs.NewValidationError("scheduledAt must be RFC 3339")
	}

	if _, err := s.customers.GetCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	a := &models.Appointment{
		ID:          uuid.New().String(),
		CustomerID:  req.CustomerID,
		Title:       req.Title,
		Description: req.Description,
		ScheduledAt: scheduledAt,
		Done:        false,
		CreatedAt:   time.Now(),
		CreatedBy:   actorUID,
	}
	if err := s.store.CreateAppointment(ctx, a); err != nil {
		return nil, err
	}

	log.Info("appointment created",
		"appointment_id", a.ID,
		"customer_id", a.CustomerID,
		"scheduled_at", a.ScheduledAt)

	return &dto.CreateAppointmentResponse{ID: a.ID}, nil
}

func (s *appointmentService) ListForCustomer(ctx context.Context, filters dto.AppointmentFilters, req dto.PageRequest) (dto.Paginated[models.Appointment], error) {
	var out dto.Paginated[models.Appointment]

	if filters.CustomerID == "" {
		return out, errs.NewValidationError("customerId is required")
	}
	if err := req.Validate(); err != nil {
		return out, err
	}
	if _, err := s.customers.GetCustomer(ctx, filters.CustomerID); err != nil {
		return out, err
	}
	return s.store.ListForCustomer(ctx, filters, req.Normalize(s.defaultPageSize))
}

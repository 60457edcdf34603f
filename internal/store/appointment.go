package store

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/souzacred/crm-backend/internal/dto"
	"github.com/souzacred/crm-backend/internal/errs"
	"github.com/souzacred/crm-backend/internal/models"
)

const appointmentsCollection = "appointments"

type appointmentStore struct {
	collection *firestore.CollectionRef
}

func NewAppointmentStore(client *firestore.Client) *appointmentStore {
	return &appointmentStore{
		collection: client.Collection(appointmentsCollection),
	}
}

func (s *appointmentStore) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	if _, err := s.collection.Doc(a.ID).Create(ctx, a); err != nil {
		return errs.NewDatabaseError("create", "failed to create appointment", err)
	}
	return nil
}

// ListForCustomer pages a customer's appointments in upcoming order. Done
// appointments are filtered out unless asked for, and the filter is part of
// the query shape a cursor is bound to.
func (s *appointmentStore) ListForCustomer(ctx context.Context, filters dto.AppointmentFilters, req dto.PageRequest) (dto.Paginated[models.Appointment], error) {
	var out dto.Paginated[models.Appointment]

	q := s.collection.Where("customerId", "==", filters.CustomerID)
	if !filters.IncludeDone {
		q = q.Where("done", "==", false)
	}

	// Domain order: soonest first, unlike the creation-desc default elsewhere.
	p := newPager(s.collection, "scheduledAt", firestore.Asc)
	docs, total, err := p.page(ctx, q, req)
	if err != nil {
		return out, err
	}

	items, err := decodeAll(docs, func(a *models.Appointment, id string) { a.ID = id })
	if err != nil {
		return out, err
	}

	out.Items = items
	out.Meta = dto.NewPageMeta(req, total, len(docs), lastID(docs))
	return out, nil
}

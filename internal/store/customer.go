package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/souzacred/crm-backend/internal/dto"
	"github.com/souzacred/crm-backend/internal/errs"
	"github.com/souzacred/crm-backend/internal/models"
)

const (
	customersCollection    = "customers"
	loansSubcollection     = "loans"
	documentsSubcollection = "documents"
)

type customerStore struct {
	client     *firestore.Client
	collection *firestore.CollectionRef
	batchLimit int
}

func NewCustomerStore(client *firestore.Client, batchLimit int) *customerStore {
	return &customerStore{
		client:     client,
		collection: client.Collection(customersCollection),
		batchLimit: batchLimit,
	}
}

func (s *customerStore) CreateCustomer(ctx context.Context, c *models.Customer) error {
	if _, err := s.collection.Doc(c.ID).Create(ctx, c); err != nil {
		return errs.NewDatabaseError("create", "failed to create customer", err)
	}
	return nil
}

func (s *customerStore) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	doc, err := s.collection.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("customer not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get customer", err)
	}
	var c models.Customer
	if err := doc.DataTo(&c); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse customer data", err)
	}
	c.ID = doc.Ref.ID
	return &c, nil
}

// UpdateCustomer applies a partial field update. Callers are expected to have
// verified the customer exists; Firestore's own not-found error is still
// surfaced in case it vanished in between.
func (s *customerStore) UpdateCustomer(ctx context.Context, id string, fields map[string]any) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}

	if _, err := s.collection.Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("customer not found")
		}
		return errs.NewDatabaseError("update", "failed to update customer", err)
	}
	return nil
}

// AppendTransition moves the customer to the transition's target stage and
// appends the history entry in one atomic update. History is additive only;
// nothing ever rewrites or trims it.
func (s *customerStore) AppendTransition(ctx context.Context, id string, tr models.StageTransition) error {
	_, err := s.collection.Doc(id).Update(ctx, []firestore.Update{
		{Path: "stage", Value: tr.To},
		{Path: "transitionHistory", Value: firestore.ArrayUnion(tr)},
		{Path: "updatedAt", Value: tr.At},
		{Path: "updatedBy", Value: tr.By},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("customer not found")
		}
		return errs.NewDatabaseError("update", "failed to record stage transition", err)
	}
	return nil
}

func (s *customerStore) ExistsByCPF(ctx context.Context, cpf string) (bool, error) {
	docs, err := s.collection.Where("cpf", "==", cpf).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return false, errs.NewDatabaseError("read", "failed to check cpf uniqueness", err)
	}
	return len(docs) > 0, nil
}

// List returns one page of customers ordered by creation time, newest first.
func (s *customerStore) List(ctx context.Context, filters dto.CustomerFilters, req dto.PageRequest) (dto.Paginated[models.Customer], error) {
	var out dto.Paginated[models.Customer]

	q := s.collection.Query
	if filters.Stage != "" {
		q = q.Where("stage", "==", filters.Stage)
	}
	if filters.Prospecting != nil {
		q = q.Where("prospecting", "==", *filters.Prospecting)
	}
	if filters.RecurrenceAlert != nil {
		q = q.Where("recurrenceAlert", "==", *filters.RecurrenceAlert)
	}
	if filters.LoanBank != "" {
		q = q.Where("loanBank", "==", filters.LoanBank)
	}

	p := newPager(s.collection, "createdAt", firestore.Desc)
	docs, total, err := p.page(ctx, q, req)
	if err != nil {
		return out, err
	}

	items, err := decodeAll(docs, func(c *models.Customer, id string) { c.ID = id })
	if err != nil {
		return out, err
	}

	out.Items = items
	out.Meta = dto.NewPageMeta(req, total, len(docs), lastID(docs))
	return out, nil
}

func (s *customerStore) SearchByNamePrefix(ctx context.Context, prefix string, limit int) ([]models.Customer, error) {
	docs, err := s.collection.
		OrderBy("fullName", firestore.Asc).
		StartAt(prefix).
		EndAt(prefix + "").
		Limit(limit).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to search customers by name", err)
	}
	return decodeAll(docs, func(c *models.Customer, id string) { c.ID = id })
}

func (s *customerStore) FindByCPF(ctx context.Context, cpf string, limit int) ([]models.Customer, error) {
	docs, err := s.collection.Where("cpf", "==", cpf).Limit(limit).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to search customers by cpf", err)
	}
	return decodeAll(docs, func(c *models.Customer, id string) { c.ID = id })
}

func (s *customerStore) FindByPhone(ctx context.Context, phone string, limit int) ([]models.Customer, error) {
	docs, err := s.collection.Where("phone", "==", phone).Limit(limit).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to search customers by phone", err)
	}
	return decodeAll(docs, func(c *models.Customer, id string) { c.ID = id })
}

// PurgeSubcollection drains one of the customer's owned subcollections in
// bounded batches and returns how many documents went away.
func (s *customerStore) PurgeSubcollection(ctx context.Context, customerID, name string) (int, error) {
	return purgeSubcollection(ctx, s.client, s.collection.Doc(customerID), name, s.batchLimit)
}

// DeleteCustomer removes the parent document only; the caller purges the
// owned subcollections first.
func (s *customerStore) DeleteCustomer(ctx context.Context, id string) error {
	if _, err := s.collection.Doc(id).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete customer", err)
	}
	return nil
}

// ActiveTermCustomers returns every customer still inside a loan term. The
// recalculation job reads them all in one pass; memory is bounded downstream
// by the batched writes, not here.
func (s *customerStore) ActiveTermCustomers(ctx context.Context) ([]models.Customer, error) {
	docs, err := s.collection.Where("remainingTermMonths", ">", 0).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list customers with active terms", err)
	}
	return decodeAll(docs, func(c *models.Customer, id string) { c.ID = id })
}

// ApplyTermUpdates writes recalculated term fields in batches of at most
// batchLimit updates, flushing each batch before queueing the next. Batches
// already committed stay committed if a later one fails.
func (s *customerStore) ApplyTermUpdates(ctx context.Context, updates []models.TermUpdate) (int, error) {
	batches := 0
	batch := s.client.Batch()
	queued := 0
	now := time.Now()

	flush := func() error {
		if _, err := batch.Commit(ctx); err != nil {
			return errs.NewDatabaseError("update", "failed to commit term update batch", err)
		}
		batches++
		batch = s.client.Batch()
		queued = 0
		return nil
	}

	for _, u := range updates {
		batch.Update(s.collection.Doc(u.CustomerID), []firestore.Update{
			{Path: "remainingTermMonths", Value: u.RemainingTermMonths},
			{Path: "paidInstallments", Value: u.PaidInstallments},
			{Path: "percentPaid", Value: u.PercentPaid},
			{Path: "recurrenceAlert", Value: u.RecurrenceAlert},
			{Path: "lastTermUpdate", Value: now},
		})
		queued++

		if queued >= s.batchLimit {
			if err := flush(); err != nil {
				return batches, err
			}
		}
	}

	if queued > 0 {
		if err := flush(); err != nil {
			return batches, err
		}
	}
	return batches, nil
}

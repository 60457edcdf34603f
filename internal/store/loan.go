package store

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/souzacred/crm-backend/internal/dto"
	"github.com/souzacred/crm-backend/internal/models"
)

// Loans live as a subcollection under their customer; cross-customer reads
// (dashboard metrics, reports) use collection-group queries over the same
// documents.
type loanStore struct {
	client *firestore.Client
}

func NewLoanStore(client *firestore.Client) *loanStore {
	return &loanStore{client: client}
}

func (s *loanStore) collection(customerID string) *firestore.CollectionRef {
	return s.client.Collection(customersCollection).Doc(customerID).Collection(loansSubcollection)
}

// ListForCustomer pages through one customer's loans, newest request first.
func (s *loanStore) ListForCustomer(ctx context.Context, customerID string, req dto.PageRequest) (dto.Paginated[models.Loan], error) {
	var out dto.Paginated[models.Loan]

	col := s.collection(customerID)
	p := newPager(col, "createdAt", firestore.Desc)
	docs, total, err := p.page(ctx, col.Query, req)
	if err != nil {
		return out, err
	}

	items, err := decodeAll(docs, func(l *models.Loan, id string) { l.ID = id })
	if err != nil {
		return out, err
	}

	out.Items = items
	out.Meta = dto.NewPageMeta(req, total, len(docs), lastID(docs))
	return out, nil
}

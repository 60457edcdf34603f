package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"

	"github.com/souzacred/crm-backend/internal/errs"
	"github.com/souzacred/crm-backend/internal/models"
)

// dashboardStore serves the thin read-only aggregations behind the dashboard
// and reports. Loan queries are collection-group reads across every customer's
// loans subcollection.
type dashboardStore struct {
	client *firestore.Client
}

func NewDashboardStore(client *firestore.Client) *dashboardStore {
	return &dashboardStore{client: client}
}

func (s *dashboardStore) customers() firestore.Query {
	return s.client.Collection(customersCollection).Query
}

func (s *dashboardStore) loans() firestore.Query {
	return s.client.CollectionGroup(loansSubcollection).Query
}

func (s *dashboardStore) CountCustomers(ctx context.Context) (int, error) {
	return countAll(ctx, s.customers())
}

// CountActiveCustomers counts everyone not yet closed-lost.
func (s *dashboardStore) CountActiveCustomers(ctx context.Context) (int, error) {
	return countAll(ctx, s.customers().Where("stage", "!=", models.StageClosedLost))
}

func (s *dashboardStore) CountCustomersByStage(ctx context.Context, stage models.Stage) (int, error) {
	return countAll(ctx, s.customers().Where("stage", "==", stage))
}

func (s *dashboardStore) CountActiveLoans(ctx context.Context) (int, error) {
	return countAll(ctx, s.loans().Where("status", "==", models.LoanStatusActive))
}

// SumActiveLoanAmounts totals the amount of every active loan server-side.
func (s *dashboardStore) SumActiveLoanAmounts(ctx context.Context) (float64, error) {
	q := s.loans().Where("status", "==", models.LoanStatusActive)
	res, err := q.NewAggregationQuery().WithSum("amount", "total").Get(ctx)
	if err != nil {
		return 0, errs.NewDatabaseError("read", "failed to sum loan amounts", err)
	}
	v, ok := res["total"].(*firestorepb.Value)
	if !ok {
		return 0, errs.NewDatabaseError("read", "unexpected sum aggregation result", nil)
	}
	return v.GetDoubleValue(), nil
}

// ApprovedLoansSince returns approved loans requested on or after start, for
// time-bucketed performance aggregation.
func (s *dashboardStore) ApprovedLoansSince(ctx context.Context, start time.Time) ([]models.Loan, error) {
	docs, err := s.loans().
		Where("status", "==", models.LoanStatusApproved).
		Where("requestedAt", ">=", start).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list approved loans", err)
	}
	return decodeAll(docs, func(l *models.Loan, id string) { l.ID = id })
}

// RecentLoans returns up to limit loans for the loans report.
func (s *dashboardStore) RecentLoans(ctx context.Context, limit int) ([]models.Loan, error) {
	docs, err := s.loans().Limit(limit).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list loans", err)
	}
	return decodeAll(docs, func(l *models.Loan, id string) { l.ID = id })
}

// RecentCustomers returns up to limit customers for the customers report.
func (s *dashboardStore) RecentCustomers(ctx context.Context, limit int) ([]models.Customer, error) {
	docs, err := s.customers().Limit(limit).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list customers", err)
	}
	return decodeAll(docs, func(c *models.Customer, id string) { c.ID = id })
}

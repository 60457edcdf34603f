package services

import (
	"context"
	"time"

	"github.com/souzacred/crm-backend/internal/dto"
	"github.com/souzacred/crm-backend/internal/models"
	"github.com/souzacred/crm-backend/pkg/logger"
)

// recurrenceAlertThreshold is the paid-installment count at which a customer
// becomes a recurrence (refinance) prospect.
const recurrenceAlertThreshold = 11

type recalcStore interface {
	ActiveTermCustomers(ctx context.Context) ([]models.Customer, error)
	ApplyTermUpdates(ctx context.Context, updates []models.TermUpdate) (int, error)
}

// recalcService recomputes every active customer's remaining loan term and the
// fields derived from it. It backs both the monthly scheduled run and the
// on-demand admin operation; the logic is identical.
type recalcService struct {
	store recalcStore
	now   func() time.Time
}

func NewRecalcService(store recalcStore) *recalcService {
	return &recalcService{store: store, now: time.Now}
}

// Run reads all customers still inside a loan term and writes the
// recalculated fields back in bounded batches. Customers without a first
// discount date are skipped, not failed: an incomplete record just sits out
// the pass. Errors propagate to the caller untranslated; the scheduled
// trigger applies its own retry policy, and batches already committed are not
// rolled back.
func (s *recalcService) Run(ctx context.Context) (*dto.RecalcResult, error) {
	log := logger.FromContext(ctx)

	customers, err := s.store.ActiveTermCustomers(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updates := make([]models.TermUpdate, 0, len(customers))
	skipped := 0

	for _, c := range customers {
		u, ok := termUpdateFor(c, now)
		if !ok {
			skipped++
			continue
		}
		updates = append(updates, u)
	}

	batches, err := s.store.ApplyTermUpdates(ctx, updates)
	if err != nil {
		return nil, err
	}

	log.Info("term recalculation finished",
		"customers_updated", len(updates),
		"batches", batches,
		"skipped", skipped)

	return &dto.RecalcResult{
		CustomersUpdated: len(updates),
		Batches:          batches,
		Skipped:          skipped,
	}, nil
}

// termUpdateFor derives the recalculated term fields for one customer, or
// reports false when the record is not eligible.
func termUpdateFor(c models.Customer, now time.Time) (models.TermUpdate, bool) {
	if c.FirstDiscountDate == nil || c.ContractedTermMonths <= 0 {
		return models.TermUpdate{}, false
	}

	elapsed := monthsBetween(*c.FirstDiscountDate, now)
	remaining := c.ContractedTermMonths - elapsed
	if remaining < 0 {
		remaining = 0
	}
	paid := c.ContractedTermMonths - remaining

	return models.TermUpdate{
		CustomerID:          c.ID,
		RemainingTermMonths: remaining,
		PaidInstallments:    paid,
		PercentPaid:         float64(paid) / float64(c.ContractedTermMonths) * 100,
		RecurrenceAlert:     paid >= recurrenceAlertThreshold,
	}, true
}

// monthsBetween counts whole calendar months from start to now: the
// year/month difference, ignoring days. Installments fall monthly, so
// day-precise elapsed time would overcount or undercount around the discount
// day.
func monthsBetween(start, now time.Time) int {
	return (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month())
}

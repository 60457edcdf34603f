package services

import (
	"context"
	"fmt"
	"time"

	"github.com/souzacred/crm-backend/internal/dto"
	"github.com/souzacred/crm-backend/internal/models"
)

const (
	activityFeedSize = 20
	// monthlyGoal is the fixed sales target the performance chart tracks
	// progress against.
	monthlyGoal = 500_000
)

type dashboardDSStore interface {
	CountCustomers(ctx context.Context) (int, error)
	CountActiveCustomers(ctx context.Context) (int, error)
	CountCustomersByStage(ctx context.Context, stage models.Stage) (int, error)
	CountActiveLoans(ctx context.Context) (int, error)
	SumActiveLoanAmounts(ctx context.Context) (float64, error)
	ApprovedLoansSince(ctx context.Context, start time.Time) ([]models.Loan, error)
}

type dashboardActivityStore interface {
	Recent(ctx context.Context, limit int) ([]models.Activity, error)
}

type dashboardService struct {
	store    dashboardDSStore
	activity dashboardActivityStore
}

func NewDashboardService(store dashboardDSStore, activity dashboardActivityStore) *dashboardService {
	return &dashboardService{store: store, activity: activity}
}

func (s *dashboardService) GetMetrics(ctx context.Context) (*dto.Metrics, error) {
	activeCustomers, err := s.store.CountActiveCustomers(ctx)
	if err != nil {
		return nil, err
	}
	activeLoans, err := s.store.CountActiveLoans(ctx)
	if err != nil {
		return nil, err
	}
	totalLent, err := s.store.SumActiveLoanAmounts(ctx)
	if err != nil {
		return nil, err
	}
	won, err := s.store.CountCustomersByStage(ctx, models.StageClosedWon)
	if err != nil {
		return nil, err
	}
	total, err := s.store.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}

	conversion := 0.0
	if total > 0 {
		conversion = float64(won) / float64(total) * 100
	}

	return &dto.Metrics{
		ActiveCustomers: activeCustomers,
		ActiveLoans:     activeLoans,
		TotalLent:       totalLent,
		ConversionRate:  conversion,
	}, nil
}

// GetPerformance buckets approved-loan volume over the requested period.
func (s *dashboardService) GetPerformance(ctx context.Context, req dto.PerformanceRequest) (*dto.Performance, error) {
	period := req.PeriodDays
	if period <= 0 {
		period = 30
	}

	now := time.Now()
	start := now.AddDate(0, 0, -period+1)
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	loans, err := s.store.ApprovedLoansSince(ctx, start)
	if err != nil {
		return nil, err
	}

	perf := &dto.Performance{Goal: monthlyGoal}
	totals := make(map[string]float64)

	for _, l := range loans {
		key := bucketLabel(l.RequestedAt, period)
		if _, seen := totals[key]; !seen {
			perf.Labels = append(perf.Labels, key)
		}
		totals[key] += l.Amount
	}

	for _, label := range perf.Labels {
		perf.Values = append(perf.Values, totals[label])
		perf.Progress += totals[label]
	}
	return perf, nil
}

func (s *dashboardService) GetRecentActivity(ctx context.Context) ([]models.Activity, error) {
	return s.activity.Recent(ctx, activityFeedSize)
}

// bucketLabel picks the aggregation grain from the period length: short
// periods by day, a month by week-of-month, anything longer by month.
func bucketLabel(t time.Time, periodDays int) string {
	switch {
	case periodDays <= 7:
		return t.Format("2006-01-02")
	case periodDays <= 30:
		return fmt.Sprintf("week %d", (t.Day()+6)/7)
	default:
		return t.Format("Jan 06")
	}
}

package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/souzacred/crm-backend/internal/dto"
	"github.com/souzacred/crm-backend/internal/models"
)

const reportRowLimit = 100

const reportDateLayout = "2006-01-02"

type reportRSStore interface {
	RecentCustomers(ctx context.Context, limit int) ([]models.Customer, error)
	RecentLoans(ctx context.Context, limit int) ([]models.Loan, error)
	CountCustomersByStage(ctx context.Context, stage models.Stage) (int, error)
}

type reportService struct {
	store reportRSStore
}

func NewReportService(store reportRSStore) *reportService {
	return &reportService{store: store}
}

func (s *reportService) CustomersReport(ctx context.Context) (*dto.Report, error) {
	customers, err := s.store.RecentCustomers(ctx, reportRowLimit)
	if err != nil {
		return nil, err
	}

	report := &dto.Report{
		Headers: []string{"Name", "CPF", "Phone", "Stage", "Created"},
	}
	for _, c := range customers {
		report.Rows = append(report.Rows, []string{
			c.FullName,
			c.CPF,
			c.Phone,
			string(c.Stage),
			c.CreatedAt.Format(reportDateLayout),
		})
	}
	return report, nil
}

func (s *reportService) LoansReport(ctx context.Context) (*dto.Report, error) {
	loans, err := s.store.RecentLoans(ctx, reportRowLimit)
	if err != nil {
		return nil, err
	}

	report := &dto.Report{
		Headers: []string{"Customer", "Amount", "Term", "Rate", "Status", "Requested"},
	}
	for _, l := range loans {
		report.Rows = append(report.Rows, []string{
			l.CustomerName,
			fmt.Sprintf("%.2f", l.Amount),
			strconv.Itoa(l.TermMonths),
			fmt.Sprintf("%.4f", l.InterestRate),
			l.Status,
			formatReportDate(l.RequestedAt),
		})
	}
	return report, nil
}

// FunnelReport counts customers per stage, one row per stage in pipeline
// order.
func (s *reportService) FunnelReport(ctx context.Context) (*dto.Report, error) {
	report := &dto.Report{
		Headers: []string{"Stage", "Customers"},
	}
	for _, stage := range models.Stages {
		count, err := s.store.CountCustomersByStage(ctx, stage)
		if err != nil {
			return nil, err
		}
		report.Rows = append(report.Rows, []string{string(stage), strconv.Itoa(count)})
	}
	return report, nil
}

func formatReportDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(reportDateLayout)
}

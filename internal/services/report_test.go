package services

import (
	"context"
	"testing"
	"time"

	"github.com/souzacred/crm-backend/internal/models"
	"github.com/souzacred/crm-backend/pkg/helpers"
)

type stubReportStore struct {
	customers []models.Customer
	loans     []models.Loan
	byStage   map[models.Stage]int
}

func (s *stubReportStore) RecentCustomers(_ context.Context, limit int) ([]models.Customer, error) {
	return s.customers, nil
}

func (s *stubReportStore) RecentLoans(_ context.Context, limit int) ([]models.Loan, error) {
	return s.loans, nil
}

func (s *stubReportStore) CountCustomersByStage(_ context.Context, stage models.Stage) (int, error) {
	return s.byStage[stage], nil
}

func TestCustomersReport(t *testing.T) {
	store := &stubReportStore{customers: []models.Customer{
		{FullName: "Maria Souza", CPF: "52998224725", Phone: "21998765432", Stage: models.StageNegotiation,
			CreatedAt: time.Date(2026, time.July, 3, 10, 0, 0, 0, time.UTC)},
	}}
	svc := NewReportService(store)

	rep, err := svc.CustomersReport(helpers.TestCtx())
	if err != nil {
		t.Fatalf("CustomersReport returned error: %v", err)
	}
	if len(rep.Headers) != 5 || len(rep.Rows) != 1 {
		t.Fatalf("unexpected report shape: %+v", rep)
	}
	row := rep.Rows[0]
	if row[0] != "Maria Souza" || row[3] != "negociacao" || row[4] != "2026-07-03" {
		t.Fatalf("unexpected row: %v", row)
	}
}

func TestLoansReportFormatsNumbers(t *testing.T) {
	store := &stubReportStore{loans: []models.Loan{
		{CustomerName: "Maria Souza", Amount: 15000.5, TermMonths: 24, InterestRate: 0.016,
			Status: models.LoanStatusActive, RequestedAt: time.Date(2026, time.June, 12, 0, 0, 0, 0, time.UTC)},
		{CustomerName: "Carlos Lima", Amount: 8000, TermMonths: 12, InterestRate: 0.02,
			Status: models.LoanStatusDenied},
	}}
	svc := NewReportService(store)

	rep, err := svc.LoansReport(helpers.TestCtx())
	if err != nil {
		t.Fatalf("LoansReport returned error: %v", err)
	}
	if len(rep.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rep.Rows))
	}
	if rep.Rows[0][1] != "15000.50" || rep.Rows[0][3] != "0.0160" {
		t.Fatalf("number formatting wrong: %v", rep.Rows[0])
	}
	if rep.Rows[1][5] != "" {
		t.Fatalf("zero request date must render empty, got %q", rep.Rows[1][5])
	}
}

func TestFunnelReportCoversEveryStageInOrder(t *testing.T) {
	store := &stubReportStore{byStage: map[models.Stage]int{
		models.StageOpportunity: 4,
		models.StageClosedWon:   2,
	}}
	svc := NewReportService(store)

	rep, err := svc.FunnelReport(helpers.TestCtx())
	if err != nil {
		t.Fatalf("FunnelReport returned error: %v", err)
	}
	if len(rep.Rows) != len(models.Stages) {
		t.Fatalf("got %d rows, want %d", len(rep.Rows), len(models.Stages))
	}
	for i, stage := range models.Stages {
		if rep.Rows[i][0] != string(stage) {
			t.Fatalf("row %d is %q, want %q", i, rep.Rows[i][0], stage)
		}
	}
	if rep.Rows[0][1] != "4" || rep.Rows[4][1] != "2" {
		t.Fatalf("counts wrong: %v", rep.Rows)
	}
}

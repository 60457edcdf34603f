package services

import (
	"context"
	"errors"
	"testing"

	"github.com/souzacred/crm-backend/internal/dto"
	"github.com/souzacred/crm-backend/internal/errs"
	"github.com/souzacred/crm-backend/internal/models"
	"github.com/souzacred/crm-backend/pkg/helpers"
)

// 52998224725 and 11144477735 satisfy the CPF check digits.
const (
	testCPF  = "529.982.247-25"
	testCPF2 = "111.444.777-35"
)

type stubCustomerStore struct {
	customer    *models.Customer
	created     *models.Customer
	transition  *models.StageTransition
	fields      map[string]any
	cpfExists   bool
	byName      []models.Customer
	byCPF       []models.Customer
	byPhone     []models.Customer
	purged      []string
	deletedID   string
	err         error
	getErr      error
	purgeCounts map[string]int
}

func (s *stubCustomerStore) CreateCustomer(_ context.Context, c *models.Customer) error {
	s.created = c
	return s.err
}

func (s *stubCustomerStore) GetCustomer(_ context.Context, id string) (*models.Customer, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.customer == nil {
		return nil, errs.NewNotFoundError("customer not found")
	}
	return s.customer, nil
}

func (s *stubCustomerStore) UpdateCustomer(_ context.Context, id string, fields map[string]any) error {
	s.fields = fields
	return s.err
}

func (s *stubCustomerStore) AppendTransition(_ context.Context, id string, tr models.StageTransition) error {
	s.transition = &tr
	return s.err
}

func (s *stubCustomerStore) ExistsByCPF(_ context.Context, cpf string) (bool, error) {
	return s.cpfExists, nil
}

func (s *stubCustomerStore) List(_ context.Context, _ dto.CustomerFilters, req dto.PageRequest) (dto.Paginated[models.Customer], error) {
	return dto.Paginated[models.Customer]{Meta: dto.PageMeta{PageSize: req.PageSize, Page: req.Page}}, s.err
}

func (s *stubCustomerStore) SearchByNamePrefix(_ context.Context, prefix string, limit int) ([]models.Customer, error) {
	return s.byName, nil
}

func (s *stubCustomerStore) FindByCPF(_ context.Context, cpf string, limit int) ([]models.Customer, error) {
	return s.byCPF, nil
}

func (s *stubCustomerStore) FindByPhone(_ context.Context, phone string, limit int) ([]models.Customer, error) {
	return s.byPhone, nil
}

func (s *stubCustomerStore) PurgeSubcollection(_ context.Context, customerID, name string) (int, error) {
	s.purged = append(s.purged, name)
	return s.purgeCounts[name], nil
}

func (s *stubCustomerStore) DeleteCustomer(_ context.Context, id string) error {
	s.deletedID = id
	return s.err
}

type stubLoanStore struct {
	page dto.Paginated[models.Loan]
	err  error
}

func (s *stubLoanStore) ListForCustomer(_ context.Context, customerID string, req dto.PageRequest) (dto.Paginated[models.Loan], error) {
	return s.page, s.err
}

type stubActivityRecorder struct {
	recorded []*models.Activity
	err      error
}

func (s *stubActivityRecorder) Record(_ context.Context, a *models.Activity) error {
	s.recorded = append(s.recorded, a)
	return s.err
}

func newCustomerService(store *stubCustomerStore) (*customerService, *stubActivityRecorder) {
	activity := &stubActivityRecorder{}
	return NewCustomerService(store, &stubLoanStore{}, activity, 10), activity
}

func TestCreateCustomerNormalizesAndStartsAtOpportunity(t *testing.T) {
	store := &stubCustomerStore{}
	svc, activity := newCustomerService(store)

	res, err := svc.CreateCustomer(helpers.TestCtx(), "uid-1", dto.CreateCustomerRequest{
		FullName: "Maria Souza",
		CPF:      testCPF,
		Phone:    "(21) 99876-5432",
	})
	if err != nil {
		t.Fatalf("CreateCustomer returned error: %v", err)
	}
	if res.ID == "" {
		t.Fatalf("response has empty id")
	}

	c := store.created
	if c == nil {
		t.Fatalf("store never received the customer")
	}
	if c.CPF != "52998224725" {
		t.Fatalf("cpf not normalized: %q", c.CPF)
	}
	if c.Phone != "21998765432" {
		t.Fatalf("phone not normalized: %q", c.Phone)
	}
	if c.WhatsappPhone != c.Phone {
		t.Fatalf("whatsapp did not default to phone: %q", c.WhatsappPhone)
	}
	if c.Stage != models.StageOpportunity {
		t.Fatalf("new customer starts at %q, want %q", c.Stage, models.StageOpportunity)
	}
	if c.CreatedBy != "uid-1" {
		t.Fatalf("createdBy = %q, want uid-1", c.CreatedBy)
	}
	if len(activity.recorded) != 1 {
		t.Fatalf("recorded %d activities, want 1", len(activity.recorded))
	}
}

func TestCreateCustomerRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		req  dto.CreateCustomerRequest
	}{
		{"missing name", dto.CreateCustomerRequest{CPF: testCPF}},
		{"missing cpf", dto.CreateCustomerRequest{FullName: "Maria"}},
		{"bad check digits", dto.CreateCustomerRequest{FullName: "Maria", CPF: "529.982.247-26"}},
		{"all equal digits", dto.CreateCustomerRequest{FullName: "Maria", CPF: "111.111.111-11"}},
		{"bad phone", dto.CreateCustomerRequest{FullName: "Maria", CPF: testCPF, Phone: "123"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newCustomerService(&stubCustomerStore{})
			_, err := svc.CreateCustomer(helpers.TestCtx(), "uid-1", tc.req)
			var ve *errs.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestCreateCustomerDuplicateCPF(t *testing.T) {
	svc, _ := newCustomerService(&stubCustomerStore{cpfExists: true})

	_, err := svc.CreateCustomer(helpers.TestCtx(), "uid-1", dto.CreateCustomerRequest{
		FullName: "Maria Souza",
		CPF:      testCPF,
	})
	var ae *errs.AlreadyExistsError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AlreadyExistsError, got %v", err)
	}
}

func TestCreateCustomerActivityFailureDoesNotFail(t *testing.T) {
	store := &stubCustomerStore{}
	activity := &stubActivityRecorder{err: errors.New("feed down")}
	svc := NewCustomerService(store, &stubLoanStore{}, activity, 10)

	_, err := svc.CreateCustomer(helpers.TestCtx(), "uid-1", dto.CreateCustomerRequest{
		FullName: "Maria Souza",
		CPF:      testCPF,
	})
	if err != nil {
		t.Fatalf("activity failure leaked into the operation: %v", err)
	}
}

func TestMoveStageSameStageIsNoOp(t *testing.T) {
	store := &stubCustomerStore{customer: &models.Customer{ID: "c1", Stage: models.StageNegotiation}}
	svc, activity := newCustomerService(store)

	res, err := svc.MoveStage(helpers.TestCtx(), "uid-1", "c1", models.StageNegotiation)
	if err != nil {
		t.Fatalf("MoveStage returned error: %v", err)
	}
	if res.Changed {
		t.Fatalf("same-stage move reported Changed=true")
	}
	if store.transition != nil {
		t.Fatalf("same-stage move wrote a history entry: %+v", store.transition)
	}
	if len(activity.recorded) != 0 {
		t.Fatalf("same-stage move recorded activity")
	}
}

func TestMoveStageWritesTransition(t *testing.T) {
	store := &stubCustomerStore{customer: &models.Customer{ID: "c1", Stage: models.StageOpportunity}}
	svc, _ := newCustomerService(store)

	res, err := svc.MoveStage(helpers.TestCtx(), "uid-1", "c1", models.StageClosedWon)
	if err != nil {
		t.Fatalf("MoveStage returned error: %v", err)
	}
	if !res.Changed {
		t.Fatalf("move reported Changed=false")
	}
	if res.PreviousStage != models.StageOpportunity || res.Stage != models.StageClosedWon {
		t.Fatalf("unexpected response: %+v", res)
	}

	tr := store.transition
	if tr == nil {
		t.Fatalf("no history entry written")
	}
	if tr.From != models.StageOpportunity || tr.To != models.StageClosedWon {
		t.Fatalf("unexpected transition: %+v", tr)
	}
	if tr.By != "uid-1" || tr.At.IsZero() {
		t.Fatalf("transition missing actor or timestamp: %+v", tr)
	}
}

func TestMoveStageInvalidStage(t *testing.T) {
	store := &stubCustomerStore{customer: &models.Customer{ID: "c1", Stage: models.StageOpportunity}}
	svc, _ := newCustomerService(store)

	_, err := svc.MoveStage(helpers.TestCtx(), "uid-1", "c1", "ganho")
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if store.transition != nil {
		t.Fatalf("invalid stage wrote a history entry")
	}
}

func TestSearchCustomersDeduplicates(t *testing.T) {
	shared := models.Customer{ID: "c1", FullName: "Maria Souza", CPF: "52998224725"}
	store := &stubCustomerStore{
		byName: []models.Customer{shared, {ID: "c2", FullName: "Mariana Lima"}},
		byCPF:  []models.Customer{shared},
	}
	svc, _ := newCustomerService(store)

	results, err := svc.SearchCustomers(helpers.TestCtx(), "529")
	if err != nil {
		t.Fatalf("SearchCustomers returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.Customer.ID == "c1" && r.MatchedBy != dto.MatchCPF {
			t.Fatalf("duplicate match kept reason %q, want %q", r.MatchedBy, dto.MatchCPF)
		}
	}
}

func TestSearchCustomersSkipsExactLookupsWithoutDigits(t *testing.T) {
	store := &stubCustomerStore{
		byName: []models.Customer{{ID: "c1", FullName: "Maria"}},
		byCPF:  []models.Customer{{ID: "c9"}},
	}
	svc, _ := newCustomerService(store)

	results, err := svc.SearchCustomers(helpers.TestCtx(), "Maria")
	if err != nil {
		t.Fatalf("SearchCustomers returned error: %v", err)
	}
	if len(results) != 1 || results[0].MatchedBy != dto.MatchName {
		t.Fatalf("expected only the name match, got %+v", results)
	}
}

func TestSearchCustomersEmptyTerm(t *testing.T) {
	svc, _ := newCustomerService(&stubCustomerStore{})
	_, err := svc.SearchCustomers(helpers.TestCtx(), "")
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUpdateCustomerNoFields(t *testing.T) {
	svc, _ := newCustomerService(&stubCustomerStore{customer: &models.Customer{ID: "c1"}})
	err := svc.UpdateCustomer(helpers.TestCtx(), "uid-1", "c1", dto.UpdateCustomerRequest{})
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUpdateCustomerBuildsFieldMap(t *testing.T) {
	store := &stubCustomerStore{customer: &models.Customer{ID: "c1"}}
	svc, _ := newCustomerService(store)

	err := svc.UpdateCustomer(helpers.TestCtx(), "uid-1", "c1", dto.UpdateCustomerRequest{
		FullName:    helpers.Ptr("Maria S. Souza"),
		CPF:         helpers.Ptr(testCPF2),
		Prospecting: helpers.Ptr(true),
	})
	if err != nil {
		t.Fatalf("UpdateCustomer returned error: %v", err)
	}

	if store.fields["fullName"] != "Maria S. Souza" {
		t.Fatalf("fullName not set: %+v", store.fields)
	}
	if store.fields["cpf"] != "11144477735" {
		t.Fatalf("cpf not normalized: %+v", store.fields)
	}
	if store.fields["prospecting"] != true {
		t.Fatalf("prospecting not set: %+v", store.fields)
	}
	if store.fields["updatedBy"] != "uid-1" {
		t.Fatalf("updatedBy not stamped: %+v", store.fields)
	}
	if _, ok := store.fields["phone"]; ok {
		t.Fatalf("untouched field leaked into the update: %+v", store.fields)
	}
}

func TestDeleteCustomerPurgesSubcollectionsFirst(t *testing.T) {
	store := &stubCustomerStore{
		customer:    &models.Customer{ID: "c1"},
		purgeCounts: map[string]int{"loans": 3, "documents": 7},
	}
	svc, _ := newCustomerService(store)

	res, err := svc.DeleteCustomer(helpers.TestCtx(), "uid-1", "c1")
	if err != nil {
		t.Fatalf("DeleteCustomer returned error: %v", err)
	}
	if len(store.purged) != 2 || store.purged[0] != "loans" || store.purged[1] != "documents" {
		t.Fatalf("purge order wrong: %v", store.purged)
	}
	if store.deletedID != "c1" {
		t.Fatalf("parent document not deleted")
	}
	if res.LoansDeleted != 3 || res.DocumentsDeleted != 7 {
		t.Fatalf("unexpected counts: %+v", res)
	}
}

func TestDeleteCustomerMissing(t *testing.T) {
	svc, _ := newCustomerService(&stubCustomerStore{})
	_, err := svc.DeleteCustomer(helpers.TestCtx(), "uid-1", "missing")
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestListCustomersInvalidStageFilter(t *testing.T) {
	svc, _ := newCustomerService(&stubCustomerStore{})
	_, err := svc.ListCustomers(helpers.TestCtx(), dto.CustomerFilters{Stage: "ganho"}, dto.PageRequest{})
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestListCustomersAppliesDefaultPageSize(t *testing.T) {
	store := &stubCustomerStore{}
	svc, _ := newCustomerService(store)

	page, err := svc.ListCustomers(helpers.TestCtx(), dto.CustomerFilters{}, dto.PageRequest{})
	if err != nil {
		t.Fatalf("ListCustomers returned error: %v", err)
	}
	if page.Meta.PageSize != 10 {
		t.Fatalf("default page size not applied: %d", page.Meta.PageSize)
	}
}

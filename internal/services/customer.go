package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/souzacred/crm-backend/internal/dto"
	"github.com/souzacred/crm-backend/internal/errs"
	"github.com/souzacred/crm-backend/internal/models"
	"github.com/souzacred/crm-backend/pkg/logger"
)

const (
	searchNameLimit  = 10
	searchExactLimit = 5
)

// customerCSStore is the Firestore storage interface for customers.
type customerCSStore interface {
	CreateCustomer(ctx context.Context, c *models.Customer) error
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id string, fields map[string]any) error
	AppendTransition(ctx context.Context, id string, tr models.StageTransition) error
	ExistsByCPF(ctx context.Context, cpf string) (bool, error)
	List(ctx context.Context, filters dto.CustomerFilters, req dto.PageRequest) (dto.Paginated[models.Customer], error)
	SearchByNamePrefix(ctx context.Context, prefix string, limit int) ([]models.Customer, error)
	FindByCPF(ctx context.Context, cpf string, limit int) ([]models.Customer, error)
	FindByPhone(ctx context.Context, phone string, limit int) ([]models.Customer, error)
	PurgeSubcollection(ctx context.Context, customerID, name string) (int, error)
	DeleteCustomer(ctx context.Context, id string) error
}

type customerLoanStore interface {
	ListForCustomer(ctx context.Context, customerID string, req dto.PageRequest) (dto.Paginated[models.Loan], error)
}

type activityRecorder interface {
	Record(ctx context.Context, a *models.Activity) error
}

type customerService struct {
	store           customerCSStore
	loans           customerLoanStore
	activity        activityRecorder
	defaultPageSize int
}

func NewCustomerService(store customerCSStore, loans customerLoanStore, activity activityRecorder, defaultPageSize int) *customerService {
	return &customerService{
		store:           store,
		loans:           loans,
		activity:        activity,
		defaultPageSize: defaultPageSize,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, actorUID string, req dto.CreateCustomerRequest) (*dto.CreateCustomerResponse, error) {
	log := logger.FromContext(ctx)

	if req.FullName == "" {
		return nil, errs.NewValidationError("fullName is required")
	}
	if req.CPF == "" {
		return nil, errs.NewValidationError("cpf is required")
	}

	cpf := digitsOnly(req.CPF)
	if !validCPF(cpf) {
		return nil, errs.NewValidationError("invalid cpf")
	}

	phone := digitsOnly(req.Phone)
	if phone != "" && !validPhone(phone) {
		return nil, errs.NewValidationError("invalid phone")
	}

	exists, err := s.store.ExistsByCPF(ctx, cpf)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.NewAlreadyExistsError("a customer with this cpf already exists")
	}

	whatsapp := digitsOnly(req.WhatsappPhone)
	if whatsapp == "" {
		whatsapp = phone
	}

	now := time.Now()
	c := &models.Customer{
		ID:            uuid.New().String(),
		FullName:      req.FullName,
		CPF:           cpf,
		Phone:         phone,
		WhatsappPhone: whatsapp,
		Address:       req.Address,
		BenefitNumber: req.BenefitNumber,

		// Every customer enters the funnel at the first stage.
		Stage:          models.StageOpportunity,
		Prospecting:    false,
		PercentPaid:    0,
		LastTermUpdate: now,

		CreatedAt: now,
		CreatedBy: actorUID,
		UpdatedAt: now,
	}

	if err := s.store.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}

	log.Info("customer created", "customer_id", c.ID, "full_name", c.FullName)
	s.recordActivity(ctx, "customer_created", fmt.Sprintf("customer %s created", c.FullName), c.ID, actorUID)

	return &dto.CreateCustomerResponse{ID: c.ID}, nil
}

func (s *customerService) ListCustomers(ctx context.Context, filters dto.CustomerFilters, req dto.PageRequest) (dto.Paginated[models.Customer], error) {
	var out dto.Paginated[models.Customer]

	if filters.Stage != "" && !filters.Stage.Valid() {
		return out, errs.NewValidationError(fmt.Sprintf("invalid stage %q", filters.Stage))
	}
	if err := req.Validate(); err != nil {
		return out, err
	}
	return s.store.List(ctx, filters, req.Normalize(s.defaultPageSize))
}

// SearchCustomers unions a prefix match on name with exact matches on the
// normalized cpf and phone. Duplicates collapse onto one result; when a
// customer matches more than one way, the last reason wins (phone over cpf
// over name).
func (s *customerService) SearchCustomers(ctx context.Context, term string) ([]dto.SearchResult, error) {
	if term == "" {
		return nil, errs.NewValidationError("search term is required")
	}

	byName, err := s.store.SearchByNamePrefix(ctx, term, searchNameLimit)
	if err != nil {
		return nil, err
	}

	results := make([]dto.SearchResult, 0, len(byName))
	index := make(map[string]int)

	add := func(customers []models.Customer, matchedBy string) {
		for _, c := range customers {
			if i, seen := index[c.ID]; seen {
				results[i].MatchedBy = matchedBy
				continue
			}
			index[c.ID] = len(results)
			results = append(results, dto.SearchResult{Customer: c, MatchedBy: matchedBy})
		}
	}
	add(byName, dto.MatchName)

	if digits := digitsOnly(term); digits != "" {
		byCPF, err := s.store.FindByCPF(ctx, digits, searchExactLimit)
		if err != nil {
			return nil, err
		}
		add(byCPF, dto.MatchCPF)

		byPhone, err := s.store.FindByPhone(ctx, digits, searchExactLimit)
		if err != nil {
			return nil, err
		}
		add(byPhone, dto.MatchPhone)
	}

	return results, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	if id == "" {
		return nil, errs.NewValidationError("customerId is required")
	}
	return s.store.GetCustomer(ctx, id)
}

// GetCustomerDetails returns the customer together with the first page of its
// loans; the transition history rides along on the customer document.
func (s *customerService) GetCustomerDetails(ctx context.Context, id string, loanReq dto.PageRequest) (*dto.CustomerWithLoans, error) {
	if id == "" {
		return nil, errs.NewValidationError("customerId is required")
	}
	if err := loanReq.Validate(); err != nil {
		return nil, err
	}

	c, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	loans, err := s.loans.ListForCustomer(ctx, id, loanReq.Normalize(s.defaultPageSize))
	if err != nil {
		return nil, err
	}

	return &dto.CustomerWithLoans{
		Customer:  *c,
		Loans:     loans.Items,
		LoansMeta: loans.Meta,
	}, nil
}

func (s *customerService) ListCustomerLoans(ctx context.Context, customerID string, req dto.PageRequest) (dto.Paginated[models.Loan], error) {
	var out dto.Paginated[models.Loan]

	if customerID == "" {
		return out, errs.NewValidationError("customerId is required")
	}
	if err := req.Validate(); err != nil {
		return out, err
	}
	if _, err := s.store.GetCustomer(ctx, customerID); err != nil {
		return out, err
	}
	return s.loans.ListForCustomer(ctx, customerID, req.Normalize(s.defaultPageSize))
}

func (s *customerService) UpdateCustomer(ctx context.Context, actorUID, id string, req dto.UpdateCustomerRequest) error {
	log := logger.FromContext(ctx)

	if id == "" {
		return errs.NewValidationError("customerId is required")
	}

	fields := make(map[string]any)
	if req.FullName != nil {
		if *req.FullName == "" {
			return errs.NewValidationError("fullName cannot be empty")
		}
		fields["fullName"] = *req.FullName
	}
	if req.CPF != nil {
		cpf := digitsOnly(*req.CPF)
		if !validCPF(cpf) {
			return errs.NewValidationError("invalid cpf")
		}
		fields["cpf"] = cpf
	}
	if req.Phone != nil {
		phone := digitsOnly(*req.Phone)
		if phone != "" && !validPhone(phone) {
			return errs.NewValidationError("invalid phone")
		}
		fields["phone"] = phone
	}
	if req.WhatsappPhone != nil {
		fields["whatsappPhone"] = digitsOnly(*req.WhatsappPhone)
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.BenefitNumber != nil {
		fields["benefitNumber"] = *req.BenefitNumber
	}
	if req.LoanBank != nil {
		fields["loanBank"] = *req.LoanBank
	}
	if req.Prospecting != nil {
		fields["prospecting"] = *req.Prospecting
	}

	if len(fields) == 0 {
		return errs.NewValidationError("no fields to update")
	}

	fields["updatedAt"] = time.Now()
	fields["updatedBy"] = actorUID

	if _, err := s.store.GetCustomer(ctx, id); err != nil {
		return err
	}
	if err := s.store.UpdateCustomer(ctx, id, fields); err != nil {
		return err
	}

	log.Info("customer updated", "customer_id", id, "fields", len(fields))
	return nil
}

// DeleteCustomer purges the customer's owned subcollections in bounded
// batches, then removes the parent document. The parent goes last so a failed
// purge leaves the customer discoverable for a retry.
func (s *customerService) DeleteCustomer(ctx context.Context, actorUID, id string) (*dto.DeleteCustomerResponse, error) {
	log := logger.FromContext(ctx)

	if id == "" {
		return nil, errs.NewValidationError("customerId is required")
	}
	if _, err := s.store.GetCustomer(ctx, id); err != nil {
		return nil, err
	}

	loansDeleted, err := s.store.PurgeSubcollection(ctx, id, "loans")
	if err != nil {
		return nil, err
	}
	docsDeleted, err := s.store.PurgeSubcollection(ctx, id, "documents")
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteCustomer(ctx, id); err != nil {
		return nil, err
	}

	log.Info("customer deleted",
		"customer_id", id,
		"loans_deleted", loansDeleted,
		"documents_deleted", docsDeleted)
	s.recordActivity(ctx, "customer_deleted", fmt.Sprintf("customer %s deleted", id), id, actorUID)

	return &dto.DeleteCustomerResponse{
		CustomerID:       id,
		LoansDeleted:     loansDeleted,
		DocumentsDeleted: docsDeleted,
	}, nil
}

// MoveStage transitions the customer to newStage. Moving to the stage the
// customer is already in is a successful no-op and writes no history entry;
// any other valid stage is reachable from any stage. Concurrent moves on the
// same customer are last-write-wins at the store.
func (s *customerService) MoveStage(ctx context.Context, actorUID, id string, newStage models.Stage) (*dto.MoveStageResponse, error) {
	log := logger.FromContext(ctx)

	if id == "" {
		return nil, errs.NewValidationError("customerId is required")
	}
	if !newStage.Valid() {
		return nil, errs.NewValidationError(fmt.Sprintf("invalid stage %q", newStage))
	}

	c, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.Stage == newStage {
		return &dto.MoveStageResponse{
			CustomerID:    id,
			PreviousStage: c.Stage,
			Stage:         c.Stage,
			Changed:       false,
		}, nil
	}

	tr := models.StageTransition{
		From: c.Stage,
		To:   newStage,
		At:   time.Now(),
		By:   actorUID,
	}
	if err := s.store.AppendTransition(ctx, id, tr); err != nil {
		return nil, err
	}

	log.Info("customer moved in funnel",
		"customer_id", id,
		"from", tr.From,
		"to", tr.To)
	s.recordActivity(ctx, "stage_moved",
		fmt.Sprintf("customer %s moved %s -> %s", id, tr.From, tr.To), id, actorUID)

	return &dto.MoveStageResponse{
		CustomerID:    id,
		PreviousStage: tr.From,
		Stage:         tr.To,
		Changed:       true,
	}, nil
}

// recordActivity feeds the dashboard activity stream. Failures are logged and
// dropped; the feed is not worth failing the main operation over.
func (s *customerService) recordActivity(ctx context.Context, kind, message, customerID, actorUID string) {
	a := &models.Activity{
		ID:         uuid.New().String(),
		Kind:       kind,
		Message:    message,
		CustomerID: customerID,
		ActorUID:   actorUID,
		At:         time.Now(),
	}
	if err := s.activity.Record(ctx, a); err != nil {
		logger.FromContext(ctx).Warn("failed to record activity", "kind", kind, "error", err)
	}
}

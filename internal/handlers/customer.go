package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/souzacred/crm-backend/internal/access"
	"github.com/souzacred/crm-backend/internal/dto"
	"github.com/souzacred/crm-backend/internal/errs"
	"github.com/souzacred/crm-backend/internal/middleware"
	"github.com/souzacred/crm-backend/internal/models"
	"github.com/souzacred/crm-backend/internal/response"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, actorUID string, req dto.CreateCustomerRequest) (*dto.CreateCustomerResponse, error)
	ListCustomers(ctx context.Context, filters dto.CustomerFilters, req dto.PageRequest) (dto.Paginated[models.Customer], error)
	SearchCustomers(ctx context.Context, term string) ([]dto.SearchResult, error)
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	GetCustomerDetails(ctx context.Context, id string, loanReq dto.PageRequest) (*dto.CustomerWithLoans, error)
	ListCustomerLoans(ctx context.Context, customerID string, req dto.PageRequest) (dto.Paginated[models.Loan], error)
	UpdateCustomer(ctx context.Context, actorUID, id string, req dto.UpdateCustomerRequest) error
	DeleteCustomer(ctx context.Context, actorUID, id string) (*dto.DeleteCustomerResponse, error)
	MoveStage(ctx context.Context, actorUID, id string, newStage models.Stage) (*dto.MoveStageResponse, error)
}

type customerHandlers struct {
	ResponseHandler response.ResponseHandler
	Gate            AccessGate
	CustomerSvc     CustomerService
}

func NewCustomerHandlers(deps *Deps) *customerHandlers {
	return &customerHandlers{
		ResponseHandler: deps.ResponseHandler,
		Gate:            deps.Gate,
		CustomerSvc:     deps.CustomerSvc,
	}
}

func (h *customerHandlers) CustomerRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateCustomer)
	r.Get("/", h.ListCustomers)
	r.Get("/search", h.SearchCustomers) // must be before /{customerId}
	r.Get("/{customerId}", h.GetCustomer)
	r.Get("/{customerId}/details", h.GetCustomerDetails)
	r.Get("/{customerId}/loans", h.ListCustomerLoans)
	r.Put("/{customerId}", h.UpdateCustomer)
	r.Delete("/{customerId}", h.DeleteCustomer)
	r.Post("/{customerId}/stage", h.MoveStage)
	return r
}

func (h *customerHandlers) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Require(r.Context(), uid, access.OpAddCustomer); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	customer, err := h.CustomerSvc.CreateCustomer(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, customer)
}

func (h *customerHandlers) ListCustomers(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Require(r.Context(), uid, access.OpListCustomers); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	req, err := pageRequest(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	filters := dto.CustomerFilters{
		Stage:    models.Stage(r.URL.Query().Get("stage")),
		LoanBank: r.URL.Query().Get("loanBank"),
	}
	if filters.Prospecting, err = boolParam(r, "prospecting"); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if filters.RecurrenceAlert, err = boolParam(r, "recurrenceAlert"); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	page, err := h.CustomerSvc.ListCustomers(r.Context(), filters, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, page)
}

func (h *customerHandlers) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Require(r.Context(), uid, access.OpSearchCustomers); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	results, err := h.CustomerSvc.SearchCustomers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, results)
}

func (h *customerHandlers) GetCustomer(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Require(r.Context(), uid, access.OpGetCustomer); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	customer, err := h.CustomerSvc.GetCustomer(r.Context(), chi.URLParam(r, "customerId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, customer)
}

func (h *customerHandlers) GetCustomerDetails(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Require(r.Context(), uid, access.OpGetCustomer); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	req, err := pageRequest(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	details, err := h.CustomerSvc.GetCustomerDetails(r.Context(), chi.URLParam(r, "customerId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, details)
}

func (h *customerHandlers) ListCustomerLoans(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Require(r.Context(), uid, access.OpListLoans); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	req, err := pageRequest(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	loans, err := h.CustomerSvc.ListCustomerLoans(r.Context(), chi.URLParam(r, "customerId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, loans)
}

func (h *customerHandlers) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Require(r.Context(), uid, access.OpUpdateCustomer); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if err := h.CustomerSvc.UpdateCustomer(r.Context(), uid, chi.URLParam(r, "customerId"), req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *customerHandlers) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Require(r.Context(), uid, access.OpDeleteCustomer); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	res, err := h.CustomerSvc.DeleteCustomer(r.Context(), uid, chi.URLParam(r, "customerId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

func (h *customerHandlers) MoveStage(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Require(r.Context(), uid, access.OpMoveStage); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.MoveStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	res, err := h.CustomerSvc.MoveStage(r.Context(), uid, chi.URLParam(r, "customerId"), req.Stage)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

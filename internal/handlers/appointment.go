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

type AppointmentService interface {
	CreateAppointment(ctx context.Context, actorUID string, req dto.CreateAppointmentRequest) (*dto.CreateAppointmentResponse, error)
	ListForCustomer(ctx context.Context, filters dto.AppointmentFilters, req dto.PageRequest) (dto.Paginated[models.Appointment], error)
}

type appointmentHandlers struct {
	ResponseHandler response.ResponseHandler
	Gate            AccessGate
	AppointmentSvc  AppointmentService
}

func NewAppointmentHandlers(deps *Deps) *appointmentHandlers {
	return &appointmentHandlers{
		ResponseHandler: deps.ResponseHandler,
		Gate:            deps.Gate,
		AppointmentSvc:  deps.AppointmentSvc,
	}
}

func (h *appointmentHandlers) AppointmentRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateAppointment)
	r.Get("/", h.ListForCustomer)
	return r
}

func (h *appointmentHandlers) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Require(r.Context(), uid, access.OpCreateAppointment); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	res, err := h.AppointmentSvc.CreateAppointment(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, res)
}

func (h *appointmentHandlers) ListForCustomer(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Require(r.Context(), uid, access.OpListAppointments); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	req, err := pageRequest(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	filters := dto.AppointmentFilters{CustomerID: r.URL.Query().Get("customerId")}
	if done, err := boolParam(r, "includeDone"); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	} else if done != nil {
		filters.IncludeDone = *done
	}
	page, err := h.AppointmentSvc.ListForCustomer(r.Context(), filters, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, page)
}

package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/souzacred/crm-backend/internal/access"
	"github.com/souzacred/crm-backend/internal/dto"
	"github.com/souzacred/crm-backend/internal/errs"
	"github.com/souzacred/crm-backend/internal/middleware"
	"github.com/souzacred/crm-backend/internal/models"
	"github.com/souzacred/crm-backend/internal/response"
)

type DashboardService interface {
	GetMetrics(ctx context.Context) (*dto.Metrics, error)
	GetPerformance(ctx context.Context, req dto.PerformanceRequest) (*dto.Performance, error)
	GetRecentActivity(ctx context.Context) ([]models.Activity, error)
}

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	Gate            AccessGate
	DashboardSvc    DashboardService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		Gate:            deps.Gate,
		DashboardSvc:    deps.DashboardSvc,
	}
}

func (h *dashboardHandlers) DashboardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/metrics", h.GetMetrics)
	r.Get("/performance", h.GetPerformance)
	r.Get("/activity", h.GetRecentActivity)
	return r
}

func (h *dashboardHandlers) GetMetrics(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Require(r.Context(), uid, access.OpDashboard); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	metrics, err := h.DashboardSvc.GetMetrics(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, metrics)
}

func (h *dashboardHandlers) GetPerformance(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Require(r.Context(), uid, access.OpDashboard); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.PerformanceRequest
	if v := r.URL.Query().Get("periodDays"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 1 {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("periodDays must be a positive integer"))
			return
		}
		req.PeriodDays = days
	}
	perf, err := h.DashboardSvc.GetPerformance(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, perf)
}

func (h *dashboardHandlers) GetRecentActivity(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Require(r.Context(), uid, access.OpDashboard); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	feed, err := h.DashboardSvc.GetRecentActivity(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, feed)
}

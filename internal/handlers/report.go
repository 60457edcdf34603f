package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/souzacred/crm-backend/internal/access"
	"github.com/souzacred/crm-backend/internal/dto"
	"github.com/souzacred/crm-backend/internal/middleware"
	"github.com/souzacred/crm-backend/internal/response"
)

type ReportService interface {
	CustomersReport(ctx context.Context) (*dto.Report, error)
	LoansReport(ctx context.Context) (*dto.Report, error)
	FunnelReport(ctx context.Context) (*dto.Report, error)
}

type reportHandlers struct {
	ResponseHandler response.ResponseHandler
	Gate            AccessGate
	ReportSvc       ReportService
}

func NewReportHandlers(deps *Deps) *reportHandlers {
	return &reportHandlers{
		ResponseHandler: deps.ResponseHandler,
		Gate:            deps.Gate,
		ReportSvc:       deps.ReportSvc,
	}
}

func (h *reportHandlers) ReportRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/customers", h.report(h.ReportSvc.CustomersReport))
	r.Get("/loans", h.report(h.ReportSvc.LoansReport))
	r.Get("/funnel", h.report(h.ReportSvc.FunnelReport))
	return r
}

func (h *reportHandlers) report(build func(ctx context.Context) (*dto.Report, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := middleware.UID(r.Context())
		if _, err := h.Gate.Require(r.Context(), uid, access.OpReports); err != nil {
			h.ResponseHandler.HandleError(w, r, err)
			return
		}
		rep, err := build(r.Context())
		if err != nil {
			h.ResponseHandler.HandleError(w, r, err)
			return
		}
		h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, rep)
	}
}

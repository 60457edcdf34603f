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

type SettingsService interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
	UpdateSettings(ctx context.Context, settings *models.Settings) error
}

type RecalcService interface {
	Run(ctx context.Context) (*dto.RecalcResult, error)
}

// adminHandlers groups the operator surface: global settings and the manual
// trigger for the term recalculation job.
type adminHandlers struct {
	ResponseHandler response.ResponseHandler
	Gate            AccessGate
	SettingsSvc     SettingsService
	RecalcSvc       RecalcService
}

func NewAdminHandlers(deps *Deps) *adminHandlers {
	return &adminHandlers{
		ResponseHandler: deps.ResponseHandler,
		Gate:            deps.Gate,
		SettingsSvc:     deps.SettingsSvc,
		RecalcSvc:       deps.RecalcSvc,
	}
}

func (h *adminHandlers) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)
	r.Post("/recalculate-terms", h.RecalculateTerms)
	return r
}

func (h *adminHandlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Require(r.Context(), uid, access.OpSettingsRead); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	settings, err := h.SettingsSvc.GetSettings(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, settings)
}

func (h *adminHandlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Require(r.Context(), uid, access.OpSettingsWrite); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var settings models.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if err := h.SettingsSvc.UpdateSettings(r.Context(), &settings); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, settings)
}

func (h *adminHandlers) RecalculateTerms(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Require(r.Context(), uid, access.OpRecalcTerms); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	res, err := h.RecalcSvc.Run(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

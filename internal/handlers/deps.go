package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/souzacred/crm-backend/internal/access"
	"github.com/souzacred/crm-backend/internal/dto"
	"github.com/souzacred/crm-backend/internal/errs"
	"github.com/souzacred/crm-backend/internal/models"
	"github.com/souzacred/crm-backend/internal/response"
)

// AccessGate guards every operation: it resolves the caller and enforces the
// operation-to-roles table.
type AccessGate interface {
	Require(ctx context.Context, uid string, op access.Operation) (*models.User, error)
	Resolve(ctx context.Context, uid string) (*models.User, error)
}

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Gate            AccessGate

	CustomerSvc    CustomerService
	AppointmentSvc AppointmentService
	UserSvc        UserService
	DashboardSvc   DashboardService
	ReportSvc      ReportService
	SettingsSvc    SettingsService
	RecalcSvc      RecalcService
}

// pageRequest reads the pagination parameters shared by every list endpoint.
func pageRequest(r *http.Request) (dto.PageRequest, error) {
	var req dto.PageRequest

	q := r.URL.Query()
	req.Cursor = q.Get("cursor")

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return req, errs.NewValidationError("page must be a positive integer")
		}
		req.Page = page
	}
	if v := q.Get("pageSize"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 {
			return req, errs.NewValidationError("pageSize must be a positive integer")
		}
		req.PageSize = size
	}
	return req, nil
}

// boolParam parses an optional boolean query parameter; nil means absent.
func boolParam(r *http.Request, name string) (*bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, errs.NewValidationError(name + " must be true or false")
	}
	return &b, nil
}

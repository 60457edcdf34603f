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

type UserService interface {
	CreateUser(ctx context.Context, actorUID string, req dto.CreateUserRequest) (*dto.CreateUserResponse, error)
	ListUsers(ctx context.Context, req dto.PageRequest) (dto.Paginated[models.User], error)
	UpdateUser(ctx context.Context, actorUID, uid string, req dto.UpdateUserRequest) error
	GetProfile(ctx context.Context, uid string) (*dto.Profile, error)
}

type userHandlers struct {
	ResponseHandler response.ResponseHandler
	Gate            AccessGate
	UserSvc         UserService
}

func NewUserHandlers(deps *Deps) *userHandlers {
	return &userHandlers{
		ResponseHandler: deps.ResponseHandler,
		Gate:            deps.Gate,
		UserSvc:         deps.UserSvc,
	}
}

func (h *userHandlers) UserRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateUser)
	r.Get("/", h.ListUsers)
	r.Put("/{uid}", h.UpdateUser)
	return r
}

func (h *userHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Require(r.Context(), uid, access.OpManageUsers); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	res, err := h.UserSvc.CreateUser(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, res)
}

func (h *userHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Require(r.Context(), uid, access.OpManageUsers); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	req, err := pageRequest(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	page, err := h.UserSvc.ListUsers(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, page)
}

func (h *userHandlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Require(r.Context(), uid, access.OpManageUsers); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if err := h.UserSvc.UpdateUser(r.Context(), uid, chi.URLParam(r, "uid"), req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

// Profile is mounted outside the users subtree so every authenticated role can
// read its own record.
func (h *userHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if _, err := h.Gate.Resolve(r.Context(), uid); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	profile, err := h.UserSvc.GetProfile(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, profile)
}

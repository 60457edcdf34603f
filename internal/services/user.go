package services

import (
	"context"
	"fmt"
	"time"

	"github.com/souzacred/crm-backend/internal/dto"
	"github.com/souzacred/crm-backend/internal/errs"
	"github.com/souzacred/crm-backend/internal/models"
	"github.com/souzacred/crm-backend/pkg/logger"
)

type userUSStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
	UpdateUser(ctx context.Context, uid string, fields map[string]any) error
	List(ctx context.Context, req dto.PageRequest) (dto.Paginated[models.User], error)
}

// userIdentity is the auth-provider side of user management; profile documents
// and auth accounts are kept in step.
type userIdentity interface {
	CreateAccount(ctx context.Context, email, password, name string, role models.Role) (string, error)
	SetRole(ctx context.Context, uid string, role models.Role) error
	SetDisplayName(ctx context.Context, uid, name string) error
	SetDisabled(ctx context.Context, uid string, disabled bool) error
}

type masterChecker interface {
	IsMaster(email string) bool
}

type userService struct {
	store           userUSStore
	identity        userIdentity
	master          masterChecker
	defaultPageSize int
}

func NewUserService(store userUSStore, identity userIdentity, master masterChecker, defaultPageSize int) *userService {
	return &userService{
		store:           store,
		identity:        identity,
		master:          master,
		defaultPageSize: defaultPageSize,
	}
}

func (s *userService) CreateUser(ctx context.Context, actorUID string, req dto.CreateUserRequest) (*dto.CreateUserResponse, error) {
	log := logger.FromContext(ctx)

	if req.Email == "" || req.Password == "" || req.Name == "" || req.Role == "" {
		return nil, errs.NewValidationError("email, password, name and role are required")
	}
	if !req.Role.Valid() {
		return nil, errs.NewValidationError(fmt.Sprintf("invalid role %q", req.Role))
	}

	uid, err := s.identity.CreateAccount(ctx, req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		return nil, errs.NewDatabaseError("identity", "failed to create auth account", err)
	}

	now := time.Now()
	user := &models.User{
		UID:       uid,
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		Active:    true,
		CreatedAt: now,
		CreatedBy: actorUID,
		UpdatedAt: now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	log.Info("user created", "new_uid", uid, "role", req.Role)
	return &dto.CreateUserResponse{UID: uid}, nil
}

func (s *userService) ListUsers(ctx context.Context, req dto.PageRequest) (dto.Paginated[models.User], error) {
	var out dto.Paginated[models.User]

	if err := req.Validate(); err != nil {
		return out, err
	}
	return s.store.List(ctx, req.Normalize(s.defaultPageSize))
}

func (s *userService) UpdateUser(ctx context.Context, actorUID, uid string, req dto.UpdateUserRequest) error {
	log := logger.FromContext(ctx)

	if uid == "" {
		return errs.NewValidationError("uid is required")
	}
	if req.Role != nil && !req.Role.Valid() {
		return errs.NewValidationError(fmt.Sprintf("invalid role %q", *req.Role))
	}

	if _, err := s.store.GetUser(ctx, uid); err != nil {
		return err
	}

	fields := make(map[string]any)
	if req.Name != nil {
		fields["name"] = *req.Name
		if err := s.identity.SetDisplayName(ctx, uid, *req.Name); err != nil {
			return errs.NewDatabaseError("identity", "failed to update display name", err)
		}
	}
	if req.Role != nil {
		fields["role"] = *req.Role
		if err := s.identity.SetRole(ctx, uid, *req.Role); err != nil {
			return errs.NewDatabaseError("identity", "failed to update role claim", err)
		}
	}
	if req.Active != nil {
		fields["active"] = *req.Active
		if err := s.identity.SetDisabled(ctx, uid, !*req.Active); err != nil {
			return errs.NewDatabaseError("identity", "failed to update account status", err)
		}
	}

	if len(fields) == 0 {
		return errs.NewValidationError("no fields to update")
	}
	fields["updatedAt"] = time.Now()
	fields["updatedBy"] = actorUID

	if err := s.store.UpdateUser(ctx, uid, fields); err != nil {
		return err
	}

	log.Info("user updated", "target_uid", uid, "fields", len(fields))
	return nil
}

// GetProfile returns the caller's own profile. The caller has already passed
// the access gate, so a missing profile here is a plain not-found.
func (s *userService) GetProfile(ctx context.Context, uid string) (*dto.Profile, error) {
	user, err := s.store.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	return &dto.Profile{
		User:     *user,
		IsMaster: s.master.IsMaster(user.Email),
	}, nil
}

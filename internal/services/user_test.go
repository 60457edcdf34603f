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

type stubUserStore struct {
	user    *models.User
	created *models.User
	fields  map[string]any
	err     error
}

func (s *stubUserStore) CreateUser(_ context.Context, user *models.User) error {
	s.created = user
	return s.err
}

func (s *stubUserStore) GetUser(_ context.Context, uid string) (*models.User, error) {
	if s.user == nil {
		return nil, errs.NewNotFoundError("user not found")
	}
	return s.user, nil
}

func (s *stubUserStore) UpdateUser(_ context.Context, uid string, fields map[string]any) error {
	s.fields = fields
	return s.err
}

func (s *stubUserStore) List(_ context.Context, req dto.PageRequest) (dto.Paginated[models.User], error) {
	return dto.Paginated[models.User]{Meta: dto.PageMeta{PageSize: req.PageSize}}, s.err
}

type stubUserIdentity struct {
	uid          string
	createErr    error
	roleSet      *models.Role
	nameSet      string
	disabledSet  *bool
	createdEmail string
}

func (s *stubUserIdentity) CreateAccount(_ context.Context, email, password, name string, role models.Role) (string, error) {
	s.createdEmail = email
	return s.uid, s.createErr
}

func (s *stubUserIdentity) SetRole(_ context.Context, uid string, role models.Role) error {
	s.roleSet = &role
	return nil
}

func (s *stubUserIdentity) SetDisplayName(_ context.Context, uid, name string) error {
	s.nameSet = name
	return nil
}

func (s *stubUserIdentity) SetDisabled(_ context.Context, uid string, disabled bool) error {
	s.disabledSet = &disabled
	return nil
}

type stubMasterChecker struct{ master string }

func (s *stubMasterChecker) IsMaster(email string) bool { return email == s.master }

func TestUserServiceCreateUser(t *testing.T) {
	store := &stubUserStore{}
	identity := &stubUserIdentity{uid: "new-uid"}
	svc := NewUserService(store, identity, &stubMasterChecker{}, 10)

	res, err := svc.CreateUser(helpers.TestCtx(), "admin-uid", dto.CreateUserRequest{
		Email:    "vendedor@souzacred.com.br",
		Password: "s3cret!!",
		Name:     "Carlos Lima",
		Role:     models.RoleSalesperson,
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if res.UID != "new-uid" {
		t.Fatalf("uid = %q, want new-uid", res.UID)
	}

	u := store.created
	if u == nil {
		t.Fatalf("profile document never written")
	}
	if u.UID != "new-uid" || u.Role != models.RoleSalesperson || !u.Active {
		t.Fatalf("unexpected profile: %+v", u)
	}
	if u.CreatedBy != "admin-uid" {
		t.Fatalf("createdBy = %q, want admin-uid", u.CreatedBy)
	}
}

func TestUserServiceCreateUserInvalidRole(t *testing.T) {
	svc := NewUserService(&stubUserStore{}, &stubUserIdentity{}, &stubMasterChecker{}, 10)

	_, err := svc.CreateUser(helpers.TestCtx(), "admin-uid", dto.CreateUserRequest{
		Email:    "x@souzacred.com.br",
		Password: "s3cret!!",
		Name:     "X",
		Role:     "diretor",
	})
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUserServiceCreateUserAuthFailure(t *testing.T) {
	store := &stubUserStore{}
	identity := &stubUserIdentity{createErr: errors.New("email already in use")}
	svc := NewUserService(store, identity, &stubMasterChecker{}, 10)

	_, err := svc.CreateUser(helpers.TestCtx(), "admin-uid", dto.CreateUserRequest{
		Email:    "dup@souzacred.com.br",
		Password: "s3cret!!",
		Name:     "Dup",
		Role:     models.RoleSupport,
	})
	if err == nil {
		t.Fatalf("expected auth failure to propagate")
	}
	if store.created != nil {
		t.Fatalf("profile written despite auth failure")
	}
}

func TestUserServiceUpdateUserSyncsIdentity(t *testing.T) {
	store := &stubUserStore{user: &models.User{UID: "u1", Role: models.RoleSalesperson, Active: true}}
	identity := &stubUserIdentity{}
	svc := NewUserService(store, identity, &stubMasterChecker{}, 10)

	err := svc.UpdateUser(helpers.TestCtx(), "admin-uid", "u1", dto.UpdateUserRequest{
		Role:   helpers.Ptr(models.RoleManager),
		Active: helpers.Ptr(false),
	})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}

	if identity.roleSet == nil || *identity.roleSet != models.RoleManager {
		t.Fatalf("role claim not synced: %+v", identity.roleSet)
	}
	if identity.disabledSet == nil || !*identity.disabledSet {
		t.Fatalf("deactivation must disable the auth account")
	}
	if store.fields["role"] != models.RoleManager || store.fields["active"] != false {
		t.Fatalf("profile fields wrong: %+v", store.fields)
	}
	if store.fields["updatedBy"] != "admin-uid" {
		t.Fatalf("updatedBy not stamped: %+v", store.fields)
	}
}

func TestUserServiceUpdateUserNoFields(t *testing.T) {
	store := &stubUserStore{user: &models.User{UID: "u1"}}
	svc := NewUserService(store, &stubUserIdentity{}, &stubMasterChecker{}, 10)

	err := svc.UpdateUser(helpers.TestCtx(), "admin-uid", "u1", dto.UpdateUserRequest{})
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUserServiceGetProfileMarksMaster(t *testing.T) {
	store := &stubUserStore{user: &models.User{UID: "u1", Email: "boss@souzacred.com.br", Role: models.RoleAdmin}}
	svc := NewUserService(store, &stubUserIdentity{}, &stubMasterChecker{master: "boss@souzacred.com.br"}, 10)

	profile, err := svc.GetProfile(helpers.TestCtx(), "u1")
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if !profile.IsMaster {
		t.Fatalf("master identity not flagged")
	}

	store.user = &models.User{UID: "u2", Email: "other@souzacred.com.br", Role: models.RoleSupport}
	profile, err = svc.GetProfile(helpers.TestCtx(), "u2")
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if profile.IsMaster {
		t.Fatalf("non-master flagged as master")
	}
}

package access

import (
	"context"
	"errors"
	"testing"

	"github.com/souzacred/crm-backend/internal/errs"
	"github.com/souzacred/crm-backend/internal/models"
	"github.com/souzacred/crm-backend/pkg/helpers"
)

type stubGateUserStore struct {
	users   map[string]*models.User
	created *models.User
	getErr  error
}

func (s *stubGateUserStore) GetUser(_ context.Context, uid string) (*models.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if u, ok := s.users[uid]; ok {
		return u, nil
	}
	return nil, errs.NewNotFoundError("user not found")
}

func (s *stubGateUserStore) CreateUser(_ context.Context, user *models.User) error {
	s.created = user
	return nil
}

type stubIdentity struct {
	emails map[string]string
	err    error
}

func (s *stubIdentity) Email(_ context.Context, uid string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.emails[uid], nil
}

func TestGateResolveKnownUser(t *testing.T) {
	want := &models.User{UID: "u1", Role: models.RoleSalesperson, Active: true}
	gate := NewGate(&stubGateUserStore{users: map[string]*models.User{"u1": want}}, &stubIdentity{}, "boss@souzacred.com.br", "Master")

	user, err := gate.Resolve(helpers.TestCtx(), "u1")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if user != want {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestGateResolveEmptyUID(t *testing.T) {
	gate := NewGate(&stubGateUserStore{}, &stubIdentity{}, "boss@souzacred.com.br", "Master")

	_, err := gate.Resolve(helpers.TestCtx(), "")
	var ue *errs.UnauthenticatedError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnauthenticatedError, got %v", err)
	}
}

func TestGateProvisionsMasterOnFirstAccess(t *testing.T) {
	store := &stubGateUserStore{}
	identity := &stubIdentity{emails: map[string]string{"master-uid": "boss@souzacred.com.br"}}
	gate := NewGate(store, identity, "boss@souzacred.com.br", "Master")

	user, err := gate.Resolve(helpers.TestCtx(), "master-uid")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if user.Role != models.RoleAdmin || !user.Active {
		t.Fatalf("master provisioned wrong: %+v", user)
	}
	if store.created == nil || store.created.UID != "master-uid" {
		t.Fatalf("master profile not persisted: %+v", store.created)
	}
	if store.created.Email != "boss@souzacred.com.br" || store.created.Name != "Master" {
		t.Fatalf("master identity fields wrong: %+v", store.created)
	}
}

func TestGateDeniesUnknownNonMaster(t *testing.T) {
	identity := &stubIdentity{emails: map[string]string{"stranger": "other@example.com"}}
	gate := NewGate(&stubGateUserStore{}, identity, "boss@souzacred.com.br", "Master")

	_, err := gate.Resolve(helpers.TestCtx(), "stranger")
	var pd *errs.PermissionDeniedError
	if !errors.As(err, &pd) {
		t.Fatalf("expected PermissionDeniedError, got %v", err)
	}
}

func TestGateRequireEnforcesRoleTable(t *testing.T) {
	store := &stubGateUserStore{users: map[string]*models.User{
		"sales":   {UID: "sales", Role: models.RoleSalesperson, Active: true},
		"support": {UID: "support", Role: models.RoleSupport, Active: true},
		"admin":   {UID: "admin", Role: models.RoleAdmin, Active: true},
	}}
	gate := NewGate(store, &stubIdentity{}, "boss@souzacred.com.br", "Master")
	ctx := helpers.TestCtx()

	if _, err := gate.Require(ctx, "sales", OpAddCustomer); err != nil {
		t.Fatalf("salesperson denied addCustomer: %v", err)
	}
	if _, err := gate.Require(ctx, "support", OpListCustomers); err != nil {
		t.Fatalf("support denied listCustomers: %v", err)
	}
	if _, err := gate.Require(ctx, "admin", OpManageUsers); err != nil {
		t.Fatalf("admin denied manageUsers: %v", err)
	}

	denied := []struct {
		uid string
		op  Operation
	}{
		{"support", OpAddCustomer},
		{"sales", OpDeleteCustomer},
		{"sales", OpManageUsers},
		{"sales", OpRecalcTerms},
		{"support", OpReports},
	}
	for _, tc := range denied {
		_, err := gate.Require(ctx, tc.uid, tc.op)
		var pd *errs.PermissionDeniedError
		if !errors.As(err, &pd) {
			t.Fatalf("%s performing %s: expected PermissionDeniedError, got %v", tc.uid, tc.op, err)
		}
	}
}

func TestGateRequireUnknownOperationDeniesEveryone(t *testing.T) {
	store := &stubGateUserStore{users: map[string]*models.User{
		"admin": {UID: "admin", Role: models.RoleAdmin, Active: true},
	}}
	gate := NewGate(store, &stubIdentity{}, "", "Master")

	_, err := gate.Require(helpers.TestCtx(), "admin", Operation("unknownOp"))
	var pd *errs.PermissionDeniedError
	if !errors.As(err, &pd) {
		t.Fatalf("expected PermissionDeniedError, got %v", err)
	}
}

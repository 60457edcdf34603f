package access

import (
	"context"
	"fmt"
	"time"

	"github.com/souzacred/crm-backend/internal/errs"
	"github.com/souzacred/crm-backend/internal/models"
	"github.com/souzacred/crm-backend/pkg/logger"
)

type gateUserStore interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

type identityProvider interface {
	Email(ctx context.Context, uid string) (string, error)
}

// Gate resolves an authenticated uid to a user profile and checks it against
// the permissions table. It also owns the master-identity bootstrap: the
// configured master email gets an admin profile provisioned on its first
// access, so the system always has at least one admin-capable identity.
type Gate struct {
	users       gateUserStore
	identity    identityProvider
	masterEmail string
	masterName  string
}

func NewGate(users gateUserStore, identity identityProvider, masterEmail, masterName string) *Gate {
	return &Gate{
		users:       users,
		identity:    identity,
		masterEmail: masterEmail,
		masterName:  masterName,
	}
}

// Resolve maps a caller uid to its user profile. An unknown uid is only
// accepted when it belongs to the configured master identity, in which case
// the profile is created idempotently.
func (g *Gate) Resolve(ctx context.Context, uid string) (*models.User, error) {
	if uid == "" {
		return nil, errs.NewUnauthenticatedError("authentication required")
	}

	user, err := g.users.GetUser(ctx, uid)
	if err == nil {
		return user, nil
	}
	if _, ok := err.(*errs.NotFoundError); !ok {
		return nil, err
	}

	return g.ensureMaster(ctx, uid)
}

// Require resolves the caller and checks the operation's role set.
func (g *Gate) Require(ctx context.Context, uid string, op Operation) (*models.User, error) {
	user, err := g.Resolve(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !Allowed(op, user.Role) {
		return nil, errs.NewPermissionDeniedError(
			fmt.Sprintf("role %q may not perform %s", user.Role, op))
	}
	return user, nil
}

// IsMaster reports whether the email is the configured master identity.
func (g *Gate) IsMaster(email string) bool {
	return g.masterEmail != "" && email == g.masterEmail
}

// ensureMaster provisions the master profile for a uid whose auth email
// matches the configured master email. Any other unknown uid is denied.
func (g *Gate) ensureMaster(ctx context.Context, uid string) (*models.User, error) {
	email, err := g.identity.Email(ctx, uid)
	if err != nil {
		return nil, errs.NewDatabaseError("identity", "failed to look up caller identity", err)
	}

	if !g.IsMaster(email) {
		return nil, errs.NewPermissionDeniedError("user not registered")
	}

	now := time.Now()
	master := &models.User{
		UID:       uid,
		Name:      g.masterName,
		Email:     g.masterEmail,
		Role:      models.RoleAdmin,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := g.users.CreateUser(ctx, master); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("master user profile provisioned",
		"uid", uid,
		"email", g.masterEmail)

	return master, nil
}

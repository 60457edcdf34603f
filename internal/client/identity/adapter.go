package identityclient

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"github.com/souzacred/crm-backend/internal/models"
)

// Adapter wraps the Firebase Auth admin client behind the small surface the
// access gate and user service need.
type Adapter struct {
	client *auth.Client
}

func NewAdapter(client *auth.Client) *Adapter {
	return &Adapter{client: client}
}

// Email returns the verified auth-provider email for an authenticated uid.
func (a *Adapter) Email(ctx context.Context, uid string) (string, error) {
	rec, err := a.client.GetUser(ctx, uid)
	if err != nil {
		return "", err
	}
	return rec.Email, nil
}

// CreateAccount provisions the auth account and stamps the role as a custom
// claim so tokens carry it.
func (a *Adapter) CreateAccount(ctx context.Context, email, password, name string, role models.Role) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(name).
		EmailVerified(true)

	rec, err := a.client.CreateUser(ctx, params)
	if err != nil {
		return "", err
	}

	if err := a.SetRole(ctx, rec.UID, role); err != nil {
		return "", err
	}
	return rec.UID, nil
}

func (a *Adapter) SetRole(ctx context.Context, uid string, role models.Role) error {
	return a.client.SetCustomUserClaims(ctx, uid, map[string]interface{}{
		"role": string(role),
	})
}

func (a *Adapter) SetDisplayName(ctx context.Context, uid, name string) error {
	_, err := a.client.UpdateUser(ctx, uid, (&auth.UserToUpdate{}).DisplayName(name))
	return err
}

// SetDisabled blocks or unblocks sign-in for the account.
func (a *Adapter) SetDisabled(ctx context.Context, uid string, disabled bool) error {
	_, err := a.client.UpdateUser(ctx, uid, (&auth.UserToUpdate{}).Disabled(disabled))
	return err
}

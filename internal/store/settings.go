package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/souzacred/crm-backend/internal/errs"
	"github.com/souzacred/crm-backend/internal/models"
)

const (
	settingsCollection = "settings"
	settingsDocID      = "system"
)

type settingsStore struct {
	doc *firestore.DocumentRef
}

func NewSettingsStore(client *firestore.Client) *settingsStore {
	return &settingsStore{
		doc: client.Collection(settingsCollection).Doc(settingsDocID),
	}
}

// GetSettings returns the system settings document, or nil when no operator
// has written one yet.
func (s *settingsStore) GetSettings(ctx context.Context) (*models.Settings, error) {
	doc, err := s.doc.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, errs.NewDatabaseError("read", "failed to get system settings", err)
	}
	var settings models.Settings
	if err := doc.DataTo(&settings); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse system settings", err)
	}
	return &settings, nil
}

// SetSettings merge-writes the settings document, creating it if absent.
func (s *settingsStore) SetSettings(ctx context.Context, settings *models.Settings) error {
	if _, err := s.doc.Set(ctx, settings, firestore.MergeAll); err != nil {
		return errs.NewDatabaseError("update", "failed to update system settings", err)
	}
	return nil
}

package store

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/souzacred/crm-backend/internal/errs"
	"github.com/souzacred/crm-backend/internal/models"
)

const activitiesCollection = "activities"

type activityStore struct {
	collection *firestore.CollectionRef
}

func NewActivityStore(client *firestore.Client) *activityStore {
	return &activityStore{
		collection: client.Collection(activitiesCollection),
	}
}

func (s *activityStore) Record(ctx context.Context, a *models.Activity) error {
	if _, err := s.collection.Doc(a.ID).Create(ctx, a); err != nil {
		return errs.NewDatabaseError("create", "failed to record activity", err)
	}
	return nil
}

func (s *activityStore) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	docs, err := s.collection.OrderBy("at", firestore.Desc).Limit(limit).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list recent activity", err)
	}
	return decodeAll(docs, func(a *models.Activity, id string) { a.ID = id })
}

package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/souzacred/crm-backend/internal/dto"
	"github.com/souzacred/crm-backend/internal/errs"
	"github.com/souzacred/crm-backend/internal/models"
)

const usersCollection = "users"

type userStore struct {
	collection *firestore.CollectionRef
}

func NewUserStore(client *firestore.Client) *userStore {
	return &userStore{
		collection: client.Collection(usersCollection),
	}
}

func (s *userStore) CreateUser(ctx context.Context, user *models.User) error {
	if _, err := s.collection.Doc(user.UID).Create(ctx, user); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("user profile already exists")
		}
		return errs.NewDatabaseError("create", "failed to create user profile", err)
	}
	return nil
}

func (s *userStore) GetUser(ctx context.Context, uid string) (*models.User, error) {
	doc, err := s.collection.Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("user not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get user profile", err)
	}
	var user models.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse user data", err)
	}
	user.UID = doc.Ref.ID
	return &user, nil
}

func (s *userStore) UpdateUser(ctx context.Context, uid string, fields map[string]any) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}

	if _, err := s.collection.Doc(uid).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("user not found")
		}
		return errs.NewDatabaseError("update", "failed to update user profile", err)
	}
	return nil
}

func (s *userStore) List(ctx context.Context, req dto.PageRequest) (dto.Paginated[models.User], error) {
	var out dto.Paginated[models.User]

	p := newPager(s.collection, "createdAt", firestore.Desc)
	docs, total, err := p.page(ctx, s.collection.Query, req)
	if err != nil {
		return out, err
	}

	items, err := decodeAll(docs, func(u *models.User, id string) { u.UID = id })
	if err != nil {
		return out, err
	}

	out.Items = items
	out.Meta = dto.NewPageMeta(req, total, len(docs), lastID(docs))
	return out, nil
}

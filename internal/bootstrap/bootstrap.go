package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"

	"github.com/souzacred/crm-backend/internal/config"
	"github.com/souzacred/crm-backend/pkg/logger"
)

// Bootstrap holds the process-wide clients every binary starts from.
type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	ctx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)

	bs.Firestore, err = firestore.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}

	app, err := firebase.NewApp(ctx, nil)
	if err != nil {
		return bs, err
	}
	bs.Firebase, err = app.Auth(ctx)
	if err != nil {
		return bs, err
	}

	return bs, nil
}

// Close releases the clients. Safe to call on a partially built Bootstrap.
func (bs *Bootstrap) Close() {
	if bs.Firestore != nil {
		bs.Firestore.Close()
	}
}

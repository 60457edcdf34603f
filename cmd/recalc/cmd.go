package main

import (
	"context"
	"os"

	"github.com/souzacred/crm-backend/internal/bootstrap"
	"github.com/souzacred/crm-backend/internal/config"
	"github.com/souzacred/crm-backend/internal/services"
	"github.com/souzacred/crm-backend/internal/store"
	"github.com/souzacred/crm-backend/pkg/logger"
)

// One-shot job binary. The scheduler runs it monthly; a non-zero exit tells
// the scheduler to retry.
func main() {
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	if err != nil {
		bs.Log.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer bs.Close()

	ctx := logger.ToContext(context.Background(), bs.Log)

	cstore := store.NewCustomerStore(bs.Firestore, cfg.BatchLimit)
	recalc := services.NewRecalcService(cstore)

	res, err := recalc.Run(ctx)
	if err != nil {
		bs.Log.Error("term recalculation failed", "error", err)
		os.Exit(1)
	}

	bs.Log.Info("term recalculation finished",
		"customersUpdated", res.CustomersUpdated,
		"batches", res.Batches,
		"skipped", res.Skipped,
	)
}

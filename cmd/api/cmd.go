package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/souzacred/crm-backend/internal/access"
	"github.com/souzacred/crm-backend/internal/bootstrap"
	identityclient "github.com/souzacred/crm-backend/internal/client/identity"
	"github.com/souzacred/crm-backend/internal/config"
	"github.com/souzacred/crm-backend/internal/handlers"
	"github.com/souzacred/crm-backend/internal/models"
	"github.com/souzacred/crm-backend/internal/response"
	"github.com/souzacred/crm-backend/internal/router"
	"github.com/souzacred/crm-backend/internal/services"
	"github.com/souzacred/crm-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// clients
	identity := identityclient.NewAdapter(bs.Firebase)

	// stores
	cstore := store.NewCustomerStore(bs.Firestore, cfg.BatchLimit)
	lstore := store.NewLoanStore(bs.Firestore)
	apstore := store.NewAppointmentStore(bs.Firestore)
	ustore := store.NewUserStore(bs.Firestore)
	actstore := store.NewActivityStore(bs.Firestore)
	dstore := store.NewDashboardStore(bs.Firestore)
	sstore := store.NewSettingsStore(bs.Firestore)

	// access control
	gate := access.NewGate(ustore, identity, cfg.MasterEmail, cfg.MasterName)

	// services
	cserv := services.NewCustomerService(cstore, lstore, actstore, cfg.DefaultPageSize)
	apserv := services.NewAppointmentService(apstore, cstore, cfg.DefaultPageSize)
	userv := services.NewUserService(ustore, identity, gate, cfg.DefaultPageSize)
	dserv := services.NewDashboardService(dstore, actstore)
	rserv := services.NewReportService(dstore)
	sserv := services.NewSettingsService(sstore, models.Settings{
		DefaultInterestRate: cfg.DefaultInterestRate,
		DefaultPageSize:     cfg.DefaultPageSize,
		BatchLimit:          cfg.BatchLimit,
	})
	recserv := services.NewRecalcService(cstore)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = response.New(bs.Log)
	deps.Gate = gate
	deps.CustomerSvc = cserv
	deps.AppointmentSvc = apserv
	deps.UserSvc = userv
	deps.DashboardSvc = dserv
	deps.ReportSvc = rserv
	deps.SettingsSvc = sserv
	deps.RecalcSvc = recserv

	// router
	r := router.NewRouter(deps, bs.Firebase)
	bs.Log.Info("listening", "port", cfg.Port)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}

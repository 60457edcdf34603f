package router

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/souzacred/crm-backend/internal/handlers"
	"github.com/souzacred/crm-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps, authClient *auth.Client) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ch := handlers.NewCustomerHandlers(deps)
	ah := handlers.NewAppointmentHandlers(deps)
	uh := handlers.NewUserHandlers(deps)
	dh := handlers.NewDashboardHandlers(deps)
	rh := handlers.NewReportHandlers(deps)
	adh := handlers.NewAdminHandlers(deps)

	// Everything below requires a verified Firebase identity.
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(authClient).FirebaseAuth)

		r.Mount("/customers", ch.CustomerRoutes())
		r.Mount("/appointments", ah.AppointmentRoutes())
		r.Mount("/users", uh.UserRoutes())
		r.Mount("/dashboard", dh.DashboardRoutes())
		r.Mount("/reports", rh.ReportRoutes())
		r.Mount("/admin", adh.AdminRoutes())
		r.Get("/me", uh.Profile)
	})

	return r
}

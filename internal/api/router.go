// Package api assembles the HTTP surface: routes, middleware chain and CORS.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/alioucisse7/truck-management/internal/auth"
	"github.com/alioucisse7/truck-management/internal/db"
	"github.com/alioucisse7/truck-management/internal/handlers"
	"github.com/alioucisse7/truck-management/internal/middleware"
	"github.com/alioucisse7/truck-management/internal/models"
)

// NewRouter wires every route with its middleware chain. Login, signup and
// the health check are the only unauthenticated paths; mutating fleet routes
// additionally require a manager or admin role.
func NewRouter(store *db.Store, authService *auth.Service) http.Handler {
	authHandler := handlers.NewAuthHandler(authService, store.Users, store.Companies, store.Settings)
	userHandler := handlers.NewUserHandler(authService, store.Users)
	truckHandler := handlers.NewTruckHandler(store.Trucks)
	driverHandler := handlers.NewDriverHandler(store.Drivers, store.Trips)
	tripHandler := handlers.NewTripHandler(store.Trips, store.Trucks, store.Drivers, store.Finances)
	financeHandler := handlers.NewFinanceHandler(store.Finances)
	invoiceHandler := handlers.NewInvoiceHandler(store.Invoices, store.Trips, store.Companies)
	dashboardHandler := handlers.NewDashboardHandler(store.Trucks, store.Drivers, store.Trips, store.Finances)
	settingsHandler := handlers.NewSettingsHandler(store.Settings)
	companyHandler := handlers.NewCompanyHandler(store.Companies)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(rateLimiter.RateLimit(300, 60))
	r.Use(authMiddleware.Authenticate)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/signup", authHandler.Signup)
			r.Get("/me", authHandler.Me)
			r.Put("/profile", userHandler.UpdateProfile)
			r.Post("/change-password", userHandler.ChangePassword)
		})

		r.Route("/trucks", func(r chi.Router) {
			r.Get("/", truckHandler.List)
			r.Get("/{id}", truckHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireManager)
				r.Post("/", truckHandler.Create)
				r.Put("/{id}", truckHandler.Update)
				r.Delete("/{id}", truckHandler.Delete)
			})
		})

		r.Route("/drivers", func(r chi.Router) {
			r.Get("/", driverHandler.List)
			r.Get("/{id}", driverHandler.Get)
			r.Get("/{id}/trips", driverHandler.Trips)
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireManager)
				r.Post("/", driverHandler.Create)
				r.Put("/{id}", driverHandler.Update)
				r.Delete("/{id}", driverHandler.Delete)
			})
		})

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", tripHandler.List)
			r.Get("/{id}", tripHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireManager)
				r.Post("/", tripHandler.Create)
				r.Put("/{id}", tripHandler.Update)
				r.Delete("/{id}", tripHandler.Delete)
			})
		})

		r.Route("/finances", func(r chi.Router) {
			r.Get("/", financeHandler.List)
			r.Get("/summary", financeHandler.Summary)
			r.Get("/categories", financeHandler.Categories)
			r.Get("/export", financeHandler.Export)
			r.Get("/{id}", financeHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireManager)
				r.Post("/", financeHandler.Create)
				r.Put("/{id}", financeHandler.Update)
				r.Delete("/{id}", financeHandler.Delete)
			})
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", invoiceHandler.List)
			r.Get("/{id}", invoiceHandler.Get)
			r.Get("/{id}/qrcode", invoiceHandler.QRCode)
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireManager)
				r.Post("/", invoiceHandler.Create)
				r.Post("/generate-from-trips", invoiceHandler.GenerateFromTrips)
				r.Put("/{id}", invoiceHandler.Update)
				r.Delete("/{id}", invoiceHandler.Delete)
			})
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/stats", dashboardHandler.Stats)
			r.Get("/recent-trips", dashboardHandler.RecentTrips)
			r.Get("/revenue-overview", dashboardHandler.RevenueOverview)
			r.Get("/fuel-data", dashboardHandler.FuelData)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", settingsHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireManager)
				r.Put("/", settingsHandler.Update)
			})
		})

		r.Route("/company", func(r chi.Router) {
			r.Get("/", companyHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireRole(models.RoleAdmin))
				r.Put("/", companyHandler.Update)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authMiddleware.RequireRole(models.RoleAdmin))
			r.Get("/", userHandler.List)
			r.Post("/", userHandler.Create)
			r.Delete("/{id}", userHandler.Delete)
		})
	})

	return r
}

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/urban-services/api/internal/config"
	"github.com/urban-services/api/internal/database"
	"github.com/urban-services/api/internal/enum"
	"github.com/urban-services/api/internal/handler"
	mw "github.com/urban-services/api/internal/middleware"
	"github.com/urban-services/api/internal/service"
	"go.uber.org/zap"
)

// New creates a Chi router with all application routes wired up.
// User routes sit behind the user secret and the USER role.
func New(cfg *config.Config, queries *database.Queries, pool service.TxBeginner) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(mw.RequestLogger(zap.L()))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	authHandler := handler.NewAuthHandler(queries, handler.TokenConfig{
		UserSecret:  cfg.JWTUserSecret,
		AgentSecret: cfg.JWTAgentSecret,
		AdminSecret: cfg.JWTAdminSecret,
		TTL:         cfg.JWTExpiresIn,
	})
	r.Route("/api/auth", authHandler.RegisterRoutes)

	newOrderStore := func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}
	orderService := service.NewOrderService(pool, queries, newOrderStore)
	notificationService := service.NewNotificationService(queries)

	r.Route("/api/users", func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTUserSecret))
		r.Use(mw.RequireRole(enum.RoleUser))

		handler.NewOrderHandler(orderService).RegisterRoutes(r)
		handler.NewNotificationHandler(notificationService).RegisterRoutes(r)
		handler.NewProfileHandler(queries).RegisterRoutes(r)
	})

	zap.L().Debug("router initialized")
	return r
}

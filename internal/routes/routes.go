package routes

import (
	"net/http"

	"portfolio/internal/handlers"
	"portfolio/internal/metrics"
	"portfolio/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	auth middleware.Authenticator,
	authLimiter *middleware.IPRateLimiter,
	httpMetrics metrics.HTTPRecorder,
	metricsHandler http.Handler,
	authHandler *handlers.AuthHandler,
	messageHandler *handlers.MessageHandler,
	projectHandler *handlers.ProjectHandler,
	logsHandler *handlers.AdminLogsHandler,
	healthHandler *handlers.HealthHandler,
) {
	router.Use(middleware.RequestID, middleware.Recoverer, middleware.Logging, middleware.Metrics(httpMetrics))

	router.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	router.Handle("/metrics", metricsHandler).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	limited := api.PathPrefix("/auth").Subrouter()
	limited.Use(authLimiter.Middleware)
	limited.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	limited.HandleFunc("/forgot-password", authHandler.ForgotPassword).Methods(http.MethodPost)
	limited.HandleFunc("/reset-password/{token}", authHandler.ResetPassword).Methods(http.MethodPut, http.MethodPost)

	api.HandleFunc("/messages", messageHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/projects", projectHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", projectHandler.Get).Methods(http.MethodGet)

	// --- Защищённые JWT ---
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.RequireAuth(auth))

	protected.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet)

	protected.HandleFunc("/messages", messageHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/messages/{id}", messageHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/messages/{id}/mark-read", messageHandler.MarkRead).Methods(http.MethodPut)
	protected.HandleFunc("/messages/{id}", messageHandler.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/projects", projectHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/projects/{id}", projectHandler.Update).Methods(http.MethodPut)
	protected.HandleFunc("/projects/{id}", projectHandler.Delete).Methods(http.MethodDelete)

	admin := protected.PathPrefix("/admin/logs").Subrouter()
	admin.HandleFunc("", logsHandler.GetLogs).Methods(http.MethodGet)
	admin.HandleFunc("/days", logsHandler.ListDays).Methods(http.MethodGet)
	admin.HandleFunc("/stats", logsHandler.Stats).Methods(http.MethodGet)
}

package app

import (
	"context"
	"net/http"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/db"
	"portfolio/internal/handlers"
	"portfolio/internal/logger"
	"portfolio/internal/metrics"
	"portfolio/internal/middleware"
	"portfolio/internal/repository"
	"portfolio/internal/routes"
	"portfolio/internal/services"
	"portfolio/internal/utils"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// App: собранное приложение и то, что нужно закрыть при остановке.
type App struct {
	Router  *mux.Router
	pool    *pgxpool.Pool
	limiter *middleware.IPRateLimiter
}

func InitApp(ctx context.Context, cfg *config.Config) (*App, error) {
	conn, err := db.NewPostgresConnection(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Подключение к БД установлено", zap.String("dsn", cfg.GetDSNSafe()))

	if err := db.Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	// Репозитории
	userRepo := repository.NewUserRepository(conn)
	messageRepo := repository.NewMessageRepository(conn)
	projectRepo := repository.NewProjectRepository(conn)

	media, err := services.NewS3MediaStore(ctx, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}

	// Сервисы
	emailService := services.NewEmailService(cfg)
	sessions := utils.NewSessionIssuer(cfg)
	authService := services.NewAuthService(userRepo, emailService, sessions, cfg)
	messageService := services.NewMessageService(messageRepo, emailService, cfg)
	projectService := services.NewProjectService(projectRepo, media)

	// Метрики
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authService, collector)
	messageHandler := handlers.NewMessageHandler(messageService)
	projectHandler := handlers.NewProjectHandler(projectService)
	logsHandler := handlers.NewAdminLogsHandler(cfg)
	healthHandler := handlers.NewHealthHandler(conn)

	limiter := middleware.NewIPRateLimiter(cfg.AuthRatePerMin, 5*time.Minute)

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router,
		authService,
		limiter,
		collector,
		metrics.Handler(reg),
		authHandler,
		messageHandler,
		projectHandler,
		logsHandler,
		healthHandler,
	)

	return &App{Router: router, pool: conn, limiter: limiter}, nil
}

// Close освобождает пул и фоновые горутины. Вызывать после остановки HTTP-сервера.
func (a *App) Close() {
	a.limiter.Stop()
	a.pool.Close()
}

// Serve запускает сервер и останавливает его по отмене ctx.
func Serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Сервер запущен", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("Остановка сервера...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

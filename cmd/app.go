// Package cmd wires configuration, persistence, services, and the HTTP
// server into a runnable application.
package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cantina/api"
	apicatalog "cantina/api/catalog"
	apifeedback "cantina/api/feedback"
	"cantina/api/health"
	apinotify "cantina/api/notify"
	apiorder "cantina/api/order"
	apipayment "cantina/api/payment"
	appcatalog "cantina/application/catalog"
	appfeedback "cantina/application/feedback"
	apporder "cantina/application/order"
	"cantina/config"
	domcatalog "cantina/domain/catalog"
	domfeedback "cantina/domain/feedback"
	domorder "cantina/domain/order"
	"cantina/domain/shared"
	"cantina/infrastructure/notify"
	"cantina/infrastructure/payment"
	"cantina/infrastructure/persistence/mocks"
	"cantina/infrastructure/persistence/mysql"
	"cantina/infrastructure/persistence/retry"
	"cantina/pkg/logger"
)

// App is the assembled application.
type App struct {
	cfg    *config.Config
	engine *gin.Engine
	server *http.Server
	db     *gorm.DB
	worker *mysql.OutboxWorker
}

// NewApp builds the application from configuration. The persistence layer is
// selected by database.type: "mysql" for GORM over MySQL, anything else runs
// the seeded in-memory store.
func NewApp(cfg *config.Config) (*App, error) {
	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("starting application",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env),
		zap.String("database", cfg.Database.Type))

	hub := notify.NewHub(16)
	gateway := payment.NewMockGateway(cfg.Payment.MaxAmount, cfg.Payment.FailureRate)

	var (
		db           *gorm.DB
		sqlDB        *sql.DB
		orderRepo    domorder.Repository
		catalogRepo  domcatalog.Repository
		feedbackRepo domfeedback.Repository
		uowFactory   shared.UnitOfWorkFactory
		worker       *mysql.OutboxWorker
	)

	if cfg.Database.Type == "mysql" {
		var err error
		db, sqlDB, err = connectMySQL(cfg)
		if err != nil {
			return nil, err
		}

		orderRepo = mysql.NewOrderRepository(db)
		catalogRepo = mysql.NewCatalogRepository(db)
		feedbackRepo = mysql.NewFeedbackRepository(db)

		uowFactory = mysql.NewUnitOfWorkFactory(db, retry.FromAppConfig(cfg))

		if cfg.Outbox.Enabled {
			worker, err = mysql.NewOutboxWorker(
				mysql.NewOutboxRepository(db),
				notify.NewHubPublisher(hub),
				cfg.Outbox.PollInterval,
				cfg.Outbox.BatchSize,
				cfg.Outbox.MaxRetries,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to create outbox worker: %w", err)
			}
		}
	} else {
		logger.Info("using seeded in-memory persistence layer")

		orderRepo = mocks.NewMockOrderRepository()
		catalogRepo = mocks.NewMockCatalogRepositoryWithData()
		feedbackRepo = mocks.NewMockFeedbackRepository()

		mockUoW := mocks.NewMockUnitOfWork()
		mockUoW.SetPublisher(notify.NewHubPublisher(hub))
		uowFactory = mockUoW
	}

	orderService := apporder.NewService(orderRepo, catalogRepo, gateway, uowFactory)
	catalogService := appcatalog.NewService(catalogRepo, uowFactory)
	feedbackService := appfeedback.NewService(feedbackRepo, orderRepo, catalogRepo, uowFactory)

	router := api.NewRouter(
		cfg,
		health.NewController(sqlDB, cfg.App.Version),
		apiorder.NewController(orderService),
		apicatalog.NewController(catalogService),
		apifeedback.NewController(feedbackService),
		apipayment.NewController(gateway),
		apinotify.NewController(hub),
	)
	engine := router.Build()

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &App{
		cfg:    cfg,
		engine: engine,
		server: server,
		db:     db,
		worker: worker,
	}, nil
}

func connectMySQL(cfg *config.Config) (*gorm.DB, *sql.DB, error) {
	mysqlConfig := &mysql.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Log.Level,
	}

	db, err := mysqlConfig.Connect()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}
	logger.Info("connected to MySQL")

	if cfg.IsDevelopment() {
		if err := mysql.Migrate(db); err != nil {
			return nil, nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return db, sqlDB, nil
}

// Run starts the outbox worker and the HTTP server, then blocks until a
// shutdown signal arrives.
func (a *App) Run() error {
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	if a.worker != nil {
		go func() {
			if err := a.worker.Run(workerCtx); err != nil && err != context.Canceled {
				logger.Error("outbox worker stopped", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	return a.shutdown(stopWorker)
}

func (a *App) shutdown(stopWorker context.CancelFunc) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
		return err
	}
	stopWorker()

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	logger.Info("server stopped")
	_ = logger.Sync()
	return nil
}

// Engine exposes the gin engine for tests.
func (a *App) Engine() *gin.Engine {
	return a.engine
}

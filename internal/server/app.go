// Package server wires the forum backend together: storage, mail, services
// and the HTTP API, and runs it until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/imprint/internal/logging"
	"github.com/dmitrijs2005/imprint/internal/server/config"
	"github.com/dmitrijs2005/imprint/internal/server/httpapi"
	"github.com/dmitrijs2005/imprint/internal/server/mail"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/imprint/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	services    httpapi.Services
}

// NewApp opens storage, applies migrations and builds the services. An empty
// DSN selects the in-memory store.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	rm, err := openRepositories(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	mailer, err := mail.NewSender(ctx, c, logger)
	if err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("mail init error: %w", err)
	}

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		services:    buildServices(rm, mailer, c, logger),
	}, nil
}

func openRepositories(ctx context.Context, c *config.Config, logger logging.Logger) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database DSN configured, using in-memory storage")
		return repomanager.NewInMemoryRepositoryManager(nil), nil
	}

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return rm, nil
}

func buildServices(rm repomanager.RepositoryManager, mailer mail.Sender, c *config.Config, logger logging.Logger) httpapi.Services {
	registry := services.NewManagerRegistry(services.NewRoleSynchronizer())
	verifier := services.NewVerificationService(rm, mailer, c)
	accounts := services.NewAccountService(rm, services.NewBcryptHasher(c.BcryptCost), mailer, verifier, c, logger)

	return httpapi.Services{
		Accounts:     accounts,
		Verification: verifier,
		Boards:       services.NewBoardService(rm, registry, logger),
		Posts:        services.NewPostService(rm, registry),
		Comments:     services.NewCommentService(rm, registry),
		Admin:        services.NewAdminService(rm, registry, accounts, logger),
		Reports:      services.NewReportService(rm),
		Messages:     services.NewMessageService(rm),
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.services, app.config.SecretKey)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is canceled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "closing storage failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}

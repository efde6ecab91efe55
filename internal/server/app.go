// Package server initializes and runs the Kynetix API server.
// It opens the database, applies migrations, wires the user service and
// serves HTTP until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/kynetix/internal/cryptox"
	"github.com/dmitrijs2005/kynetix/internal/logging"
	"github.com/dmitrijs2005/kynetix/internal/server/auth"
	"github.com/dmitrijs2005/kynetix/internal/server/config"
	"github.com/dmitrijs2005/kynetix/internal/server/httpapi"
	"github.com/dmitrijs2005/kynetix/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/kynetix/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	codec := cryptox.NewPasswordCodec(cryptox.DefaultParams)
	issuer := auth.NewIssuer([]byte(c.SecretKey), c.AccessTokenValidityDuration)

	us := services.NewUserService(db, rm, codec, issuer, logger)

	return &App{config: c, logger: logger, db: db, userService: us}, nil
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

	s := httpapi.NewServer(httpapi.Options{
		Address:         app.config.EndpointAddrHTTP,
		ReadTimeout:     app.config.ReadTimeout,
		WriteTimeout:    app.config.WriteTimeout,
		ShutdownTimeout: app.config.ShutdownTimeout,
	}, app.logger, app.userService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until the server stops, then closes the database.
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

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}

// Package server wires configuration, storage, services and transports
// together and runs them until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/yeslist/internal/common"
	"github.com/dmitrijs2005/yeslist/internal/logging"
	"github.com/dmitrijs2005/yeslist/internal/server/auth"
	"github.com/dmitrijs2005/yeslist/internal/server/config"
	"github.com/dmitrijs2005/yeslist/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/yeslist/internal/server/rest"
	"github.com/dmitrijs2005/yeslist/internal/server/services"
	"golang.org/x/crypto/bcrypt"

	gs "github.com/dmitrijs2005/yeslist/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	api    *rest.API
}

// signingKey returns the configured secret, or a random one when running
// in dev mode without a secret. Tokens signed with a random key do not
// survive a restart.
func signingKey(ctx context.Context, c *config.Config, l logging.Logger) []byte {
	if c.SecretKey == "" && c.DevMode {
		l.Warn(ctx, "no secret key configured, using an ephemeral development key; issued tokens will not survive a restart")
		return common.GenerateRandByteArray(auth.MinKeyLength)
	}
	return []byte(c.SecretKey)
}

func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		SecretKey:        signingKey(ctx, c, l),
		Issuer:           c.TokenIssuer,
		Audience:         c.TokenAudience,
		ValidityDuration: c.TokenValidityDuration,
		ClockSkew:        c.TokenClockSkew,
	})
	if err != nil {
		return nil, fmt.Errorf("token manager init error: %w", err)
	}

	hasher, err := auth.NewPasswordHasher(bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	db, rm, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	api := rest.NewAPI(
		services.NewAccountService(db, rm, hasher, tokens),
		services.NewTaskService(db, rm),
		tokens,
		l,
		c.AllowedOrigins,
	)

	return &App{config: c, logger: l, db: db, api: api}, nil
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
	s := rest.NewServer(app.config.EndpointAddrHTTP, app.api.Handler(), app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server error", "error", err.Error())
		cancelFunc()
	}
}

func (app *App) startHealthServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.EndpointAddrGRPCHealth, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc health server error", "error", err.Error())
		cancelFunc()
	}
}

// Run blocks until a signal arrives or one of the servers fails, then
// waits for both to stop and closes the database.
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

	if app.config.EndpointAddrGRPCHealth != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startHealthServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
	app.logger.Info(ctx, "App stopped")
}

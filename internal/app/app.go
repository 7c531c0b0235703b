// Package app wires configuration, storage, identity and payments into the
// HTTP server and owns its lifetime.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	fs "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"

	"github.com/magzhanmnazhatdin/courtclub/internal/auth"
	"github.com/magzhanmnazhatdin/courtclub/internal/config"
	"github.com/magzhanmnazhatdin/courtclub/internal/handler"
	"github.com/magzhanmnazhatdin/courtclub/internal/lifecycle"
	"github.com/magzhanmnazhatdin/courtclub/internal/payments"
	"github.com/magzhanmnazhatdin/courtclub/internal/store"
	"github.com/magzhanmnazhatdin/courtclub/internal/store/firestore"
	"github.com/magzhanmnazhatdin/courtclub/internal/store/memory"
	"github.com/magzhanmnazhatdin/courtclub/internal/telemetry"
)

const serviceName = "courtclub"

// setupTracing is replaced in tests.
var setupTracing = telemetry.Setup

type backend interface {
	store.Directory
	store.Ledger
}

type App struct {
	cfg  config.Config
	log  *slog.Logger
	http *http.Server

	fb       *firebase.App
	fsClient *fs.Client
	store    backend
	verifier auth.Verifier
	payments payments.Provider

	stopTracing func(context.Context) error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	a := &App{
		cfg: cfg,
		log: slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
			With(slog.String("service", serviceName)),
	}

	if a.stopTracing, err = setupTracing(ctx, serviceName, cfg.OTELEndpoint); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	if err = a.initStore(ctx); err != nil {
		a.release(ctx)
		return nil, fmt.Errorf("init store: %w", err)
	}
	if err = a.initAuth(ctx); err != nil {
		a.release(ctx)
		return nil, fmt.Errorf("init auth: %w", err)
	}
	a.initPayments()
	a.initHTTP()
	return a, nil
}

func (a *App) initStore(ctx context.Context) error {
	if a.cfg.StoreBackend == config.StoreMemory {
		a.store = memory.New()
		a.log.Warn("using in-memory store, data is lost on restart")
		return nil
	}

	var opts []option.ClientOption
	if a.cfg.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(a.cfg.FirebaseCredentialsFile))
	}
	var fbCfg *firebase.Config
	if a.cfg.FirebaseProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: a.cfg.FirebaseProjectID}
	}
	fb, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return fmt.Errorf("firebase app: %w", err)
	}
	client, err := fb.Firestore(ctx)
	if err != nil {
		return fmt.Errorf("firestore client: %w", err)
	}
	a.fb = fb
	a.fsClient = client
	a.store = firestore.New(client)
	a.log.Info("firestore connected", slog.String("project", a.cfg.FirebaseProjectID))
	return nil
}

func (a *App) initAuth(ctx context.Context) error {
	switch a.cfg.AuthMode {
	case config.AuthHS256:
		v, err := auth.NewHS256(a.cfg.AuthHS256Secret)
		if err != nil {
			return err
		}
		a.verifier = v
	default:
		if a.fb == nil {
			return errors.New("firebase auth needs the firestore backend")
		}
		client, err := a.fb.Auth(ctx)
		if err != nil {
			return fmt.Errorf("firebase auth: %w", err)
		}
		a.verifier = auth.NewFirebase(client)
	}
	return nil
}

func (a *App) initPayments() {
	if a.cfg.PaymentProvider == config.PaymentStatic {
		a.payments = payments.Static{Secret: "pi_static_secret"}
		return
	}
	a.payments = payments.NewStripe(a.cfg.StripeSecretKey)
}

func (a *App) initHTTP() {
	gin.SetMode(a.cfg.GinMode)

	m := lifecycle.New(a.store, a.store,
		lifecycle.WithLogger(a.log),
		lifecycle.WithCurrency(a.cfg.PaymentCurrency),
	)
	h := handler.New(m, a.payments, a.cfg.PaymentCurrency, a.log)

	a.http = &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           handler.NewRouter(h, a.verifier, m, a.log, a.cfg.CORSAllowOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("HTTP server starting", slog.String("addr", a.http.Addr))
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case err := <-errCh:
		rctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		a.release(rctx)
		return err
	}
	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
	}
	a.log.Info("HTTP server stopped")

	if err := a.stopTracing(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracing shutdown: %w", err))
	}
	a.closeStore()

	a.log.Info("app stopped")
	return errors.Join(errs...)
}

// release flushes spans and closes the store on paths that never reach a
// graceful shutdown.
func (a *App) release(ctx context.Context) {
	if err := a.stopTracing(ctx); err != nil {
		a.log.Error("tracing shutdown", slog.String("error", err.Error()))
	}
	a.closeStore()
}

func (a *App) closeStore() {
	if a.fsClient == nil {
		return
	}
	if err := a.fsClient.Close(); err != nil {
		a.log.Error("close firestore", slog.String("error", err.Error()))
		return
	}
	a.fsClient = nil
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.http.Handler
}

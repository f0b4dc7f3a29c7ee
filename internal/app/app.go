// Package app assembles the server from configuration.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/iou/internal/auth"
	"github.com/mmynk/iou/internal/config"
	"github.com/mmynk/iou/internal/dedupe"
	"github.com/mmynk/iou/internal/interpreter"
	"github.com/mmynk/iou/internal/metrics"
	"github.com/mmynk/iou/internal/middleware"
	"github.com/mmynk/iou/internal/notify"
	"github.com/mmynk/iou/internal/phone"
	"github.com/mmynk/iou/internal/service"
	"github.com/mmynk/iou/internal/sms"
	"github.com/mmynk/iou/internal/storage"
	"github.com/mmynk/iou/internal/storage/postgres"
	"github.com/mmynk/iou/internal/storage/sqlite"
	"github.com/mmynk/iou/pkg/api"
)

// App holds the long-lived components of a running server.
type App struct {
	Config      *config.Config
	Store       storage.Store
	Phones      *phone.Validator
	Interpreter *interpreter.Interpreter
	Metrics     *metrics.Metrics
	JWT         *auth.JWTManager

	notifier notify.Sender
	seen     dedupe.Store
}

// OpenStore opens the configured record store and applies its schema.
func OpenStore(cfg config.DatabaseConfig) (storage.Store, error) {
	switch cfg.Driver {
	case "postgres":
		store, err := postgres.New(cfg.URL, cfg.MaxOpenConns)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "", "sqlite":
		store, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// New builds an App from cfg.
func New(cfg *config.Config) (*App, error) {
	loc, err := time.LoadLocation(cfg.Ledger.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	store, err := OpenStore(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	slog.Info("Storage initialized", "driver", cfg.Database.Driver)

	notifier, err := notify.New(cfg.Notify.Driver, cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber)
	if err != nil {
		store.Close()
		return nil, err
	}

	seen, err := dedupe.New(dedupe.Config{
		Driver:        cfg.Dedupe.Driver,
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	phones := phone.NewValidator(cfg.Ledger.DefaultRegion)
	return &App{
		Config:      cfg,
		Store:       store,
		Phones:      phones,
		Interpreter: interpreter.New(store, phones, interpreter.WithLocation(loc)),
		Metrics:     metrics.New(),
		JWT:         auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TokenDuration),
		notifier:    notifier,
		seen:        seen,
	}, nil
}

// Handler returns the HTTP handler serving every endpoint, wrapped in h2c
// so Connect clients can use HTTP/2 without TLS.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger)

	webhook := sms.NewHandler(a.Interpreter, a.notifier, a.seen, a.Metrics, sms.Config{
		ValidateSignatures: a.Config.Twilio.ValidateSignatures,
		AuthToken:          a.Config.Twilio.AuthToken,
		PublicURL:          a.Config.Twilio.PublicURL,
		DedupeTTL:          a.Config.Dedupe.TTL,
	})
	r.Post("/incoming", webhook.ServeIncoming)
	r.Post("/incoming/", webhook.ServeIncoming)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", a.Metrics.Handler())

	path, handler := api.NewLedgerServiceHandler(
		service.NewLedgerService(a.Store),
		connect.WithInterceptors(middleware.RequireAuth(a.JWT), middleware.LoggingInterceptor()),
	)
	r.Mount(path, handler)

	return h2c.NewHandler(r, &http2.Server{})
}

// Close releases the store and the dedupe store.
func (a *App) Close() error {
	return errors.Join(a.seen.Close(), a.Store.Close())
}

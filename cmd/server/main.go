package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/landing/modules/contact"
	"github.com/dmitrymomot/landing/pkg/clientip"
	"github.com/dmitrymomot/landing/pkg/config"
	"github.com/dmitrymomot/landing/pkg/formvalidator"
	"github.com/dmitrymomot/landing/pkg/httpserver"
	"github.com/dmitrymomot/landing/pkg/logger"
	"github.com/dmitrymomot/landing/pkg/requestid"
)

type appConfig struct {
	Name     string `env:"APP_NAME" envDefault:"landing"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`

	// TrustedProxies lists the addresses or CIDR prefixes whose proxy
	// headers are believed when resolving the client address.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	HTTP    httpserver.Config
	Contact contact.Config
}

var errNotReady = errors.New("server is not accepting requests")

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	logOpts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			panic(err)
		}
		logOpts = append(logOpts, logger.WithLevel(level))
	}
	log := logger.New(logOpts...)
	logger.SetAsDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(cfg appConfig, log *slog.Logger) error {
	rules := formvalidator.DefaultRules()
	if cfg.Contact.RulesFile != "" {
		var err error
		rules, err = formvalidator.LoadRulesFile(cfg.Contact.RulesFile, rules)
		if err != nil {
			return err
		}
		log.Info("field rules loaded", slog.String("file", cfg.Contact.RulesFile), slog.Any("fields", rules.Names()))
	}

	trusted, err := clientip.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	svc := contact.NewService(cfg.Contact,
		contact.WithLogger(log),
		contact.WithRules(rules),
	)

	var ready atomic.Bool
	readiness := func(context.Context) error {
		if !ready.Load() {
			return errNotReady
		}
		return nil
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware, clientip.NewResolver(trusted...).Middleware)
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, contact.DefaultBasePath, http.StatusSeeOther)
	})
	r.Mount(contact.DefaultBasePath, svc.Handle())
	r.Get("/health/live", httpserver.HealthCheckHandler(log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(log, readiness))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(*slog.Logger) { ready.Store(true) }),
		httpserver.WithStopHook(func(*slog.Logger) { ready.Store(false) }),
	)
	return srv.Run(ctx, r)
}

package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	handlers "github.com/de-tools/bill-atlas/pkg/handlers/billing"
	"github.com/de-tools/bill-atlas/pkg/services/billing"
	"github.com/de-tools/bill-atlas/pkg/services/invoices"

	billatlasmiddleware "github.com/de-tools/bill-atlas/pkg/server/middleware"
)

type WebAPI struct {
	router  *chi.Mux
	logger  *zerolog.Logger
	server  *http.Server
	handler *handlers.Handler
	config  Config
}

type Dependencies struct {
	Library invoices.Library
	Billing billing.Service
	View    handlers.View
	Exports handlers.Exports
	Logger  zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

// ConfigureRouter wires the /api/v1 routes and returns the handler so callers
// can wait for background exports.
func ConfigureRouter(config Config) (*chi.Mux, *handlers.Handler) {
	deps := config.Dependencies
	h := handlers.NewHandler(deps.Library, deps.Billing, deps.View, deps.Exports)

	router := chi.NewRouter()
	router.Use(billatlasmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)

	router.Get("/health", h.Health)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/accounts", h.ListAccounts)
		r.Get("/accounts/{account}/history", h.GetHistory)
		r.Route("/invoices/{invoice}", func(r chi.Router) {
			r.Get("/summary", h.GetSummary)
			r.Get("/report", h.GetReport)
			r.Post("/exports/{section}", h.StartExport)
			r.Get("/exports/{section}", h.GetExport)
			r.Delete("/exports/{section}", h.CancelExport)
		})
	})
	return router, h
}

func NewWebAPI(config Config) *WebAPI {
	router, h := ConfigureRouter(config)
	logger := config.Dependencies.Logger

	return &WebAPI{
		router:  router,
		logger:  &logger,
		handler: h,
		config:  config,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		timeout := w.config.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}
		w.handler.Wait()

		if err != nil {
			return err
		}
	}

	return nil
}

package main

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/zkdev/invoicer/internal/config"
	"github.com/zkdev/invoicer/internal/handlers"
	"github.com/zkdev/invoicer/internal/httpx"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux *http.ServeMux
	log zerolog.Logger
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, cfg *config.Config, log zerolog.Logger) *App {
	app := &App{
		mux: http.NewServeMux(),
		log: log,
	}
	app.setupRoutes(db, cfg)
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.withLogging(a.mux).ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes(db *gorm.DB, cfg *config.Config) {
	a.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	ch := handlers.NewClientHandler(db)
	a.mux.HandleFunc("GET /clients", ch.List)
	a.mux.HandleFunc("POST /clients", ch.Create)
	a.mux.HandleFunc("GET /clients/{id}", ch.Get)
	a.mux.HandleFunc("PUT /clients/{id}", ch.Update)
	a.mux.HandleFunc("DELETE /clients/{id}", ch.Delete)

	ih := handlers.NewInvoiceHandler(db, cfg.Company)
	a.mux.HandleFunc("GET /invoices", ih.List)
	a.mux.HandleFunc("POST /invoices", ih.Create)
	a.mux.HandleFunc("POST /invoices/preview", ih.Preview)
	a.mux.HandleFunc("GET /invoices/{id}", ih.Get)
	a.mux.HandleFunc("PUT /invoices/{id}", ih.Update)
	a.mux.HandleFunc("DELETE /invoices/{id}", ih.Delete)
	a.mux.HandleFunc("POST /invoices/{id}/status", ih.UpdateStatus)
	a.mux.HandleFunc("POST /invoices/{id}/items", ih.AddItem)
	a.mux.HandleFunc("DELETE /invoices/{id}/items/{item_id}", ih.RemoveItem)
	a.mux.HandleFunc("GET /invoices/{id}/pdf", ih.PDF)
}

// withLogging adds request logging middleware.
func (a *App) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		a.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

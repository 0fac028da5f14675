package app

import (
	"io/fs"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/odyssey-erp/rentaldesk/internal/attachments"
	"github.com/odyssey-erp/rentaldesk/internal/invoices"
	"github.com/odyssey-erp/rentaldesk/internal/masterdata/clients"
	"github.com/odyssey-erp/rentaldesk/internal/masterdata/drivers"
	"github.com/odyssey-erp/rentaldesk/internal/masterdata/vehicles"
	"github.com/odyssey-erp/rentaldesk/internal/observability"
	"github.com/odyssey-erp/rentaldesk/internal/partners"
	"github.com/odyssey-erp/rentaldesk/internal/platform/httpx"
	"github.com/odyssey-erp/rentaldesk/internal/rentals"
	"github.com/odyssey-erp/rentaldesk/internal/shared"
	"github.com/odyssey-erp/rentaldesk/internal/terms"
	"github.com/odyssey-erp/rentaldesk/jobs"
	"github.com/odyssey-erp/rentaldesk/report"
	"github.com/odyssey-erp/rentaldesk/web"
)

func init() {
	// Minimal container images ship without /etc/mime.types.
	_ = mime.AddExtensionType(".css", "text/css; charset=utf-8")
	_ = mime.AddExtensionType(".js", "text/javascript; charset=utf-8")
}

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Auth    *shared.TokenVerifier
	Metrics *observability.Metrics

	VehiclesHandler    *vehicles.Handler
	ClientsHandler     *clients.Handler
	DriversHandler     *drivers.Handler
	RentalsHandler     *rentals.Handler
	PartnersHandler    *partners.Handler
	AttachmentsHandler *attachments.Handler
	InvoicesHandler    *invoices.Handler
	TermsHandler       *terms.Handler
	ReportHandler      *report.Handler
	JobHandler         *jobs.Handler
}

// NewRouter constructs the chi.Router with rentaldesk defaults.
func NewRouter(params RouterParams) http.Handler {
	if params.Logger == nil {
		params.Logger = slog.Default()
	}
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}
	if !params.Config.IsProduction() {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	r.Group(func(r chi.Router) {
		if params.Auth != nil {
			r.Use(params.Auth.Middleware)
		}
		if params.VehiclesHandler != nil {
			r.Route("/vehicles", params.VehiclesHandler.MountRoutes)
		}
		if params.ClientsHandler != nil {
			r.Route("/clients", params.ClientsHandler.MountRoutes)
		}
		if params.DriversHandler != nil {
			r.Route("/drivers", params.DriversHandler.MountRoutes)
		}
		if params.RentalsHandler != nil {
			r.Route("/rentals", params.RentalsHandler.MountRoutes)
		}
		if params.PartnersHandler != nil {
			r.Route("/partners", params.PartnersHandler.MountRoutes)
		}
		if params.AttachmentsHandler != nil {
			r.Route("/attachments", params.AttachmentsHandler.MountRoutes)
		}
		if params.InvoicesHandler != nil {
			r.Route("/invoices", params.InvoicesHandler.MountRoutes)
		}
		if params.TermsHandler != nil {
			params.TermsHandler.MountRoutes(r)
		}
		if params.ReportHandler != nil {
			params.ReportHandler.MountRoutes(r)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}

// staticCacheHandler caches static assets in the browser for one hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}

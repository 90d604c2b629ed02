package rest

import (
	"context"
	"net/http"

	core_port "catalog-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// ServerConfig - настройки HTTP-сервера.
type ServerConfig struct {
	Port      string
	JWTSecret string
	// UploadsDir раздается статикой под /uploads/properties
	UploadsDir string
}

func NewServer(cfg ServerConfig,
	listingHandler *ListingHandler,
	photoHandler *PhotoHandler,
	referenceHandler *ReferenceHandler,
	baseLogger core_port.LoggerPort) *Server {

	r := chi.NewRouter()

	r.Use(LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Trace-ID"},
		MaxAge:         300,
	}))
	r.Use(AuthMiddleware(cfg.JWTSecret))

	r.Route("/api/v1", func(r chi.Router) {
		// публичные пути каталога
		r.Get("/listings", listingHandler.FindListings)
		r.Get("/listings/{key}", listingHandler.GetListing)

		r.Get("/references/operations", referenceHandler.GetOperations)
		r.Get("/references/property-types", referenceHandler.GetPropertyTypes)
		r.Get("/references/housing-types", referenceHandler.GetHousingTypes)

		// административные пути
		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin)

			r.Post("/listings", listingHandler.CreateListing)
			r.Put("/listings/{listingID}", listingHandler.UpdateListing)
			r.Delete("/listings/{listingID}", listingHandler.DeleteListing)
			r.Post("/listings/{listingID}/archive", listingHandler.ArchiveListing)
			r.Post("/listings/{listingID}/restore", listingHandler.RestoreListing)

			r.Post("/listings/{listingID}/images", photoHandler.UploadPhotos)
			r.Put("/listings/{listingID}/images/{imageID}/main", photoHandler.SetMainPhoto)
			r.Delete("/listings/{listingID}/images/{imageID}", photoHandler.DeletePhoto)
		})
	})

	if cfg.UploadsDir != "" {
		fileServer := http.StripPrefix("/uploads/properties/", http.FileServer(http.Dir(cfg.UploadsDir)))
		r.Get("/uploads/properties/*", fileServer.ServeHTTP)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: r,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", core_port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}

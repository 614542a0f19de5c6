package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/http/handlers"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/http/openapi"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(RateLimitMiddleware)

	r.Get("/healthz", handlers.HealthHandler)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(openapi.YAML)
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))

	r.Post("/register", handlers.RegisterHandler)
	r.Post("/login", handlers.LoginHandler)
	r.Post("/refresh", handlers.RefreshHandler)

	r.Get("/channels", handlers.GetChannelsHandler)
	r.Get("/channels/{id}", handlers.GetChannelByIDHandler)
	r.Get("/messages", handlers.FilterMessagesHandler)
	r.Get("/messages/{id}", handlers.GetMessageByIDHandler)
	r.Get("/entities", handlers.FilterEntitiesHandler)
	r.Get("/analytics/scorecards", handlers.GetVendorScorecardsHandler)
	r.Get("/analytics/scorecards/{id}", handlers.GetVendorScorecardHandler)
	r.Get("/analytics/metrics", handlers.GetDashboardMetricsHandler)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware)

		r.Post("/channels", handlers.CreateChannelHandler)
		r.Put("/channels/{id}", handlers.UpdateChannelHandler)
		r.Delete("/channels/{id}", handlers.DeleteChannelHandler)

		r.Post("/ingest", handlers.IngestMessageHandler)
		r.Post("/messages/{id}/reprocess", handlers.ReprocessMessageHandler)

		r.Get("/dataset/conll", handlers.GetCoNLLDatasetHandler)
		r.Get("/dataset/csv", handlers.GetCSVDatasetHandler)
		r.Post("/dataset/upload", handlers.UploadDatasetHandler)

		r.Post("/admin/users", handlers.RegisterAsAdminHandler)
	})

	return r
}

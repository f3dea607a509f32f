package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"medinv-service/internal/config"
	"medinv-service/internal/importer"
	impHnd "medinv-service/internal/importer/handler"
	"medinv-service/internal/middleware"
	"medinv-service/internal/storage"
	"medinv-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, imp *importer.Importer, st *storage.Store) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", handlers.Health)

	r.Post("/import/inventory", impHnd.Upload(imp, logger, "inventory"))
	r.Post("/import/usage", impHnd.Upload(imp, logger, "usage"))
	r.Get("/import/history", impHnd.History(st, logger))
	r.Get("/import/{id}", impHnd.Status(st, logger))
	r.Get("/inventory", impHnd.Inventory(st, logger))

	return r
}

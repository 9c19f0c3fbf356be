package http

import (
	"net/http"

	_ "github.com/find-this-fit/go-backend/docs" // Импорт сгенерированных файлов
	"github.com/find-this-fit/go-backend/internal/usecase"
	"github.com/find-this-fit/go-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(searchUC usecase.SearchUC, ingestUC usecase.IngestUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.router.Route("/api/v1", func(v1 chi.Router) {
		searchHandler := NewSearchHandler(searchUC, r.logger)
		itemHandler := NewItemHandler(ingestUC, r.logger)
		registerSearchRoutes(v1, searchHandler)
		registerItemRoutes(v1, itemHandler)
	})
}

func registerSearchRoutes(router chi.Router, handler *SearchHandler) {
	router.Route("/search", func(s chi.Router) {
		s.Post("/", handler.searchSimilar)
		s.Get("/filters", handler.getFilterOptions)
	})
}

func registerItemRoutes(router chi.Router, handler *ItemHandler) {
	router.Route("/items", func(it chi.Router) {
		it.Post("/", handler.ingestItem)
	})
}

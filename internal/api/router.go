package api

import (
	"net/http"

	"github.com/dom/riot-collector/internal/api/handlers"
	"github.com/dom/riot-collector/internal/api/middleware"
	"github.com/dom/riot-collector/internal/config"
	"github.com/dom/riot-collector/internal/domain"
	"github.com/dom/riot-collector/internal/repository"
	"github.com/dom/riot-collector/internal/scheduler"
	"github.com/dom/riot-collector/internal/service"
	"github.com/dom/riot-collector/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(services *service.Services, hub *websocket.Hub, repos *repository.Repositories, sched *scheduler.Scheduler, cfg *config.Config, logger *zap.Logger) http.Handler {
	logger = logger.Named("api")
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	championDocs := handlers.NewDocumentHandler[*domain.Champion](domain.KindChampion, repos.Champion, func() *domain.Champion { return new(domain.Champion) }, logger)
	itemDocs := handlers.NewDocumentHandler[*domain.Item](domain.KindItem, repos.Item, func() *domain.Item { return new(domain.Item) }, logger)
	perksDocs := handlers.NewDocumentHandler[*domain.Perks](domain.KindPerks, repos.Perks, func() *domain.Perks { return new(domain.Perks) }, logger)
	spellDocs := handlers.NewDocumentHandler[*domain.SummonerSpell](domain.KindSummonerSpell, repos.SummonerSpell, func() *domain.SummonerSpell { return new(domain.SummonerSpell) }, logger)
	shardDocs := handlers.NewDocumentHandler[*domain.Shard](domain.KindShard, repos.Shard, func() *domain.Shard { return new(domain.Shard) }, logger)
	championHandler := handlers.NewChampionHandler(services.Catalog, logger)
	patchHandler := handlers.NewPatchHandler(repos.Patch, services.Catalog, logger)
	jobsHandler := handlers.NewJobsHandler(sched, services.Release, logger)
	wsHandler := handlers.NewWebSocketHandler(hub, logger)

	adminOnly := middleware.AdminAuth(services.Auth, logger)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/champions", func(r chi.Router) {
			r.Get("/list", championHandler.List)
			r.Get("/{patch}", championDocs.ListByPatch)
			r.With(adminOnly).Post("/", championDocs.Create)
		})

		documentRoutes := []struct {
			path   string
			list   http.HandlerFunc
			create http.HandlerFunc
		}{
			{"/items", itemDocs.ListByPatch, itemDocs.Create},
			{"/perks", perksDocs.ListByPatch, perksDocs.Create},
			{"/summoner_spells", spellDocs.ListByPatch, spellDocs.Create},
			{"/shards", shardDocs.ListByPatch, shardDocs.Create},
		}
		for _, route := range documentRoutes {
			r.Route(route.path, func(r chi.Router) {
				r.Get("/{patch}", route.list)
				r.With(adminOnly).Post("/", route.create)
			})
		}

		r.Route("/patch", func(r chi.Router) {
			r.Get("/", patchHandler.List)
			r.Get("/latest", patchHandler.Latest)
			r.Get("/{version}", patchHandler.Get)
			r.With(adminOnly).Post("/", patchHandler.Create)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", jobsHandler.List)
			r.With(adminOnly).Post("/release", jobsHandler.Release)
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}

package rankinghandlers

import (
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// RouteConfig tunes the middleware in front of the ranking routes.
type RouteConfig struct {
	AllowedOrigins []string
	RateLimit      rate.Limit
	RateBurst      int
}

// Mount registers the ranking read API under /api.
func Mount(router chi.Router, h Handlers, cfg RouteConfig) {
	limiter := NewClientRateLimiter(cfg.RateLimit, cfg.RateBurst)

	router.Route("/api", func(r chi.Router) {
		r.Use(RequestIDMiddleware)
		r.Use(CORSMiddleware(cfg.AllowedOrigins))
		r.Use(RateLimitMiddleware(limiter))

		r.Route("/charts/{chartID}", func(r chi.Router) {
			r.Get("/ranking", h.HandleChartRanking)
			r.Get("/other-records", h.HandleChartOtherRecords)
			r.Get("/history", h.HandleChartHistory)
			r.Get("/history.png", h.HandleChartHistoryPNG)
		})
		r.Get("/chart-types/{chartTypeID}/format", h.HandleFormatValue)

		r.Route("/chart-groups/{groupID}", func(r chi.Router) {
			r.Get("/ranking", h.HandleChartGroupRanking)
			r.Get("/hierarchy", h.HandleChartGroupHierarchy)
		})
		r.Get("/records", h.HandleListRecords)

		r.Route("/ladders/{ladderID}", func(r chi.Router) {
			r.Get("/charts", h.HandleLadderCharts)
			r.Get("/ranking", h.HandleLadderRanking)
			r.Get("/ranking.xlsx", h.HandleLadderRankingXLSX)
		})

		r.Get("/players", h.HandleSearchPlayers)
	})
}

package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mwas/shiptrack/internal/httpserver/deps"
	"github.com/mwas/shiptrack/internal/httpserver/handlers"
	"github.com/mwas/shiptrack/internal/httpserver/mw"
)

func init() { Register(registerVessels) }

func registerVessels(r chi.Router, d deps.Deps) {
	// Every route below fans out to scraped or rate-limited upstreams,
	// so throttle per client before they get there.
	limited := r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             30,
		RefillPerIPPerMin: 60,
		MaxEntries:        4096,
		SweepInterval:     time.Minute,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
	}))

	limited.Route("/api/vessels/{vessel}", func(r chi.Router) {
		r.Get("/location", handlers.Location(d))
		r.Get("/sailing", handlers.Sailing(d))
		r.Get("/itinerary", handlers.Itinerary(d))
		r.Get("/trail", handlers.Trail(d))
		r.Get("/weather", handlers.Weather(d))
	})
}

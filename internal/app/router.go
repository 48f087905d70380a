package app

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpserver "github.com/fairyhunter13/ai-portfolio-assistant/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/adapter/observability"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/config"
)

// requestTimeout leaves the inference call room to finish before the
// handler is cut off.
func requestTimeout(cfg config.Config) time.Duration {
	if cfg.AIHTTPTimeout <= 0 {
		return 100 * time.Second
	}
	return cfg.AIHTTPTimeout + 10*time.Second
}

// BuildRouter constructs the HTTP handler with all middlewares and routes.
func BuildRouter(cfg config.Config, srv *httpserver.Server) http.Handler {
	r := chi.NewRouter()
	// Security & instrumentation middleware
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	r.Use(httpserver.TimeoutMiddleware(requestTimeout(cfg)))
	r.Use(httpserver.TraceMiddleware)
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	// CORS; preflight falls through to the OPTIONS routes below.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     cfg.CORSOrigins(),
		AllowedMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:     []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type"},
		ExposedHeaders:     []string{"X-Request-Id"},
		AllowCredentials:   false,
		OptionsPassthrough: true,
		MaxAge:             300,
	}))

	// Rate limit inference endpoints
	r.Group(func(wr chi.Router) {
		if cfg.RateLimitPerMin > 0 {
			wr.Use(httprate.LimitByIP(cfg.RateLimitPerMin, 1*time.Minute))
		}
		wr.Post("/chat", srv.ChatHandler())
		wr.Post("/analyze-jd", srv.AnalyzeHandler())
	})
	r.Options("/chat", httpserver.NoContent)
	r.Options("/analyze-jd", httpserver.NoContent)

	// Health and metrics
	r.Get("/healthz", httpserver.HealthzHandler)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) { promhttp.Handler().ServeHTTP(w, r) })
	r.Get("/readyz", srv.ReadyzHandler())

	return httpserver.SecurityHeaders(r)
}

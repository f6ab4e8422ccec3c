package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/glazeworks/window-storefront/api/controllers"
	"github.com/glazeworks/window-storefront/api/middleware"
	"github.com/glazeworks/window-storefront/internal/calculator"
	"github.com/glazeworks/window-storefront/internal/cart"
	"github.com/glazeworks/window-storefront/internal/identity"
	"github.com/glazeworks/window-storefront/internal/quote"
	"github.com/glazeworks/window-storefront/pkg/config"
	"github.com/glazeworks/window-storefront/pkg/logger"
	"github.com/glazeworks/window-storefront/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gatherer prometheus.Gatherer,
	readiness map[string]controllers.Pinger,
	prober controllers.HealthProber,
	resolver *identity.Resolver,
	cartClient *cart.Client,
	calc *calculator.Calculator,
	exporter *quote.Exporter,
	redisClient *redis.Client,
) http.Handler {
	r := chi.NewRouter()

	// Without Redis both guards are pass-through.
	idempotency := func(next http.Handler) http.Handler { return next }
	calculateLimit := idempotency
	if redisClient != nil {
		idempotency = middleware.Idempotency(redisClient, logg)
		calculatePolicy := middleware.NewRateLimitPolicy("calculate", cfg.RateLimit.CalculateWindow, cfg.RateLimit.CalculateLimit)
		calculateLimit = middleware.RateLimit(calculatePolicy, redisClient, logg)
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/preview", controllers.Preview())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Identity(resolver, identity.CookieOptions{Secure: cfg.Cookie.Secure}, logg))

		r.Get("/", controllers.Page(cartClient, prober, logg))
		r.With(calculateLimit).Post("/calculate", controllers.Calculate(calc, logg))

		r.Post("/consent/accept", controllers.ConsentAccept(logg))
		r.Post("/consent/reject", controllers.ConsentReject(logg))

		r.Route("/cart", func(r chi.Router) {
			r.Use(idempotency)
			r.Get("/", controllers.CartFetch(cartClient, logg))
			r.Delete("/", controllers.CartClear(cartClient, logg))
			r.Post("/items", controllers.CartAdd(cartClient, logg))
			r.Delete("/items/{itemId}", controllers.CartRemove(cartClient, logg))
			r.Put("/items/{itemId}/quantity", controllers.CartSetQuantity(cartClient, logg))
			r.Post("/actions", controllers.CartAction(cartClient, logg))
			r.Post("/export", controllers.ExportQuote(cartClient, exporter, logg))
		})
	})

	return r
}

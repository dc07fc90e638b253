package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feastly-app/feastly-backend/api/controllers"
	"github.com/feastly-app/feastly-backend/api/middleware"
	"github.com/feastly-app/feastly-backend/internal/cart"
	"github.com/feastly-app/feastly-backend/internal/coupons"
	"github.com/feastly-app/feastly-backend/internal/orders"
	"github.com/feastly-app/feastly-backend/pkg/config"
	"github.com/feastly-app/feastly-backend/pkg/db"
	"github.com/feastly-app/feastly-backend/pkg/logger"
	"github.com/feastly-app/feastly-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	cartService cart.Service,
	couponService coupons.Service,
	orderService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.UserContext(logg))
		r.Use(middleware.Idempotency(redisClient, cfg.Quote.IdempotencyTTL, logg))

		r.Post("/cart/quote", controllers.CartQuote(cartService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.PlaceOrder(orderService, logg))
			r.Get("/{orderID}", controllers.OrderDetail(orderService, logg))
			r.Patch("/{orderID}/status", controllers.UpdateOrderStatus(orderService, logg))
		})

		r.Get("/coupons/{code}/eligibility", controllers.CouponEligibility(couponService, logg))
	})

	return r
}

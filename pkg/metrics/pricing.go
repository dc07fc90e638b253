package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records quote and order placement outcomes.
type PricingMetrics struct {
	quoteDuration *prometheus.HistogramVec
	quotes        *prometheus.CounterVec
	quoteFailures *prometheus.CounterVec
	summaryReads  prometheus.Counter
	ordersPlaced  prometheus.Counter
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	quoteDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_quote_duration_seconds",
		Help:    "Duration of cart pricing computations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"delivery_method"})
	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_quotes_total",
		Help: "Successful cart quotes.",
	}, []string{"delivery_method"})
	quoteFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_quote_failures_total",
		Help: "Failed cart quotes by error code.",
	}, []string{"code"})
	summaryReads := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_summary_cache_reads_total",
		Help: "Frozen quote summaries read back from the content-hash cache during order placement.",
	})
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders frozen from a priced cart.",
	})
	reg.MustRegister(quoteDuration, quotes, quoteFailures, summaryReads, ordersPlaced)
	return &PricingMetrics{
		quoteDuration: quoteDuration,
		quotes:        quotes,
		quoteFailures: quoteFailures,
		summaryReads:  summaryReads,
		ordersPlaced:  ordersPlaced,
	}
}

// ObserveQuote records a successful quote and its duration.
func (p *PricingMetrics) ObserveQuote(deliveryMethod string, duration time.Duration) {
	if p == nil || p.quotes == nil {
		return
	}
	p.quotes.WithLabelValues(normalizeLabel(deliveryMethod)).Inc()
	p.quoteDuration.WithLabelValues(normalizeLabel(deliveryMethod)).Observe(duration.Seconds())
}

// IncQuoteFailure increments the failure counter for the given error code.
func (p *PricingMetrics) IncQuoteFailure(code string) {
	if p == nil || p.quoteFailures == nil {
		return
	}
	p.quoteFailures.WithLabelValues(normalizeLabel(code)).Inc()
}

// IncSummaryCacheRead counts a frozen summary read back from the cache on
// the placement path.
func (p *PricingMetrics) IncSummaryCacheRead() {
	if p == nil || p.summaryReads == nil {
		return
	}
	p.summaryReads.Inc()
}

// IncOrderPlaced counts a successfully frozen order.
func (p *PricingMetrics) IncOrderPlaced() {
	if p == nil || p.ordersPlaced == nil {
		return
	}
	p.ordersPlaced.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatTurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_turns_total",
		Help: "Total number of chat turns handled, by route",
	}, []string{"route"})

	ChatTurnsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_turns_failed_total",
		Help: "Total number of chat turns that ended in the generic error reply",
	}, []string{"reason"})

	CatalogSearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_searches_total",
		Help: "Total number of catalog searches executed",
	})

	CatalogSearchEmptyTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_search_empty_total",
		Help: "Total number of catalog searches that returned no candidates",
	})

	SeatFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "search_seat_fallback_total",
		Help: "Total number of searches that degraded to the largest available seat count",
	})

	WhitelistRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whitelist_rejections_total",
		Help: "Total number of model-selected SKUs rejected by the session whitelist",
	})

	CardsRenderedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cards_rendered_total",
		Help: "Total number of product cards rendered",
	})

	CardsDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cards_dropped_total",
		Help: "Total number of product cards dropped at render time",
	}, []string{"reason"})

	PriceCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "price_cache_hits_total",
		Help: "Total number of price cache hits",
	})

	PriceCacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "price_cache_misses_total",
		Help: "Total number of price cache misses",
	}, []string{"reason"})

	PriceLookupLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "price_lookup_latency_seconds",
		Help:    "Latency of external price/stock lookups",
		Buckets: prometheus.DefBuckets,
	})

	ModelCallLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "model_call_latency_seconds",
		Help:    "Latency of model completion calls",
		Buckets: prometheus.DefBuckets,
	})

	ModelFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "model_fallbacks_total",
		Help: "Total number of model replies recovered via the parse fallback chain",
	}, []string{"stage"})

	OffersMadeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "offers_made_total",
		Help: "Total number of commercial offers appended to replies",
	}, []string{"type"})

	IntentFastPathTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intent_fast_path_total",
		Help: "Total number of turns routed directly to the closing flow",
	})

	EscalationsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "escalations_sent_total",
		Help: "Total number of escalation emails sent",
	})

	EscalationsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "escalations_failed_total",
		Help: "Total number of escalation emails that failed to send",
	})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sessions_active",
		Help: "Number of sessions currently held in memory",
	})

	SessionsSweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessions_swept_total",
		Help: "Total number of sessions evicted by the inactivity sweep",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)

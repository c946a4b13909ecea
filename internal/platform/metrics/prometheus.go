package metrics

import (
	"net/http"

	"github.com/Rakesh4440/fixify-plus/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Manager holds custom Prometheus metrics for the marketplace service.
type Manager struct {
	Registry                 *prometheus.Registry
	ListingsCreatedTotal     prometheus.Counter
	ListingUpdatesTotal      prometheus.Counter
	ListingDeletesTotal      prometheus.Counter
	ReviewsUpsertedTotal     prometheus.Counter
	EndorsementsToggledTotal prometheus.Counter
	ListingsVerifiedTotal    prometheus.Counter
	APIErrorsTotal           *prometheus.CounterVec
	APILatency               *prometheus.HistogramVec
}

// NewManager initializes and registers the service metrics on a dedicated registry.
func NewManager(serviceName string) *Manager {
	registry := prometheus.NewRegistry()

	listingsCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "listings_created_total",
		Help:      "Total number of listings created.",
	})
	listingUpdatesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "listing_updates_total",
		Help:      "Total number of listings updated.",
	})
	listingDeletesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "listing_deletes_total",
		Help:      "Total number of listings deleted.",
	})
	reviewsUpsertedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "reviews_upserted_total",
		Help:      "Total number of reviews created or replaced.",
	})
	endorsementsToggledTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "endorsements_toggled_total",
		Help:      "Total number of endorsement toggles.",
	})
	listingsVerifiedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "listings_verified_total",
		Help:      "Total number of listings promoted to verified.",
	})
	apiErrorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "api_errors_total",
		Help:      "Total number of API errors by route and error type.",
	}, []string{"route", "error_type"})
	apiLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "api_request_latency_seconds",
		Help:      "Latency of API requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	registry.MustRegister(
		listingsCreatedTotal,
		listingUpdatesTotal,
		listingDeletesTotal,
		reviewsUpsertedTotal,
		endorsementsToggledTotal,
		listingsVerifiedTotal,
		apiErrorsTotal,
		apiLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:                 registry,
		ListingsCreatedTotal:     listingsCreatedTotal,
		ListingUpdatesTotal:      listingUpdatesTotal,
		ListingDeletesTotal:      listingDeletesTotal,
		ReviewsUpsertedTotal:     reviewsUpsertedTotal,
		EndorsementsToggledTotal: endorsementsToggledTotal,
		ListingsVerifiedTotal:    listingsVerifiedTotal,
		APIErrorsTotal:           apiErrorsTotal,
		APILatency:               apiLatency,
	}
}

// StartMetricsServer starts an HTTP server exposing /metrics for the given registry.
func StartMetricsServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	appLogger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return server.ListenAndServe()
}

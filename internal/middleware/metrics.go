package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts failed Redis commands by command name. The cache package
// increments it from a go-redis hook.
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "plume_redis_errors_total",
		Help: "Total number of Redis command errors",
	},
	[]string{"command"},
)

// FeedCacheHits counts global feed snapshot cache hits and misses.
var FeedCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "plume_feed_cache_requests_total",
		Help: "Global feed snapshot cache lookups by outcome",
	},
	[]string{"outcome"},
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request-instrumentation handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}

package middleware

import (
	"strconv"
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogapp_redis_errors_total",
		Help: "Total number of failed Redis commands",
	}, []string{"command"})

	// RateLimitRejections counts requests answered with 429.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogapp_rate_limit_rejections_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"resource"})

	// HTTPErrorResponses counts 4xx and 5xx responses by route pattern.
	HTTPErrorResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogapp_http_error_responses_total",
		Help: "Total number of error responses by route and status",
	}, []string{"route", "status"})
)

var (
	promOnce     sync.Once
	promInstance *fiberprometheus.FiberPrometheus
)

// InitMetrics builds the fiberprometheus middleware for serviceName. The
// collectors live on the default registry, so later calls reuse the first one.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInstance = fiberprometheus.NewWithRegistry(
			prometheus.DefaultRegisterer,
			serviceName,
			"http",
			"",
			nil,
		)
	})
	return promInstance
}

// MetricsMiddleware records request metrics and counts error responses per route.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	base := prom.Middleware
	return func(c *fiber.Ctx) error {
		err := base(c)

		status := c.Response().StatusCode()
		if status >= fiber.StatusBadRequest {
			route := c.Route().Path
			HTTPErrorResponses.WithLabelValues(route, strconv.Itoa(status)).Inc()
		}
		return err
	}
}

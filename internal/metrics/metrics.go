// Package metrics 业务与 HTTP 指标（Prometheus）
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "phonecompare"

var (
	// VerdictsTotal 对比结论计算次数
	VerdictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verdicts_total",
		Help:      "Number of comparison verdicts computed.",
	})

	// PriceChecksTotal 降价检测结果：invalid / no_drop / disabled / dispatched / error
	PriceChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "price_checks_total",
		Help:      "Price-drop checks by outcome.",
	}, []string{"outcome"})

	// AlertEmailsTotal 降价邮件发送结果：sent / failed
	AlertEmailsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alert_emails_total",
		Help:      "Price-drop alert emails by result.",
	}, []string{"result"})

	// SubscriptionsTotal 订阅/退订次数
	SubscriptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alert_subscriptions_total",
		Help:      "Price alert subscribe/unsubscribe operations.",
	}, []string{"action"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// GinMiddleware 记录请求数与耗时，未匹配路由归到 "unmatched"
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

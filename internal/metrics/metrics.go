package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes recorded by LoginAttempt.
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginUnknownUser        = "unknown_user"
	LoginError              = "error"
)

type Metrics struct {
	registry   *prometheus.Registry
	httpReqCnt *prometheus.CounterVec
	httpDur    *prometheus.HistogramVec
	httpInfl   *prometheus.GaugeVec
	loginCnt   *prometheus.CounterVec
}

// New registers the collectors on a private registry under namespace.
func New(namespace string) *Metrics {
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Buckets: prometheus.DefBuckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: "http_requests_inflight"}, []string{"route"})
	loginCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "login_attempts_total"}, []string{"outcome"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl, loginCnt)

	return &Metrics{
		registry:   r,
		httpReqCnt: httpReqCnt,
		httpDur:    httpDur,
		httpInfl:   httpInfl,
		loginCnt:   loginCnt,
	}
}

// LoginAttempt counts one login by outcome. A nil receiver is a no-op.
func (m *Metrics) LoginAttempt(outcome string) {
	if m == nil {
		return
	}
	m.loginCnt.WithLabelValues(outcome).Inc()
}

// Middleware records count, latency and in-flight requests per route. A
// handler panic is recorded as a 500 and re-raised for the recovery
// middleware.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		inflight := m.httpInfl.WithLabelValues(route)
		inflight.Inc()
		start := time.Now()

		defer func() {
			inflight.Dec()
			code := c.Writer.Status()
			p := recover()
			if p != nil {
				code = http.StatusInternalServerError
			}
			status := strconv.Itoa(code)
			m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
			m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
			if p != nil {
				panic(p)
			}
		}()

		c.Next()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

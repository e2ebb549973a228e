package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry — собственный реестр prometheus, чтобы не тянуть глобальные метрики процесса
type Registry struct {
	reg *prometheus.Registry

	CartRemovals     prometheus.Counter
	CartSubmissions  *prometheus.CounterVec
	SubmitLatencySec prometheus.Histogram
	OrdersCreated    prometheus.Counter
	OrdersRejected   prometheus.Counter
	MessagesConsumed *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	removals := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pizzaria_cart_items_removed_total",
		Help: "Items removed from the cart.",
	})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pizzaria_cart_submissions_total",
		Help: "Order submissions from the cart by result.",
	}, []string{"result"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pizzaria_cart_submit_latency_seconds",
		Help:    "Time spent waiting for the order backend.",
		Buckets: prometheus.DefBuckets,
	})
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pizzaria_orders_created_total",
		Help: "Orders persisted by the backend.",
	})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pizzaria_orders_rejected_total",
		Help: "Orders rejected by validation.",
	})
	consumed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pizzaria_kafka_messages_total",
		Help: "Kafka order messages by outcome.",
	}, []string{"outcome"})

	r.MustRegister(removals, submissions, latency, created, rejected, consumed)
	return &Registry{
		reg:              r,
		CartRemovals:     removals,
		CartSubmissions:  submissions,
		SubmitLatencySec: latency,
		OrdersCreated:    created,
		OrdersRejected:   rejected,
		MessagesConsumed: consumed,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// ItemRemoved и SubmissionFinished реализуют cart.Recorder
func (r *Registry) ItemRemoved() { r.CartRemovals.Inc() }

func (r *Registry) SubmissionFinished(succeeded bool, elapsed time.Duration) {
	result := "failed"
	if succeeded {
		result = "succeeded"
	}
	r.CartSubmissions.WithLabelValues(result).Inc()
	r.SubmitLatencySec.Observe(elapsed.Seconds())
}

// OrderCreated и OrderRejected реализуют service.OrderMetrics
func (r *Registry) OrderCreated() { r.OrdersCreated.Inc() }
func (r *Registry) OrderRejected() { r.OrdersRejected.Inc() }

// MessageConsumed реализует kafka.ConsumerMetrics
func (r *Registry) MessageConsumed(outcome string) {
	r.MessagesConsumed.WithLabelValues(outcome).Inc()
}

package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AdminMetrics содержит метрики guard-проверок, каскадных удалений,
// переходов статусов и вызовов витрины.
type AdminMetrics struct {
	guardChecks    *prometheus.CounterVec
	cascadeDeletes *prometheus.CounterVec
	cascadeReviews prometheus.Counter

	peerCalls        *prometheus.CounterVec
	peerCallDuration *prometheus.HistogramVec

	statusTransitions *prometheus.CounterVec
	returnDecisions   *prometheus.CounterVec

	notificationsPersisted prometheus.Counter
	notificationPushFailed prometheus.Counter
}

// NewAdminMetrics создаёт метрики в default-регистраторе.
func NewAdminMetrics() *AdminMetrics {
	return newAdminMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newAdminMetricsWithRegisterer(registerer prometheus.Registerer) *AdminMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &AdminMetrics{
		guardChecks: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shopadmin_guard_checks_total",
			Help: "Total number of referential integrity checks",
		}, []string{"kind", "verdict"}),
		cascadeDeletes: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shopadmin_cascade_deletes_total",
			Help: "Total number of completed entity deletions",
		}, []string{"kind"}),
		cascadeReviews: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopadmin_cascade_reviews_purged_total",
			Help: "Total number of reviews hard-deleted by product cascades",
		}),
		peerCalls: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shopadmin_peer_calls_total",
			Help: "Total number of storefront internal API calls",
		}, []string{"endpoint", "outcome"}),
		peerCallDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "shopadmin_peer_call_duration_seconds",
			Help:    "Duration of storefront internal API calls in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"endpoint"}),
		statusTransitions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shopadmin_order_transitions_total",
			Help: "Total number of order status transitions applied",
		}, []string{"to"}),
		returnDecisions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shopadmin_return_decisions_total",
			Help: "Total number of processed return requests",
		}, []string{"decision"}),
		notificationsPersisted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopadmin_notifications_persisted_total",
			Help: "Total number of customer notifications persisted locally",
		}),
		notificationPushFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shopadmin_notification_push_failures_total",
			Help: "Total number of failed realtime notification pushes",
		}),
	}
}

// RecordGuardCheck фиксирует вердикт guard-проверки.
func (m *AdminMetrics) RecordGuardCheck(kind string, allowed bool) {
	if m == nil {
		return
	}
	verdict := "allowed"
	if !allowed {
		verdict = "denied"
	}
	m.guardChecks.WithLabelValues(kind, verdict).Inc()
}

// RecordCascadeDelete фиксирует завершённое удаление.
func (m *AdminMetrics) RecordCascadeDelete(kind string, count int) {
	if m == nil {
		return
	}
	m.cascadeDeletes.WithLabelValues(kind).Add(float64(count))
}

// RecordReviewsPurged фиксирует каскадную чистку отзывов.
func (m *AdminMetrics) RecordReviewsPurged(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.cascadeReviews.Add(float64(count))
}

// RecordPeerCall фиксирует результат и длительность вызова витрины.
func (m *AdminMetrics) RecordPeerCall(endpoint string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.peerCalls.WithLabelValues(endpoint, outcome).Inc()
	m.peerCallDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordTransition фиксирует применённый переход статуса.
func (m *AdminMetrics) RecordTransition(to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(to).Inc()
}

// RecordReturnDecision фиксирует решение по заявке на возврат.
func (m *AdminMetrics) RecordReturnDecision(decision string) {
	if m == nil {
		return
	}
	m.returnDecisions.WithLabelValues(decision).Inc()
}

// RecordNotificationPersisted фиксирует сохранённое уведомление.
func (m *AdminMetrics) RecordNotificationPersisted() {
	if m == nil {
		return
	}
	m.notificationsPersisted.Inc()
}

// RecordNotificationPushFailed фиксирует провал realtime-доставки.
func (m *AdminMetrics) RecordNotificationPushFailed() {
	if m == nil {
		return
	}
	m.notificationPushFailed.Inc()
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

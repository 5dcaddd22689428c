package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewAdminMetrics(t *testing.T) {
	m := newAdminMetricsWithRegisterer(prometheus.NewRegistry())

	if m == nil {
		t.Fatal("newAdminMetricsWithRegisterer should not return nil")
	}
	if m.guardChecks == nil {
		t.Error("guardChecks counter vec should not be nil")
	}
	if m.cascadeDeletes == nil {
		t.Error("cascadeDeletes counter vec should not be nil")
	}
	if m.cascadeReviews == nil {
		t.Error("cascadeReviews counter should not be nil")
	}
	if m.peerCalls == nil {
		t.Error("peerCalls counter vec should not be nil")
	}
	if m.peerCallDuration == nil {
		t.Error("peerCallDuration histogram vec should not be nil")
	}
	if m.statusTransitions == nil {
		t.Error("statusTransitions counter vec should not be nil")
	}
	if m.returnDecisions == nil {
		t.Error("returnDecisions counter vec should not be nil")
	}
	if m.notificationsPersisted == nil {
		t.Error("notificationsPersisted counter should not be nil")
	}
	if m.notificationPushFailed == nil {
		t.Error("notificationPushFailed counter should not be nil")
	}
}

func TestNewAdminMetrics_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := newAdminMetricsWithRegisterer(reg)
	second := newAdminMetricsWithRegisterer(reg)

	// Повторная регистрация переиспользует существующие коллекторы.
	if first.cascadeReviews != second.cascadeReviews {
		t.Error("repeated registration must reuse the existing counter")
	}
}

func TestRecordGuardCheck(t *testing.T) {
	m := newAdminMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordGuardCheck("product", true)
	m.RecordGuardCheck("product", false)
	m.RecordGuardCheck("product", false)

	metric := &dto.Metric{}
	if err := m.guardChecks.WithLabelValues("product", "denied").Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2.0 {
		t.Errorf("expected 2 denied checks, got %f", metric.Counter.GetValue())
	}
}

func TestRecordPeerCall(t *testing.T) {
	m := newAdminMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordPeerCall("POST /internal/add-points", nil, 50*time.Millisecond)
	m.RecordPeerCall("POST /internal/add-points", errors.New("timeout"), 3*time.Second)

	okMetric := &dto.Metric{}
	if err := m.peerCalls.WithLabelValues("POST /internal/add-points", "ok").Write(okMetric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if okMetric.Counter.GetValue() != 1.0 {
		t.Errorf("expected 1 ok call, got %f", okMetric.Counter.GetValue())
	}

	errMetric := &dto.Metric{}
	if err := m.peerCalls.WithLabelValues("POST /internal/add-points", "error").Write(errMetric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if errMetric.Counter.GetValue() != 1.0 {
		t.Errorf("expected 1 failed call, got %f", errMetric.Counter.GetValue())
	}

	histogram := &dto.Metric{}
	observer := m.peerCallDuration.WithLabelValues("POST /internal/add-points")
	if err := observer.(prometheus.Histogram).Write(histogram); err != nil {
		t.Fatalf("failed to write histogram: %v", err)
	}
	if histogram.Histogram.GetSampleCount() != 2 {
		t.Errorf("expected 2 duration samples, got %d", histogram.Histogram.GetSampleCount())
	}
}

func TestRecordReviewsPurged_IgnoresZero(t *testing.T) {
	m := newAdminMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordReviewsPurged(0)
	m.RecordReviewsPurged(3)

	metric := &dto.Metric{}
	if err := m.cascadeReviews.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 3.0 {
		t.Errorf("expected 3 purged reviews, got %f", metric.Counter.GetValue())
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *AdminMetrics

	// Все методы должны быть no-op на nil-получателе.
	m.RecordGuardCheck("product", true)
	m.RecordCascadeDelete("product", 1)
	m.RecordReviewsPurged(1)
	m.RecordPeerCall("GET /", nil, time.Millisecond)
	m.RecordTransition("shipped")
	m.RecordReturnDecision("approved")
	m.RecordNotificationPersisted()
	m.RecordNotificationPushFailed()
}

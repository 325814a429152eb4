package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	if m == nil {
		t.Fatal("New() returned nil")
	}

	// Verify all metric fields are initialized
	if m.QueriesTotal == nil {
		t.Error("QueriesTotal is nil")
	}
	if m.QueryDurationSeconds == nil {
		t.Error("QueryDurationSeconds is nil")
	}
	if m.IntentConfidence == nil {
		t.Error("IntentConfidence is nil")
	}
	if m.RetrievalDurationSeconds == nil {
		t.Error("RetrievalDurationSeconds is nil")
	}
	if m.RetrievalResults == nil {
		t.Error("RetrievalResults is nil")
	}
	if m.LLMRequestsTotal == nil {
		t.Error("LLMRequestsTotal is nil")
	}
	if m.LLMDurationSeconds == nil {
		t.Error("LLMDurationSeconds is nil")
	}
	if m.LLMRetriesTotal == nil {
		t.Error("LLMRetriesTotal is nil")
	}
	if m.LLMFallbacksTotal == nil {
		t.Error("LLMFallbacksTotal is nil")
	}
	if m.RateLimiterDropped == nil {
		t.Error("RateLimiterDropped is nil")
	}
	if m.WSSessionsActive == nil {
		t.Error("WSSessionsActive is nil")
	}
	if m.WSMessagesTotal == nil {
		t.Error("WSMessagesTotal is nil")
	}
	if m.KnowledgeEntries == nil {
		t.Error("KnowledgeEntries is nil")
	}
	if m.KnowledgeReloads == nil {
		t.Error("KnowledgeReloads is nil")
	}
}

func TestRecordQuery(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordQuery("process", "success", 50*time.Millisecond)
	m.RecordQuery("process", "success", 80*time.Millisecond)
	m.RecordQuery("greeting", "fallback", time.Millisecond)

	if got := testutil.ToFloat64(m.QueriesTotal.WithLabelValues("process", "success")); got != 2 {
		t.Errorf("process/success count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.QueriesTotal.WithLabelValues("greeting", "fallback")); got != 1 {
		t.Errorf("greeting/fallback count = %v, want 1", got)
	}
}

func TestRecordLLM(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordLLMRequest("dashscope", "success", 2*time.Second)
	m.RecordLLMRequest("dashscope", "error", time.Second)
	m.RecordLLMRetry("dashscope")
	m.RecordLLMFallback("dashscope", "gemini")

	if got := testutil.ToFloat64(m.LLMRequestsTotal.WithLabelValues("dashscope", "success")); got != 1 {
		t.Errorf("llm success count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.LLMRetriesTotal.WithLabelValues("dashscope")); got != 1 {
		t.Errorf("llm retry count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.LLMFallbacksTotal.WithLabelValues("dashscope", "gemini")); got != 1 {
		t.Errorf("llm fallback count = %v, want 1", got)
	}
}

func TestWSSessionGauge(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.WSSessionOpened()
	m.WSSessionOpened()
	m.WSSessionClosed()

	if got := testutil.ToFloat64(m.WSSessionsActive); got != 1 {
		t.Errorf("active sessions = %v, want 1", got)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *Metrics

	// None of these may panic when metrics are disabled
	m.RecordQuery("process", "success", time.Millisecond)
	m.RecordIntent("process", 1.0)
	m.RecordRetrieval(time.Millisecond, 3)
	m.RecordLLMRequest("dashscope", "success", time.Second)
	m.RecordLLMRetry("dashscope")
	m.RecordLLMFallback("dashscope", "gemini")
	m.RecordRateLimiterDrop("ip")
	m.WSSessionOpened()
	m.WSSessionClosed()
	m.RecordWSMessage("out")
	m.SetKnowledgeEntries(10)
	m.RecordKnowledgeReload("success")
}

func TestSeparateRegistries(t *testing.T) {
	// Two instances must not collide on registration
	m1 := New(prometheus.NewRegistry())
	m2 := New(prometheus.NewRegistry())

	m1.RecordQuery("contact", "success", time.Millisecond)
	if got := testutil.ToFloat64(m2.QueriesTotal.WithLabelValues("contact", "success")); got != 0 {
		t.Errorf("m2 count = %v, want 0", got)
	}
}

package genai

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bjtuwh/campus-assistant-go/internal/logger"
)

// fakeGenerator scripts a sequence of responses for fallback tests.
type fakeGenerator struct {
	provider Provider
	text     string
	errs     []error // per-call errors; nil entry means success
	calls    int
	closed   bool
}

func (f *fakeGenerator) nextErr() error {
	var err error
	if f.calls < len(f.errs) {
		err = f.errs[f.calls]
	}
	f.calls++
	return err
}

func (f *fakeGenerator) Generate(_ context.Context, _, _ string, _ int) (string, error) {
	if err := f.nextErr(); err != nil {
		return "", err
	}
	return f.text, nil
}

func (f *fakeGenerator) GenerateStream(_ context.Context, _, _ string, _ int, onChunk func(string) error) error {
	if err := f.nextErr(); err != nil {
		return err
	}
	for _, chunk := range ChunkText(f.text, 2) {
		if err := onChunk(chunk); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeGenerator) Provider() Provider { return f.provider }
func (f *fakeGenerator) Close() error       { f.closed = true; return nil }

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func newFallback(t *testing.T, gens ...Generator) *FallbackGenerator {
	t.Helper()
	return NewFallbackGenerator(gens, fastRetry(), nil, logger.NewWithWriter("error", io.Discard))
}

func TestFallbackGeneratePrimarySucceeds(t *testing.T) {
	primary := &fakeGenerator{provider: ProviderDashScope, text: "好的，已为你查到。"}
	secondary := &fakeGenerator{provider: ProviderGemini, text: "fallback"}

	got, err := newFallback(t, primary, secondary).Generate(context.Background(), "q", "s", 100)
	if err != nil {
		t.Fatalf("Generate() = %v, want nil", err)
	}
	if got != "好的，已为你查到。" {
		t.Errorf("text = %q, want primary answer", got)
	}
	if secondary.calls != 0 {
		t.Error("secondary should not be called when primary succeeds")
	}
}

func TestFallbackGenerateRetriesTransientError(t *testing.T) {
	primary := &fakeGenerator{
		provider: ProviderDashScope,
		text:     "answer",
		errs:     []error{errors.New("503 service unavailable"), nil},
	}

	got, err := newFallback(t, primary).Generate(context.Background(), "q", "s", 100)
	if err != nil {
		t.Fatalf("Generate() = %v, want nil", err)
	}
	if got != "answer" {
		t.Errorf("text = %q, want %q", got, "answer")
	}
	if primary.calls != 2 {
		t.Errorf("primary calls = %d, want 2", primary.calls)
	}
}

func TestFallbackGenerateFallsBackOnQuotaError(t *testing.T) {
	primary := &fakeGenerator{
		provider: ProviderDashScope,
		errs:     []error{errors.New("quota exceeded")},
	}
	secondary := &fakeGenerator{provider: ProviderGemini, text: "secondary answer"}

	got, err := newFallback(t, primary, secondary).Generate(context.Background(), "q", "s", 100)
	if err != nil {
		t.Fatalf("Generate() = %v, want nil", err)
	}
	if got != "secondary answer" {
		t.Errorf("text = %q, want secondary answer", got)
	}
	// Quota errors skip the same-provider retry
	if primary.calls != 1 {
		t.Errorf("primary calls = %d, want 1", primary.calls)
	}
}

func TestFallbackGenerateStopsOnPermanentError(t *testing.T) {
	primary := &fakeGenerator{
		provider: ProviderDashScope,
		errs:     []error{errors.New("401 unauthorized")},
	}
	secondary := &fakeGenerator{provider: ProviderGemini, text: "never"}

	_, err := newFallback(t, primary, secondary).Generate(context.Background(), "q", "s", 100)
	if err == nil {
		t.Fatal("Generate() = nil, want error")
	}
	if secondary.calls != 0 {
		t.Error("permanent error must not trigger provider fallback")
	}
}

func TestFallbackGenerateAllProvidersFail(t *testing.T) {
	primary := &fakeGenerator{
		provider: ProviderDashScope,
		errs:     []error{errors.New("503"), errors.New("503")},
	}
	secondary := &fakeGenerator{
		provider: ProviderGemini,
		errs:     []error{errors.New("503"), errors.New("503")},
	}

	_, err := newFallback(t, primary, secondary).Generate(context.Background(), "q", "s", 100)
	if err == nil {
		t.Fatal("Generate() = nil, want error")
	}
	if !strings.Contains(err.Error(), "all providers failed") {
		t.Errorf("error = %v, want all-providers-failed", err)
	}
}

func TestFallbackGenerateEmptyChain(t *testing.T) {
	_, err := newFallback(t).Generate(context.Background(), "q", "s", 100)
	if err == nil {
		t.Fatal("Generate() with empty chain = nil, want error")
	}
}

func TestFallbackGenerateStream(t *testing.T) {
	primary := &fakeGenerator{provider: ProviderDashScope, text: "报销流程说明"}

	var got strings.Builder
	err := newFallback(t, primary).GenerateStream(context.Background(), "q", "s", 100, func(chunk string) error {
		got.WriteString(chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("GenerateStream() = %v, want nil", err)
	}
	if got.String() != "报销流程说明" {
		t.Errorf("streamed = %q, want full text", got.String())
	}
}

func TestFallbackGenerateStreamFallsBackBeforeFirstChunk(t *testing.T) {
	primary := &fakeGenerator{
		provider: ProviderDashScope,
		errs:     []error{errors.New("quota exceeded")},
	}
	secondary := &fakeGenerator{provider: ProviderGemini, text: "ok"}

	var got strings.Builder
	err := newFallback(t, primary, secondary).GenerateStream(context.Background(), "q", "s", 100, func(chunk string) error {
		got.WriteString(chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("GenerateStream() = %v, want nil", err)
	}
	if got.String() != "ok" {
		t.Errorf("streamed = %q, want %q", got.String(), "ok")
	}
}

func TestFallbackClose(t *testing.T) {
	primary := &fakeGenerator{provider: ProviderDashScope}
	secondary := &fakeGenerator{provider: ProviderGemini}

	if err := newFallback(t, primary, secondary).Close(); err != nil {
		t.Fatalf("Close() = %v, want nil", err)
	}
	if !primary.closed || !secondary.closed {
		t.Error("Close() must close every generator in the chain")
	}
}

func TestBuildRAGPrompt(t *testing.T) {
	prompt := BuildRAGPrompt("门诊报销比例是多少", "【知识条目 1】...")
	if !strings.Contains(prompt, "门诊报销比例是多少") {
		t.Error("prompt must contain the query")
	}
	if !strings.Contains(prompt, "【知识条目 1】") {
		t.Error("prompt must contain the knowledge context")
	}
	if !strings.Contains(prompt, "知识库检索结果") {
		t.Error("prompt must contain the context header")
	}
}

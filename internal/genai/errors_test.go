package genai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	domerrors "github.com/bjtuwh/campus-assistant-go/internal/errors"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorAction
	}{
		{"nil error", nil, ActionFail},
		{"context canceled", context.Canceled, ActionFail},
		{"deadline exceeded", context.DeadlineExceeded, ActionRetry},
		{"rate limit", errors.New("429 Too Many Requests"), ActionRetry},
		{"quota exhausted", errors.New("quota exceeded for this month"), ActionFallback},
		{"insufficient balance", errors.New("Arrearage: insufficient balance"), ActionFallback},
		{"server error", errors.New("500 internal server error"), ActionRetry},
		{"bad gateway", errors.New("502 bad gateway"), ActionRetry},
		{"overloaded", errors.New("model is overloaded"), ActionRetry},
		{"timeout", errors.New("request timeout"), ActionRetry},
		{"connection refused", errors.New("connection refused"), ActionRetry},
		{"bad request", errors.New("400 bad request"), ActionFail},
		{"unauthorized", errors.New("401 unauthorized"), ActionFail},
		{"invalid api key", errors.New("invalid api key provided"), ActionFail},
		{"forbidden", errors.New("403 forbidden"), ActionFail},
		{"not found", errors.New("404 model not found"), ActionFail},
		{"unknown defaults to retry", errors.New("something odd happened"), ActionRetry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassifyErrorStatusCode(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   ErrorAction
	}{
		{"429 retries", 429, ActionRetry},
		{"408 retries", 408, ActionRetry},
		{"500 retries", 500, ActionRetry},
		{"503 retries", 503, ActionRetry},
		{"402 falls back", 402, ActionFallback},
		{"401 fails", 401, ActionFail},
		{"404 fails", 404, ActionFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domerrors.NewLLMError("dashscope", tt.status, errors.New("api error"))
			if got := ClassifyError(err); got != tt.want {
				t.Errorf("ClassifyError(status=%d) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestClassifyErrorWrapped(t *testing.T) {
	inner := domerrors.NewLLMError("gemini", 401, errors.New("bad key"))
	wrapped := fmt.Errorf("generate: %w", inner)
	if got := ClassifyError(wrapped); got != ActionFail {
		t.Errorf("ClassifyError(wrapped 401) = %v, want ActionFail", got)
	}
}

func TestIsPermanent(t *testing.T) {
	if !IsPermanent(errors.New("403 forbidden")) {
		t.Error("403 should be permanent")
	}
	if IsPermanent(errors.New("503 unavailable")) {
		t.Error("503 should not be permanent")
	}
}

func TestErrorActionString(t *testing.T) {
	tests := []struct {
		action ErrorAction
		want   string
	}{
		{ActionRetry, "retry"},
		{ActionFallback, "fallback"},
		{ActionFail, "fail"},
		{ErrorAction(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.action.String(); got != tt.want {
			t.Errorf("ErrorAction(%d).String() = %q, want %q", tt.action, got, tt.want)
		}
	}
}

// Package genai generates natural-language answers from retrieved
// knowledge entries using LLM APIs (DashScope/Qwen and Gemini).
// This file contains error classification for retry/fallback logic.
package genai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	domerrors "github.com/bjtuwh/campus-assistant-go/internal/errors"
)

// ErrorAction defines the action to take based on error type.
type ErrorAction int

const (
	// ActionRetry indicates the request should be retried with the same provider.
	ActionRetry ErrorAction = iota
	// ActionFallback indicates fallback to another provider should be attempted.
	ActionFallback
	// ActionFail indicates the request should fail immediately (permanent error).
	ActionFail
)

// String returns a human-readable string for the error action.
func (a ErrorAction) String() string {
	switch a {
	case ActionRetry:
		return "retry"
	case ActionFallback:
		return "fallback"
	case ActionFail:
		return "fail"
	default:
		return "unknown"
	}
}

// ClassifyError determines the appropriate action based on the error:
//   - Transient errors (429, 5xx, network) → Retry
//   - Quota exhaustion → Fallback to other provider
//   - Permanent errors (400, 401, 403, 404) → Fail immediately
func ClassifyError(err error) ErrorAction {
	if err == nil {
		return ActionFail
	}

	// Context errors first
	if errors.Is(err, context.Canceled) {
		return ActionFail
	}
	if errors.Is(err, context.DeadlineExceeded) {
		// Timeout can be retried, but may need fallback if persistent
		return ActionRetry
	}

	// Wrapped provider error with a status code
	var llmErr *domerrors.LLMError
	if errors.As(err, &llmErr) && llmErr.StatusCode > 0 {
		return classifyStatusCode(llmErr.StatusCode)
	}

	// Parse error message for status codes and patterns
	errStr := strings.ToLower(err.Error())

	// Quota exhaustion first (more severe, immediate fallback)
	if containsAny(errStr, "quota", "daily limit", "monthly limit", "billing", "insufficient balance") {
		return ActionFallback
	}

	// Rate limiting (transient, can retry after backoff)
	if containsAny(errStr, "429", "rate limit", "too many requests", "throttl", "resource_exhausted") {
		return ActionRetry
	}

	// Transient server errors
	if containsAny(errStr, "unavailable", "503", "502", "500", "504",
		"internal server error", "bad gateway", "gateway timeout",
		"overloaded", "capacity") {
		return ActionRetry
	}

	// Timeout/conflict
	if containsAny(errStr, "408", "409", "timeout", "deadline", "connection") {
		return ActionRetry
	}

	// Permanent client errors
	if containsAny(errStr, "400", "invalid", "bad request", "malformed") {
		return ActionFail
	}
	if containsAny(errStr, "401", "unauthorized", "unauthenticated", "invalid api key") {
		return ActionFail
	}
	if containsAny(errStr, "403", "forbidden", "permission denied") {
		return ActionFail
	}
	if containsAny(errStr, "404", "not found") {
		return ActionFail
	}
	if containsAny(errStr, "422", "unprocessable") {
		return ActionFail
	}

	// Default: retry for unknown errors (conservative approach)
	return ActionRetry
}

// classifyStatusCode determines action based on HTTP status code.
func classifyStatusCode(statusCode int) ErrorAction {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return ActionRetry
	case statusCode == http.StatusRequestTimeout:
		return ActionRetry
	case statusCode == http.StatusConflict:
		return ActionRetry
	case statusCode >= 500 && statusCode < 600:
		return ActionRetry
	case statusCode == http.StatusPaymentRequired:
		return ActionFallback // quota/billing
	case statusCode >= 400 && statusCode < 500:
		return ActionFail
	default:
		return ActionRetry
	}
}

// IsPermanent reports whether the error should not be retried.
func IsPermanent(err error) bool {
	return ClassifyError(err) == ActionFail
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

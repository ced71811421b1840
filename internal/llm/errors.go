package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrEmptyResponse is returned when the model produced no content at all.
var ErrEmptyResponse = errors.New("no response from model")

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates content that is not JSON or does not match
// the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid model response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model provider unavailable: %v", e.Err)
	}
	return "model provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was cut off at MaxTokens.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "model response truncated: max tokens exceeded"
}

// ErrorKind values, recorded in logs and span attributes.
const (
	KindCanceled        = "canceled"
	KindTimeout         = "timeout"
	KindMaxTokens       = "max_tokens"
	KindInvalidResponse = "invalid_response"
	KindEmptyResponse   = "empty_response"
	KindRateLimit       = "rate_limit"
	KindUnavailable     = "unavailable"
	KindOther           = "other"
)

// ErrorKind classifies a provider error. It returns "" for nil.
func ErrorKind(err error) string {
	var (
		maxTok  *ErrMaxTokensExceeded
		invalid *ErrInvalidResponse
		limited *ErrRateLimit
		down    *ErrProviderUnavailable
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &maxTok):
		return KindMaxTokens
	case errors.As(err, &invalid):
		return KindInvalidResponse
	case errors.Is(err, ErrEmptyResponse):
		return KindEmptyResponse
	case errors.As(err, &limited):
		return KindRateLimit
	case errors.As(err, &down):
		return KindUnavailable
	}
	return KindOther
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"canceled", context.Canceled, KindCanceled},
		{"wrapped deadline", &ErrProviderUnavailable{Err: context.DeadlineExceeded}, KindTimeout},
		{"max tokens", &ErrMaxTokensExceeded{}, KindMaxTokens},
		{"invalid", &ErrInvalidResponse{Err: errors.New("bad json")}, KindInvalidResponse},
		{"empty", fmt.Errorf("story: %w", ErrEmptyResponse), KindEmptyResponse},
		{"rate limit", &ErrRateLimit{Err: errors.New("429")}, KindRateLimit},
		{"unavailable", &ErrProviderUnavailable{}, KindUnavailable},
		{"other", errors.New("boom"), KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorKind(tt.err); got != tt.want {
				t.Errorf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

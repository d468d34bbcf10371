package enrich

import (
	"context"
	"errors"
	"net"
	"strings"

	"casefile/pkg/casefile"
	"casefile/pkg/llm"
)

// Error type labels used in metrics and traces.
const (
	ErrTypeRateLimit  = "rate_limit"
	ErrTypeRemote     = "remote"
	ErrTypeValidation = "validation"
	ErrTypeStorage    = "storage"
	ErrTypeTimeout    = "timeout"
	ErrTypeNetwork    = "network"
	ErrTypeUnknown    = "unknown"
)

// ClassifyError maps an error to its type label so failures can be grouped
// by category in metrics and traces.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, llm.ErrServiceBusy) {
		return ErrTypeRateLimit
	}
	var remoteErr *llm.RemoteCallError
	if errors.As(err, &remoteErr) {
		return ErrTypeRemote
	}
	var validationErr *casefile.ValidationError
	if errors.As(err, &validationErr) {
		return ErrTypeValidation
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTypeTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return ErrTypeTimeout
	case isNetworkError(err, msg):
		return ErrTypeNetwork
	case strings.Contains(msg, "persist") || strings.Contains(msg, "database") || strings.Contains(msg, "sql"):
		return ErrTypeStorage
	case strings.Contains(msg, "validation") || strings.Contains(msg, "required") || strings.Contains(msg, "cannot be empty"):
		return ErrTypeValidation
	default:
		return ErrTypeUnknown
	}
}

func isNetworkError(err error, msg string) bool {
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "network is unreachable") ||
		strings.Contains(msg, "dial tcp")
}

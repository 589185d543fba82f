package failover

import (
	"context"
	"errors"
	"io/fs"
	"strings"
)

// Reason says why an error is worth another attempt in a different region.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonQuota       Reason = "quota_exhausted"
	ReasonUnavailable Reason = "service_unavailable"
)

var (
	quotaMarkers = []string{
		"429",
		"resource exhausted",
		"resource_exhausted",
	}
	unavailableMarkers = []string{
		"503",
		"service unavailable",
		// the model answered but without usage metadata; seen under load
		"candidates token count is none",
	}
)

// Classify inspects the error text. Context errors and local file errors are
// never retryable, whatever their message contains.
func Classify(err error) Reason {
	if err == nil {
		return ReasonNone
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ReasonNone
	}
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return ReasonNone
	}

	msg := strings.ToLower(err.Error())
	for _, m := range quotaMarkers {
		if strings.Contains(msg, m) {
			return ReasonQuota
		}
	}
	for _, m := range unavailableMarkers {
		if strings.Contains(msg, m) {
			return ReasonUnavailable
		}
	}
	return ReasonNone
}

// IsRetryable reports whether err should move the call to the next region.
func IsRetryable(err error) bool {
	return Classify(err) != ReasonNone
}

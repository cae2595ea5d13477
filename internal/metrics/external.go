package metrics

import (
	"context"
	"errors"
	"net"
	"time"
)

// RecordExternalCall records a call to an external dependency such as S3 or redis
func (m *Metrics) RecordExternalCall(service, operation string, duration time.Duration, err error) {
	m.safeExecute("RecordExternalCall", func() {
		m.ExternalCallDuration.WithLabelValues(service, operation).Observe(duration.Seconds())

		if err != nil {
			m.ExternalCallErrors.WithLabelValues(service, operation, getErrorType(err)).Inc()
		}
	})
}

// getErrorType categorizes call failures
func getErrorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return "timeout"
		}
		return "network_error"
	}
	return "unknown_error"
}

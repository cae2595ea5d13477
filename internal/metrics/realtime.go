package metrics

// Notification delivery paths
const (
	NotifyLocal = "local"
	NotifyRelay = "relay"
	// NotifyFallback is a local broadcast after the relay publish failed
	NotifyFallback = "fallback"
)

// SetWebSocketClients sets the number of connected subscribers
func (m *Metrics) SetWebSocketClients(count int) {
	m.safeExecute("SetWebSocketClients", func() {
		m.WebSocketClients.Set(float64(count))
	})
}

// RecordNotification counts a sync notification sent through path
func (m *Metrics) RecordNotification(path string) {
	m.safeExecute("RecordNotification", func() {
		m.NotificationsSent.WithLabelValues(path).Inc()
	})
}

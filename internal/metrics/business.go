package metrics

// IncrementProjectCreated increments project creation counter
func (m *Metrics) IncrementProjectCreated() {
	m.safeExecute("IncrementProjectCreated", func() {
		m.ProjectCreatedTotal.Inc()
	})
}

// IncrementIssueCreated increments issue creation counter
func (m *Metrics) IncrementIssueCreated() {
	m.safeExecute("IncrementIssueCreated", func() {
		m.IssueCreatedTotal.Inc()
	})
}

// RecordPhaseTransition counts an automatic move of a project into phase to
func (m *Metrics) RecordPhaseTransition(to string) {
	m.safeExecute("RecordPhaseTransition", func() {
		m.PhaseTransitionsTotal.WithLabelValues(to).Inc()
	})
}

// SetProjectsTotal sets total projects gauge
func (m *Metrics) SetProjectsTotal(count int64) {
	m.safeExecute("SetProjectsTotal", func() {
		m.ProjectsTotal.Set(float64(count))
	})
}

// SetIssuesTotal sets total issues gauge
func (m *Metrics) SetIssuesTotal(count int64) {
	m.safeExecute("SetIssuesTotal", func() {
		m.IssuesTotal.Set(float64(count))
	})
}

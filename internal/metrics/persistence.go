package metrics

import "time"

// RecordFlush records one snapshot flush attempt
func (m *Metrics) RecordFlush(trigger string, duration time.Duration, err error) {
	m.safeExecute("RecordFlush", func() {
		result := "success"
		if err != nil {
			result = "failure"
		}
		m.SnapshotFlushTotal.WithLabelValues(trigger, result).Inc()
		m.SnapshotFlushDuration.WithLabelValues(trigger).Observe(duration.Seconds())
	})
}

// RecordJobRun records one scheduled job execution
func (m *Metrics) RecordJobRun(job string, err error) {
	m.safeExecute("RecordJobRun", func() {
		result := "success"
		if err != nil {
			result = "failure"
		}
		m.JobRunsTotal.WithLabelValues(job, result).Inc()
	})
}

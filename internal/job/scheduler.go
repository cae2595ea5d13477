package job

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}

// NewScheduler creates a cron scheduler whose jobs recover from panics and never overlap themselves
func NewScheduler(logger *zap.Logger) *cron.Cron {
	l := cronLogger{logger: logger.Named("cron").Sugar()}
	return cron.New(
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)
}

// Schedule registers job under spec. An empty spec leaves the job unscheduled.
func Schedule(c *cron.Cron, name, spec string, j cron.Job, logger *zap.Logger) error {
	if spec == "" {
		logger.Info("Job not scheduled", zap.String("job", name))
		return nil
	}
	if _, err := c.AddJob(spec, j); err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}
	logger.Info("Job scheduled", zap.String("job", name), zap.String("schedule", spec))
	return nil
}

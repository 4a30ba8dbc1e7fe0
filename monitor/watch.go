package monitor

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Watch runs RunOnce immediately and then on schedule (standard 5-field cron
// or descriptors like "@every 30m") until ctx is done. A run that is still
// going when the next one is due causes that one to be skipped, so runs never
// overlap. onRun, if not nil, receives every result.
func (m *Monitor) Watch(ctx context.Context, schedule string, onRun func(*RunResult)) error {
	logger := cronLogger{m.logger.Sugar()}

	job := cron.NewChain(
		cron.Recover(logger),
		cron.SkipIfStillRunning(logger),
	).Then(cron.FuncJob(func() {
		result := m.RunOnce(ctx)
		if onRun != nil {
			onRun(result)
		}
	}))

	c := cron.New(cron.WithLogger(logger))
	if _, err := c.AddJob(schedule, job); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	m.logger.Info("watching", zap.String("schedule", schedule), zap.String("url", m.config.ListingURL))

	job.Run()
	if ctx.Err() != nil {
		return nil
	}

	c.Start()
	<-ctx.Done()

	m.logger.Info("stopping watch, waiting for the running job")
	<-c.Stop().Done()

	return nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}

package jobs

import (
	"context"
	"fmt"

	"marketplace/internal/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context)
}

// JobManager owns the cron scheduler. A job never overlaps with its own
// previous run; a run that is still busy when the next tick fires is skipped.
type JobManager struct {
	cron *cron.Cron
	log  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewJobManager accepts six-field cron expressions (with seconds) as well as
// descriptors such as "@every 30s".
func NewJobManager(log *zap.Logger) *JobManager {
	log = logger.Component(log, "jobs")
	ctx, cancel := context.WithCancel(context.Background())

	return &JobManager{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cronLogger{log}), cron.SkipIfStillRunning(cronLogger{log})),
		),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers job under the given schedule.
func (m *JobManager) Add(schedule string, job Job) error {
	_, err := m.cron.AddFunc(schedule, func() {
		job.Run(m.ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule %s job %q: %w", job.Name(), schedule, err)
	}

	m.log.Info("job scheduled", zap.String("job", job.Name()), zap.String("schedule", schedule))
	return nil
}

func (m *JobManager) Start() {
	m.cron.Start()
	m.log.Info("jobs started", zap.Int("count", len(m.cron.Entries())))
}

// Stop cancels running jobs and waits for them to return or for ctx to end.
func (m *JobManager) Stop(ctx context.Context) {
	done := m.cron.Stop()
	m.cancel()

	select {
	case <-done.Done():
		m.log.Info("jobs stopped")
	case <-ctx.Done():
		m.log.Warn("jobs did not stop in time", zap.Error(ctx.Err()))
	}
}

// cronLogger adapts zap to the logger interface robfig/cron expects.
type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}

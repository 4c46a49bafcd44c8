package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a unit of periodic work. Its context is cancelled when the
// scheduler stops.
type Job func(ctx context.Context) error

// Scheduler runs named jobs on cron expressions. A tick that fires while the
// previous run of the same job is still going is skipped.
type Scheduler struct {
	cron     *cron.Cron
	logger   cronLogger
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	startup  []cron.Job
	starting sync.WaitGroup
	stopOnce sync.Once
}

func New(log *zap.Logger) *Scheduler {
	cl := cronLogger{log.Sugar()}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithParser(parser), cron.WithLogger(cl), cron.WithChain(cron.Recover(cl))),
		logger: cl,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers job on a cron schedule. With runOnStart the job also runs
// once when the scheduler starts; that run shares the overlap guard with
// the ticks.
func (s *Scheduler) Add(name, schedule string, runOnStart bool, job Job) error {
	j := cron.NewChain(cron.SkipIfStillRunning(s.logger)).Then(cron.FuncJob(func() { s.run(name, job) }))
	if _, err := s.cron.AddJob(schedule, j); err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	if runOnStart {
		s.startup = append(s.startup, j)
	}
	s.log.Info("job scheduled", zap.String("job", name), zap.String("schedule", schedule))
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	start := time.Now()
	if err := job(s.ctx); err != nil {
		s.log.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
		return
	}
	s.log.Debug("scheduled job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
}

// Run starts the scheduler and blocks until ctx is done, then stops it.
func (s *Scheduler) Run(ctx context.Context) error {
	s.starting.Add(len(s.startup))
	s.cron.Start()
	for _, j := range s.startup {
		go func(j cron.Job) {
			defer s.starting.Done()
			j.Run()
		}(j)
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

// Stop cancels running jobs and waits for them to return, startup runs
// included.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		<-s.cron.Stop().Done()
		s.starting.Wait()
		s.log.Info("scheduler stopped")
	})
}

type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

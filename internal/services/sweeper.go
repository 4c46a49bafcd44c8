package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fathima-sithara/social-service/internal/utils"
)

// DefaultStoryMaxAge is how long a story lives before the sweeper removes it.
const DefaultStoryMaxAge = 48 * time.Hour

type SweepReport struct {
	Scanned     int `json:"scanned"`
	Deleted     int `json:"deleted"`
	Failed      int `json:"failed"`
	MediaFailed int `json:"media_failed"`
}

type SweepObserver interface {
	SweepFinished(r SweepReport)
}

// Sweeper deletes expired stories one at a time. Running it twice in a row
// is safe: the second run finds nothing past the threshold.
type Sweeper struct {
	stories  *StoryService
	log      *zap.Logger
	now      func() time.Time
	limiter  *rate.Limiter
	observer SweepObserver
}

type SweeperOption func(*Sweeper)

func WithClock(now func() time.Time) SweeperOption {
	return func(s *Sweeper) { s.now = now }
}

// WithRate caps how many stories are deleted per second. Zero or less
// means unlimited.
func WithRate(perSecond float64) SweeperOption {
	return func(s *Sweeper) {
		if perSecond > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

func WithSweepObserver(o SweepObserver) SweeperOption {
	return func(s *Sweeper) { s.observer = o }
}

func NewSweeper(stories *StoryService, log *zap.Logger, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		stories: stories,
		log:     log,
		now:     time.Now,
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Sweep deletes every story created more than maxAge ago. A failure on one
// story is counted and logged; the sweep carries on with the next.
func (s *Sweeper) Sweep(ctx context.Context, maxAge time.Duration) (SweepReport, error) {
	var report SweepReport
	cutoff := s.now().Add(-maxAge)

	expired, err := s.stories.repo.FindOlderThan(ctx, cutoff)
	if err != nil {
		s.log.Error("story sweep query failed", zap.Error(err))
		return report, err
	}
	report.Scanned = len(expired)

	for _, story := range expired {
		if err := s.limiter.Wait(ctx); err != nil {
			s.log.Warn("story sweep interrupted", zap.Error(err), zap.Int("deleted", report.Deleted))
			s.finish(report, cutoff)
			return report, err
		}
		res, err := s.stories.purge(ctx, story)
		if res != nil && res.Media != nil && !res.Media.OK {
			report.MediaFailed++
		}
		switch {
		case errors.Is(err, utils.ErrNotFound):
			// removed concurrently
		case err != nil:
			report.Failed++
			s.log.Error("expired story not deleted", zap.String("story_id", story.ID), zap.Error(err))
		default:
			report.Deleted++
			s.log.Debug("expired story deleted",
				zap.String("story_id", story.ID),
				zap.Duration("age", s.now().Sub(story.CreatedAt).Round(time.Minute)))
		}
	}

	s.finish(report, cutoff)
	return report, nil
}

func (s *Sweeper) finish(r SweepReport, cutoff time.Time) {
	s.log.Info("story sweep completed",
		zap.Time("cutoff", cutoff),
		zap.Int("scanned", r.Scanned),
		zap.Int("deleted", r.Deleted),
		zap.Int("failed", r.Failed),
		zap.Int("media_failed", r.MediaFailed))
	if s.observer != nil {
		s.observer.SweepFinished(r)
	}
}

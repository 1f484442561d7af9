// Package jobs runs recurring background work on a gocron scheduler.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/myrjola/avalanchemystery/internal/models"
)

// Runner is one unit of recurring work. Runners log their own failures.
type Runner interface {
	Run(ctx context.Context)
}

// Scheduler runs Runners at fixed intervals. A run that is still going when the next one is due is skipped.
type Scheduler struct {
	logger *slog.Logger
	sched  gocron.Scheduler
}

func NewScheduler(logger *slog.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.Wrap(err, "new scheduler")
	}
	return &Scheduler{logger: logger, sched: sched}, nil
}

// Every schedules r under name. ctx is handed to every run.
func (s *Scheduler) Every(ctx context.Context, name string, interval time.Duration, r Runner) error {
	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { r.Run(ctx) }),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return errors.Wrap(err, "schedule job", slog.String("job", name), slog.Duration("interval", interval))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "scheduled job", slog.String("job", name), slog.Duration("interval", interval))
	return nil
}

// Jobs lists the names of scheduled jobs.
func (s *Scheduler) Jobs() []string {
	jobs := s.sched.Jobs()
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name())
	}
	return names
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

// Shutdown stops scheduling and waits for running jobs to finish.
func (s *Scheduler) Shutdown() error {
	if err := s.sched.Shutdown(); err != nil {
		return errors.Wrap(err, "shutdown scheduler")
	}
	return nil
}

// ExpiredSettler settles mysteries whose submission window has closed. *mystery.Manager implements it.
type ExpiredSettler interface {
	SettleExpired(ctx context.Context) ([]models.Settlement, error)
}

// Settler closes expired mysteries so rewards are paid without anybody asking for it.
type Settler struct {
	logger    *slog.Logger
	mysteries ExpiredSettler
}

func NewSettler(logger *slog.Logger, mysteries ExpiredSettler) *Settler {
	return &Settler{logger: logger, mysteries: mysteries}
}

func (s *Settler) Run(ctx context.Context) {
	settled, err := s.mysteries.SettleExpired(ctx)
	for _, st := range settled {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "settled expired mystery",
			slog.String("mystery_id", st.MysteryID), slog.Int("rewards", len(st.Rewards)))
	}
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to settle expired mysteries", errors.SlogError(err))
	}
}

// Optimizer is implemented by *sqlite.Database.
type Optimizer interface {
	Optimize(ctx context.Context) error
}

// DatabaseOptimizer runs the query planner maintenance of the database.
type DatabaseOptimizer struct {
	logger *slog.Logger
	db     Optimizer
}

func NewDatabaseOptimizer(logger *slog.Logger, db Optimizer) *DatabaseOptimizer {
	return &DatabaseOptimizer{logger: logger, db: db}
}

func (o *DatabaseOptimizer) Run(ctx context.Context) {
	start := time.Now()
	if err := o.db.Optimize(ctx); err != nil {
		o.logger.LogAttrs(ctx, slog.LevelError, "failed to optimize database", errors.SlogError(err))
		return
	}
	o.logger.LogAttrs(ctx, slog.LevelInfo, "optimized database", slog.Duration("duration", time.Since(start)))
}

package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/nordic-weather/internal/weather"
)

const probeTimeout = 30 * time.Second

// Prober is implemented by weather.Service.
type Prober interface {
	Probe(ctx context.Context) weather.UpstreamStatus
}

// Scheduler periodically checks that the upstream provider is reachable.
type Scheduler struct {
	scheduler *gocron.Scheduler
	prober    Prober
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a new Scheduler.
func New(prober Prober, interval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		prober:    prober,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the probe job and starts the underlying scheduler.
// The first probe runs immediately.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("scheduler: probe interval not set; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.runProbe)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) runProbe() {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	status := s.prober.Probe(ctx)
	if !status.Reachable {
		s.logger.Warn("scheduler: upstream unreachable", zap.String("error", status.LastError))
		return
	}
	s.logger.Debug("scheduler: upstream reachable")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arthavgonda/timetable-gateway/internal/models"
	"github.com/arthavgonda/timetable-gateway/internal/upstream"
)

type taskStatusFetcher interface {
	TaskStatus(ctx context.Context, taskID string) (*upstream.TaskStatus, error)
}

// PollerConfig bounds one polling run. The defaults match the scheduling
// service's job registration latency and typical optimisation runtime.
type PollerConfig struct {
	InitialDelay time.Duration
	Interval     time.Duration
	MaxAttempts  int
}

func (c *PollerConfig) applyDefaults() {
	if c.InitialDelay <= 0 {
		c.InitialDelay = time.Second
	}
	if c.Interval <= 0 {
		c.Interval = 2 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 300
	}
}

// PollUpdate carries intermediate progress for display.
type PollUpdate struct {
	Progress int
	Message  string
}

// PollOutcome is the terminal result of a polling run.
type PollOutcome struct {
	State   models.TaskState
	Result  *models.Timetable
	Message string
	Error   string
}

// Poller drives one upstream generation job to a terminal outcome. Each poll
// is scheduled only after the previous response has been applied, so responses
// are never reordered and at most one request is in flight per task.
type Poller struct {
	fetcher  taskStatusFetcher
	cfg      PollerConfig
	logger   *zap.Logger
	metrics  *MetricsService
	sleep    sleepFunc
	onUpdate func(PollUpdate)
}

// NewPoller constructs a poller. onUpdate may be nil.
func NewPoller(fetcher taskStatusFetcher, cfg PollerConfig, logger *zap.Logger, metrics *MetricsService, onUpdate func(PollUpdate)) *Poller {
	cfg.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		fetcher:  fetcher,
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		sleep:    realSleep,
		onUpdate: onUpdate,
	}
}

// Run polls the upstream task until it completes, fails, or the attempt budget
// is exhausted. A cancelled context aborts immediately with the context error
// and no further updates are emitted. Transport errors are transient: they
// consume the same attempt budget as non-terminal statuses instead of
// aborting.
func (p *Poller) Run(ctx context.Context, upstreamID string) (PollOutcome, error) {
	if err := p.sleep(ctx, p.cfg.InitialDelay); err != nil {
		return PollOutcome{}, err
	}

	attempts := 0
	for {
		status, err := p.fetcher.TaskStatus(ctx, upstreamID)
		if err != nil {
			if ctx.Err() != nil {
				return PollOutcome{}, ctx.Err()
			}
			attempts++
			if p.metrics != nil {
				p.metrics.RecordPollAttempt(false)
			}
			p.logger.Warn("task poll failed, retrying",
				zap.String("upstream_task_id", upstreamID),
				zap.Int("attempt", attempts),
				zap.Error(err))
		} else {
			if p.metrics != nil {
				p.metrics.RecordPollAttempt(true)
			}
			p.emit(PollUpdate{Progress: status.Progress, Message: status.Message})

			switch status.Status {
			case upstream.StatusCompleted:
				return PollOutcome{State: models.TaskCompleted, Result: status.Result, Message: status.Message}, nil
			case upstream.StatusFailed:
				reason := status.Error
				if reason == "" {
					reason = status.Message
				}
				return PollOutcome{State: models.TaskFailed, Message: status.Message, Error: reason}, nil
			default:
				attempts++
			}
		}

		if attempts >= p.cfg.MaxAttempts {
			p.logger.Warn("task poll budget exhausted",
				zap.String("upstream_task_id", upstreamID),
				zap.Int("attempts", attempts))
			return PollOutcome{State: models.TaskTimedOut, Error: "generation is taking too long"}, nil
		}

		if err := p.sleep(ctx, p.cfg.Interval); err != nil {
			return PollOutcome{}, err
		}
	}
}

func (p *Poller) emit(update PollUpdate) {
	if p.onUpdate != nil {
		p.onUpdate(update)
	}
}

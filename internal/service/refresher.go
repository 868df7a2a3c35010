package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RefetchFunc re-fetches one resource. It must be idempotent; the refresher
// invokes it on every tick.
type RefetchFunc func(ctx context.Context) error

// Notifier surfaces the transient "data refreshed" signal to whatever the
// gateway considers a notification sink.
type Notifier interface {
	Notify(resource string)
	Dismiss(resource string)
}

// RefresherConfig arms one refresher instance.
type RefresherConfig struct {
	Resource          string
	Interval          time.Duration
	Enabled           bool
	ShowNotifications bool
	NotificationTTL   time.Duration
}

// Refresher re-invokes a refetch function on a fixed interval, independently
// of any generation poller. Instances share no timer state, so several may run
// concurrently against different resources. Stop is synchronous: once it
// returns, no tick and no notification callback will fire.
type Refresher struct {
	cfg      RefresherConfig
	refetch  RefetchFunc
	notifier Notifier
	logger   *zap.Logger
	metrics  *MetricsService
	sleep    sleepFunc

	mu                     sync.Mutex
	cancel                 context.CancelFunc
	running                bool
	hasCompletedFirstFetch bool
	wg                     sync.WaitGroup
}

// NewRefresher constructs a refresher. notifier may be nil.
func NewRefresher(cfg RefresherConfig, refetch RefetchFunc, notifier Notifier, logger *zap.Logger, metrics *MetricsService) *Refresher {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.NotificationTTL <= 0 {
		cfg.NotificationTTL = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{
		cfg:      cfg,
		refetch:  refetch,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
		sleep:    realSleep,
	}
}

// Start arms the refresher. Disabled instances never tick.
func (r *Refresher) Start(ctx context.Context) {
	if !r.cfg.Enabled || r.refetch == nil {
		return
	}
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true
	r.mu.Unlock()

	r.wg.Add(1)
	go r.loop(runCtx)
	r.logger.Info("refresher started",
		zap.String("resource", r.cfg.Resource),
		zap.Duration("interval", r.cfg.Interval))
}

// Stop tears the refresher down and waits for in-flight work. Deterministic:
// no tick fires after Stop returns.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.cancel()
	r.running = false
	r.mu.Unlock()
	r.wg.Wait()
	r.logger.Info("refresher stopped", zap.String("resource", r.cfg.Resource))
}

func (r *Refresher) loop(ctx context.Context) {
	defer r.wg.Done()
	for {
		if err := r.sleep(ctx, r.cfg.Interval); err != nil {
			return
		}

		err := r.refetch(ctx)
		if r.metrics != nil {
			r.metrics.RecordRefreshTick(r.cfg.Resource, err == nil)
		}
		if err != nil {
			// Failures never stop the loop; the next tick retries.
			r.logger.Warn("refresh failed",
				zap.String("resource", r.cfg.Resource),
				zap.Error(err))
			continue
		}

		r.mu.Lock()
		first := !r.hasCompletedFirstFetch
		r.hasCompletedFirstFetch = true
		r.mu.Unlock()

		if !first && r.cfg.ShowNotifications {
			r.notify(ctx)
		}
	}
}

// notify emits the transient signal and schedules its dismissal. The dismissal
// timer is tracked by the same wait group so teardown stays deterministic.
func (r *Refresher) notify(ctx context.Context) {
	if r.notifier == nil {
		return
	}
	r.notifier.Notify(r.cfg.Resource)
	if r.metrics != nil {
		r.metrics.RecordNotification()
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.sleep(ctx, r.cfg.NotificationTTL); err == nil {
			r.notifier.Dismiss(r.cfg.Resource)
		}
	}()
}

// LogNotifier writes refresh notifications to the structured log. It stands in
// for the dashboard toast layer, which is outside this service.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Notify(resource string) {
	if n.Logger != nil {
		n.Logger.Info("data refreshed", zap.String("resource", resource))
	}
}

func (n LogNotifier) Dismiss(resource string) {
	if n.Logger != nil {
		n.Logger.Debug("notification dismissed", zap.String("resource", resource))
	}
}

package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arthavgonda/timetable-gateway/internal/dto"
	"github.com/arthavgonda/timetable-gateway/internal/models"
	"github.com/arthavgonda/timetable-gateway/internal/upstream"
	appErrors "github.com/arthavgonda/timetable-gateway/pkg/errors"
)

type generationClient interface {
	Generate(ctx context.Context, params upstream.GenerateParams) (*upstream.GenerateResponse, error)
	TaskStatus(ctx context.Context, taskID string) (*upstream.TaskStatus, error)
}

// GenerationServiceConfig governs polling bounds and task retention.
type GenerationServiceConfig struct {
	Poller  PollerConfig
	TaskTTL time.Duration
}

// GenerationService submits generation jobs to the scheduling service and
// drives each one to a terminal outcome with a dedicated poller goroutine.
// Every task handle is owned by exactly one poller; callers observe snapshots.
type GenerationService struct {
	client    generationClient
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	cfg       GenerationServiceConfig
	sleep     sleepFunc
	now       func() time.Time

	mu    sync.RWMutex
	tasks map[string]*taskEntry
	wg    sync.WaitGroup
}

type taskEntry struct {
	mu     sync.Mutex
	task   models.GenerationTask
	cancel context.CancelFunc
}

// NewGenerationService wires generation dependencies.
func NewGenerationService(client generationClient, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, cfg GenerationServiceConfig) *GenerationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Poller.applyDefaults()
	if cfg.TaskTTL <= 0 {
		cfg.TaskTTL = time.Hour
	}
	return &GenerationService{
		client:    client,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		cfg:       cfg,
		sleep:     realSleep,
		now:       time.Now,
		tasks:     make(map[string]*taskEntry),
	}
}

// Start submits a generation request. A rejection in the submission response
// fails synchronously and no polling is attempted. On success a poller
// goroutine owns the returned handle until a terminal state is reached.
func (s *GenerationService) Start(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerationTaskResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}

	resp, err := s.client.Generate(ctx, upstream.GenerateParams{
		Date:     req.Date,
		Course:   req.Course,
		Semester: req.Semester,
	})
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, appErrors.Clone(appErrors.ErrGenerationRejected, resp.Error)
	}
	if resp.TaskID == "" {
		return nil, appErrors.Clone(appErrors.ErrGenerationRejected, "scheduler returned no task id")
	}

	handle := uuid.NewString()
	pollCtx, cancel := context.WithCancel(context.Background())
	entry := &taskEntry{
		task: models.GenerationTask{
			ID:         handle,
			UpstreamID: resp.TaskID,
			State:      models.TaskPolling,
			Message:    "generation submitted",
			CreatedAt:  s.now().UTC(),
		},
		cancel: cancel,
	}

	s.mu.Lock()
	s.purgeExpiredLocked()
	s.tasks[handle] = entry
	s.mu.Unlock()

	s.wg.Add(1)
	go s.poll(pollCtx, handle, resp.TaskID)

	s.logger.Info("generation task started",
		zap.String("task_id", handle),
		zap.String("upstream_task_id", resp.TaskID),
		zap.String("date", req.Date))

	return &dto.GenerationTaskResponse{TaskID: handle, Status: models.TaskPolling}, nil
}

func (s *GenerationService) poll(ctx context.Context, handle, upstreamID string) {
	defer s.wg.Done()

	poller := NewPoller(s.client, s.cfg.Poller, s.logger, s.metrics, func(update PollUpdate) {
		s.applyUpdate(handle, update)
	})
	poller.sleep = s.sleep

	outcome, err := poller.Run(ctx, upstreamID)
	if err != nil {
		// Cancelled handle: the terminal state was already recorded by Cancel
		// and no further updates may be applied.
		return
	}
	s.finish(handle, outcome)
}

func (s *GenerationService) applyUpdate(handle string, update PollUpdate) {
	entry := s.lookup(handle)
	if entry == nil {
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.task.State.Terminal() {
		return
	}
	entry.task.Progress = update.Progress
	if update.Message != "" {
		entry.task.Message = update.Message
	}
}

func (s *GenerationService) finish(handle string, outcome PollOutcome) {
	entry := s.lookup(handle)
	if entry == nil {
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.task.State.Terminal() {
		return
	}
	now := s.now().UTC()
	entry.task.State = outcome.State
	entry.task.Result = outcome.Result
	entry.task.Error = outcome.Error
	entry.task.FinishedAt = &now
	if outcome.State == models.TaskCompleted {
		entry.task.Progress = 100
	}
	if outcome.Message != "" {
		entry.task.Message = outcome.Message
	}
	if s.metrics != nil {
		s.metrics.RecordGenerationOutcome(string(outcome.State))
	}
	s.logger.Info("generation task finished",
		zap.String("task_id", handle),
		zap.String("state", string(outcome.State)))
}

// Status returns a snapshot of the task identified by the handle.
func (s *GenerationService) Status(handle string) (*models.GenerationTask, error) {
	entry := s.lookup(handle)
	if entry == nil {
		return nil, appErrors.ErrTaskNotFound
	}
	entry.mu.Lock()
	snapshot := entry.task
	entry.mu.Unlock()
	return &snapshot, nil
}

// Cancel abandons the handle: polling stops immediately and no further state
// updates are emitted for it.
func (s *GenerationService) Cancel(handle string) error {
	entry := s.lookup(handle)
	if entry == nil {
		return appErrors.ErrTaskNotFound
	}
	entry.mu.Lock()
	if !entry.task.State.Terminal() {
		now := s.now().UTC()
		entry.task.State = models.TaskCancelled
		entry.task.FinishedAt = &now
	}
	entry.mu.Unlock()
	entry.cancel()
	return nil
}

// Shutdown cancels every in-flight poller and waits for them to exit.
func (s *GenerationService) Shutdown() {
	s.mu.RLock()
	for _, entry := range s.tasks {
		entry.cancel()
	}
	s.mu.RUnlock()
	s.wg.Wait()
}

func (s *GenerationService) lookup(handle string) *taskEntry {
	s.mu.RLock()
	entry := s.tasks[handle]
	s.mu.RUnlock()
	return entry
}

// purgeExpiredLocked discards finished tasks past their retention window.
// Callers must hold s.mu.
func (s *GenerationService) purgeExpiredLocked() {
	cutoff := s.now().UTC().Add(-s.cfg.TaskTTL)
	for handle, entry := range s.tasks {
		entry.mu.Lock()
		expired := entry.task.FinishedAt != nil && entry.task.FinishedAt.Before(cutoff)
		entry.mu.Unlock()
		if expired {
			delete(s.tasks, handle)
		}
	}
}

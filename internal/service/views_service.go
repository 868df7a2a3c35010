package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/arthavgonda/timetable-gateway/internal/dto"
	"github.com/arthavgonda/timetable-gateway/internal/models"
	appErrors "github.com/arthavgonda/timetable-gateway/pkg/errors"
)

type timetableSource interface {
	Timetable(ctx context.Context, date string) (*models.Timetable, error)
	TeacherAvailability(ctx context.Context) (map[string]bool, error)
	Classrooms(ctx context.Context) ([]models.Classroom, error)
}

// ViewsServiceConfig tunes derived-view caching.
type ViewsServiceConfig struct {
	CacheTTL time.Duration
}

// ViewsService fetches raw schedule payloads from the scheduling service and
// derives the analytical read views from them. Raw payloads are cached and
// always replaced wholesale; derived records are recomputed per request.
type ViewsService struct {
	source timetableSource
	cache  *CacheService
	logger *zap.Logger
	cfg    ViewsServiceConfig
}

// NewViewsService wires the views dependencies.
func NewViewsService(source timetableSource, cache *CacheService, logger *zap.Logger, cfg ViewsServiceConfig) *ViewsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	return &ViewsService{source: source, cache: cache, logger: logger, cfg: cfg}
}

const (
	timetableKeyPrefix = "timetable:"
	availabilityKey    = "teacher_availability"
)

// Timetable returns the raw schedule for the date, decorated with week-date
// labels and the compacted active-slot list. The bool reports a cache hit.
func (s *ViewsService) Timetable(ctx context.Context, date string) (*dto.TimetableResponse, bool, error) {
	timetable, hit, err := s.fetchTimetable(ctx, date)
	if err != nil {
		return nil, false, err
	}
	return &dto.TimetableResponse{
		Schedule:    timetable.Schedule,
		Date:        timetable.Date,
		EndDate:     timetable.EndDate,
		WeekDates:   WeekDates(timetable.Date),
		ActiveSlots: ActiveTimeSlots(timetable.Schedule),
	}, hit, nil
}

// TeacherWorkload derives per-teacher load, joined against the availability
// roster so idle teachers still appear with zero counts.
func (s *ViewsService) TeacherWorkload(ctx context.Context, date string) (*dto.TeacherWorkloadResponse, error) {
	timetable, _, err := s.fetchTimetable(ctx, date)
	if err != nil {
		return nil, err
	}

	roster := s.roster(ctx)
	loads := BuildTeacherLoads(timetable.Schedule, roster)
	return &dto.TeacherWorkloadResponse{Date: timetable.Date, Loads: loads}, nil
}

// RoomUtilization derives per-room occupancy for every known classroom.
func (s *ViewsService) RoomUtilization(ctx context.Context, date string) (*dto.RoomUtilizationResponse, error) {
	timetable, _, err := s.fetchTimetable(ctx, date)
	if err != nil {
		return nil, err
	}
	rooms, err := s.source.Classrooms(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.RoomUtilizationResponse{
		Date:  timetable.Date,
		Rooms: BuildRoomUtilization(timetable.Schedule, rooms),
	}, nil
}

// RoomConflicts derives the double-booking report.
func (s *ViewsService) RoomConflicts(ctx context.Context, date string) (*dto.RoomConflictsResponse, error) {
	timetable, _, err := s.fetchTimetable(ctx, date)
	if err != nil {
		return nil, err
	}
	return &dto.RoomConflictsResponse{
		Date:      timetable.Date,
		Conflicts: FindRoomConflicts(timetable.Schedule),
	}, nil
}

// RefreshTimetable force-fetches a fresh payload and replaces the cached one.
// Used as a background refetch function.
func (s *ViewsService) RefreshTimetable(ctx context.Context, date string) error {
	timetable, err := s.source.Timetable(ctx, date)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, timetableKeyPrefix+date, timetable, s.cfg.CacheTTL)
}

// RefreshAvailability force-fetches the teacher roster. Used as a background
// refetch function.
func (s *ViewsService) RefreshAvailability(ctx context.Context) error {
	availability, err := s.source.TeacherAvailability(ctx)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, availabilityKey, availability, s.cfg.CacheTTL)
}

func (s *ViewsService) fetchTimetable(ctx context.Context, date string) (*models.Timetable, bool, error) {
	if date == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "date is required")
	}

	key := timetableKeyPrefix + date
	var cached models.Timetable
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	timetable, err := s.source.Timetable(ctx, date)
	if err != nil {
		return nil, false, err
	}
	if err := s.cache.Set(ctx, key, timetable, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache timetable", zap.String("date", date), zap.Error(err))
	}
	return timetable, false, nil
}

// roster resolves the availability roster, preferring the cached copy kept
// warm by the background refresher. Roster failures degrade to schedule-only
// aggregation rather than failing the view.
func (s *ViewsService) roster(ctx context.Context) []string {
	availability := map[string]bool{}
	if hit, _ := s.cache.Get(ctx, availabilityKey, &availability); !hit {
		fetched, err := s.source.TeacherAvailability(ctx)
		if err != nil {
			s.logger.Warn("failed to fetch teacher availability", zap.Error(err))
			return nil
		}
		availability = fetched
		if err := s.cache.Set(ctx, availabilityKey, availability, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("failed to cache teacher availability", zap.Error(err))
		}
	}

	roster := make([]string, 0, len(availability))
	for name := range availability {
		roster = append(roster, name)
	}
	sort.Strings(roster)
	return roster
}

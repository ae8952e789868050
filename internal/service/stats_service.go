package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/events"
	"github.com/spec-kit/attendance-service/internal/repository"
)

const statsCacheKey = "stats:dashboard"

// DashboardStats is the aggregated dashboard payload.
type DashboardStats struct {
	AttendanceStats  map[domain.Consequence]int64 `json:"attendanceStats"`
	TotalEmployees   int64                        `json:"totalEmployees"`
	TodaysAttendance int64                        `json:"todaysAttendance"`
}

// StatsService aggregates dashboard counters, caching them in Redis and
// invalidating on attendance/employee events.
type StatsService struct {
	attendance repository.AttendanceRepository
	employees  repository.EmployeeRepository
	dispatcher events.Dispatcher
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewStatsService builds the service. cache may be nil, in which case every
// request hits the database directly.
func NewStatsService(attendance repository.AttendanceRepository, employees repository.EmployeeRepository, dispatcher events.Dispatcher, cache *redis.Client, ttlSeconds int, logger *zap.Logger) *StatsService {
	if ttlSeconds <= 0 {
		ttlSeconds = 60
	}
	return &StatsService{
		attendance: attendance,
		employees:  employees,
		dispatcher: dispatcher,
		cache:      cache,
		cacheTTL:   time.Duration(ttlSeconds) * time.Second,
		logger:     logger,
	}
}

// RegisterHandlers subscribes cache invalidation to mutation events.
func (s *StatsService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventAttendanceRecorded, s.invalidate)
	s.dispatcher.Subscribe(events.EventAttendanceDeleted, s.invalidate)
	s.dispatcher.Subscribe(events.EventEmployeeCreated, s.invalidate)
	s.dispatcher.Subscribe(events.EventEmployeeDeleted, s.invalidate)
}

// Dashboard returns the aggregate counters, served from cache when fresh.
// A Redis outage degrades to direct queries rather than failing the request.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, statsCacheKey).Bytes(); err == nil {
			var stats DashboardStats
			if err := json.Unmarshal(cached, &stats); err == nil {
				return &stats, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		}
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, encoded, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("stats cache write failed", zap.Error(err))
			}
		}
	}
	return stats, nil
}

func (s *StatsService) compute(ctx context.Context) (*DashboardStats, error) {
	buckets, err := s.attendance.CountByConsequence(ctx)
	if err != nil {
		return nil, err
	}
	byConsequence := map[domain.Consequence]int64{
		domain.ConsequenceRegular:         0,
		domain.ConsequenceSalaryDeduction: 0,
		domain.ConsequenceSuspension:      0,
		domain.ConsequenceDismissal:       0,
	}
	for _, bucket := range buckets {
		byConsequence[bucket.Consequence] = bucket.Count
	}

	totalEmployees, err := s.employees.Count(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todays, err := s.attendance.CountSince(ctx, midnight)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		AttendanceStats:  byConsequence,
		TotalEmployees:   totalEmployees,
		TodaysAttendance: todays,
	}, nil
}

func (s *StatsService) invalidate(ctx context.Context, event events.Event) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Del(ctx, statsCacheKey).Err(); err != nil {
		s.logger.Warn("stats cache invalidation failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
	return nil
}

package services

import (
	"errors"
	"strings"
	"time"

	"github.com/academic-tracker/backend/internal/metrics"
	"github.com/academic-tracker/backend/internal/models"
	"github.com/academic-tracker/backend/internal/studytime"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudySessionService struct {
	db *gorm.DB
}

type SessionInput struct {
	ModuleID    *uuid.UUID
	StartTime   *time.Time
	EndTime     *time.Time
	SessionType string
}

func NewStudySessionService(db *gorm.DB) *StudySessionService {
	return &StudySessionService{db: db}
}

// Record stores a study session against one of the user's modules
func (s *StudySessionService) Record(userID uuid.UUID, in SessionInput) (*models.StudySession, error) {
	if in.ModuleID == nil {
		return nil, invalid("module_id", "is required")
	}
	if in.StartTime == nil {
		return nil, invalid("start_time", "is required")
	}
	if in.EndTime == nil {
		return nil, invalid("end_time", "is required")
	}
	if !in.EndTime.After(*in.StartTime) {
		return nil, invalid("end_time", "must be after start_time")
	}

	module, err := findOwnedModule(s.db, userID, *in.ModuleID)
	if errors.Is(err, ErrModuleNotFound) {
		return nil, ErrModuleForbidden
	}
	if err != nil {
		return nil, err
	}

	session := &models.StudySession{
		UserID:          userID,
		ModuleID:        module.ID,
		SessionType:     strings.TrimSpace(in.SessionType),
		StartTime:       *in.StartTime,
		EndTime:         *in.EndTime,
		DurationSeconds: studytime.Duration(*in.StartTime, *in.EndTime),
	}
	if err := s.db.Create(session).Error; err != nil {
		return nil, err
	}
	session.Module = module
	metrics.StudySecondsRecorded.Add(float64(session.DurationSeconds))
	return session, nil
}

// inRange loads the user's sessions starting in [from, to) with their modules
func (s *StudySessionService) inRange(userID uuid.UUID, from, to time.Time) ([]models.StudySession, error) {
	sessions := []models.StudySession{}
	err := s.db.Preload("Module").
		Where("user_id = ? AND start_time >= ? AND start_time < ?", userID, from, to).
		Order("start_time ASC").
		Find(&sessions).Error
	return sessions, err
}

func (s *StudySessionService) TodaySummary(userID uuid.UUID, moduleID *uuid.UUID, now time.Time) (studytime.Summary, error) {
	from, to := studytime.DayBounds(now)
	sessions, err := s.inRange(userID, from, to)
	if err != nil {
		return studytime.Summary{}, err
	}
	return studytime.TodaySummary(now, sessions, moduleID), nil
}

func (s *StudySessionService) BreakdownForDate(userID uuid.UUID, date time.Time) (studytime.DayBreakdown, error) {
	from, to := studytime.DayBounds(date)
	sessions, err := s.inRange(userID, from, to)
	if err != nil {
		return studytime.DayBreakdown{}, err
	}
	return studytime.BreakdownForDate(date, sessions), nil
}

// Heatmap totals seconds per day between start and end, both inclusive
func (s *StudySessionService) Heatmap(userID uuid.UUID, start, end time.Time) (map[string]int64, error) {
	from, _ := studytime.DayBounds(start)
	_, to := studytime.DayBounds(end)
	sessions, err := s.inRange(userID, from, to)
	if err != nil {
		return nil, err
	}
	return studytime.Heatmap(sessions, from.Location()), nil
}

// Weekly lists the sessions of the seven days starting at weekStart
func (s *StudySessionService) Weekly(userID uuid.UUID, weekStart time.Time) ([]models.StudySession, error) {
	from, _ := studytime.DayBounds(weekStart)
	return s.inRange(userID, from, from.AddDate(0, 0, 7))
}

func (s *StudySessionService) List(userID uuid.UUID) ([]models.StudySession, error) {
	sessions := []models.StudySession{}
	err := s.db.Preload("Module").
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Find(&sessions).Error
	return sessions, err
}

func (s *StudySessionService) Delete(userID, id uuid.UUID) error {
	result := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.StudySession{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

package services

import (
	"errors"
	"testing"
	"time"

	"github.com/academic-tracker/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionTest(t *testing.T) (*StudySessionService, *models.User, *models.Module, *models.Module) {
	t.Helper()
	db := setupTestDB(t)
	user := createTestUser(t, db)
	modules := NewModuleService(db)
	maths, err := modules.Register(user.ID, ModuleInput{Code: "MA1013", Name: "Mathematics", Credits: 3})
	require.NoError(t, err)
	prog, err := modules.Register(user.ID, ModuleInput{Code: "CS1032", Name: "Programming", Credits: 3})
	require.NoError(t, err)
	return NewStudySessionService(db), user, maths, prog
}

func record(t *testing.T, svc *StudySessionService, userID uuid.UUID, moduleID uuid.UUID, start time.Time, minutes int) *models.StudySession {
	t.Helper()
	end := start.Add(time.Duration(minutes) * time.Minute)
	s, err := svc.Record(userID, SessionInput{ModuleID: &moduleID, StartTime: &start, EndTime: &end, SessionType: "revision"})
	require.NoError(t, err)
	return s
}

func TestStudySessionService_Record(t *testing.T) {
	svc, user, maths, _ := setupSessionTest(t)

	start := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	s := record(t, svc, user.ID, maths.ID, start, 90)

	assert.Equal(t, int64(5400), s.DurationSeconds)
	assert.Equal(t, "revision", s.SessionType)
	assert.Equal(t, "MA1013", s.Module.Code)
}

func TestStudySessionService_Record_Validation(t *testing.T) {
	svc, user, maths, _ := setupSessionTest(t)
	start := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	same := start
	before := start.Add(-time.Minute)

	tests := []struct {
		name  string
		in    SessionInput
		field string
	}{
		{"Missing module", SessionInput{StartTime: &start, EndTime: &start}, "module_id"},
		{"Missing start", SessionInput{ModuleID: &maths.ID, EndTime: &start}, "start_time"},
		{"Missing end", SessionInput{ModuleID: &maths.ID, StartTime: &start}, "end_time"},
		{"End equals start", SessionInput{ModuleID: &maths.ID, StartTime: &start, EndTime: &same}, "end_time"},
		{"End before start", SessionInput{ModuleID: &maths.ID, StartTime: &start, EndTime: &before}, "end_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Record(user.ID, tt.in)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestStudySessionService_Record_ForeignModule(t *testing.T) {
	svc, _, maths, _ := setupSessionTest(t)
	start := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	_, err := svc.Record(uuid.New(), SessionInput{ModuleID: &maths.ID, StartTime: &start, EndTime: &end})
	assert.ErrorIs(t, err, ErrModuleForbidden)
	assert.True(t, IsForbidden(err))
}

func TestStudySessionService_Aggregates(t *testing.T) {
	svc, user, maths, prog := setupSessionTest(t)
	day := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	record(t, svc, user.ID, maths.ID, day.Add(8*time.Hour), 60)
	record(t, svc, user.ID, prog.ID, day.Add(10*time.Hour), 30)
	record(t, svc, user.ID, maths.ID, day.Add(20*time.Hour), 30)
	record(t, svc, user.ID, prog.ID, day.AddDate(0, 0, 2).Add(9*time.Hour), 45)
	record(t, svc, user.ID, prog.ID, day.AddDate(0, 1, 0), 15)

	summary, err := svc.TodaySummary(user.ID, &maths.ID, day.Add(12*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(5400), summary.ModuleSeconds)
	assert.Equal(t, int64(7200), summary.AllSeconds)

	breakdown, err := svc.BreakdownForDate(user.ID, day)
	require.NoError(t, err)
	assert.Equal(t, "2025-05-01", breakdown.Date)
	require.Len(t, breakdown.Totals, 2)
	assert.Equal(t, "MA1013", breakdown.Totals[0].Code)
	assert.Equal(t, int64(5400), breakdown.Totals[0].Seconds)

	heatmap, err := svc.Heatmap(user.ID, day, time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"2025-05-01": 7200, "2025-05-03": 2700}, heatmap)

	weekly, err := svc.Weekly(user.ID, day)
	require.NoError(t, err)
	assert.Len(t, weekly, 4)
}

func TestStudySessionService_ListAndDelete(t *testing.T) {
	svc, user, maths, _ := setupSessionTest(t)
	s := record(t, svc, user.ID, maths.ID, time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC), 30)

	assert.ErrorIs(t, svc.Delete(uuid.New(), s.ID), ErrSessionNotFound)
	require.NoError(t, svc.Delete(user.ID, s.ID))
	assert.ErrorIs(t, svc.Delete(user.ID, s.ID), ErrSessionNotFound)

	sessions, err := svc.List(user.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

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

func TestNormalizeSemesterName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Semester One", "semester1"},
		{"semester 1", "semester1"},
		{"SEMESTER-1", "semester1"},
		{"Year Two / Sem Three", "year2sem3"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeSemesterName(tt.input); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSemesterService_Create(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSemesterService(db)
	user := createTestUser(t, db)

	sem, err := svc.Create(user.ID, SemesterInput{Number: 1, StartDate: date(2025, 1, 6), EndDate: date(2025, 5, 30)})
	require.NoError(t, err)
	assert.Equal(t, "Semester 1", sem.Name, "name defaults from number")

	_, err = svc.Create(user.ID, SemesterInput{Name: "Semester One", Number: 2})
	assert.ErrorIs(t, err, ErrDuplicateSemester)

	// other users may reuse the name
	other := createTestUser(t, db)
	_, err = svc.Create(other.ID, SemesterInput{Name: "semester 1", Number: 1})
	assert.NoError(t, err)
}

func TestSemesterService_Create_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSemesterService(db)
	user := createTestUser(t, db)

	tests := []struct {
		name  string
		in    SemesterInput
		field string
	}{
		{"Zero number", SemesterInput{Number: 0}, "number"},
		{"End before start", SemesterInput{Number: 1, StartDate: date(2025, 5, 1), EndDate: date(2025, 4, 1)}, "end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(user.ID, tt.in)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	_, err := svc.Create(user.ID, SemesterInput{Number: 1, StartDate: date(2025, 5, 1), EndDate: date(2025, 5, 1)})
	assert.NoError(t, err, "single day semester is allowed")
}

func TestSemesterService_ListOrdered(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSemesterService(db)
	user := createTestUser(t, db)

	for _, n := range []int{3, 1, 2} {
		_, err := svc.Create(user.ID, SemesterInput{Number: n})
		require.NoError(t, err)
	}

	semesters, err := svc.List(user.ID)
	require.NoError(t, err)
	require.Len(t, semesters, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{semesters[0].Number, semesters[1].Number, semesters[2].Number})
}

func TestSemesterService_UpdatePropagatesNumber(t *testing.T) {
	db := setupTestDB(t)
	semesters := NewSemesterService(db)
	modules := NewModuleService(db)
	user := createTestUser(t, db)

	sem, err := semesters.Create(user.ID, SemesterInput{Number: 1})
	require.NoError(t, err)
	mod, err := modules.Register(user.ID, ModuleInput{Code: "MA1013", Name: "Maths", Credits: 3, SemesterID: &sem.ID})
	require.NoError(t, err)
	require.Equal(t, 1, *mod.SemesterNumber)

	updated, err := semesters.Update(user.ID, sem.ID, SemesterInput{Name: "Semester 3", Number: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Number)

	reloaded, err := modules.Get(user.ID, mod.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, *reloaded.SemesterNumber)
}

func TestSemesterService_UpdateKeepsOwnName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSemesterService(db)
	user := createTestUser(t, db)

	sem, err := svc.Create(user.ID, SemesterInput{Name: "Semester 1", Number: 1})
	require.NoError(t, err)
	_, err = svc.Create(user.ID, SemesterInput{Name: "Semester 2", Number: 2})
	require.NoError(t, err)

	_, err = svc.Update(user.ID, sem.ID, SemesterInput{Name: "semester one", Number: 1, EndDate: date(2025, 6, 1)})
	assert.NoError(t, err)

	_, err = svc.Update(user.ID, sem.ID, SemesterInput{Name: "Semester Two", Number: 1})
	assert.ErrorIs(t, err, ErrDuplicateSemester)
}

func TestSemesterService_DeleteDetachesModules(t *testing.T) {
	db := setupTestDB(t)
	semesters := NewSemesterService(db)
	modules := NewModuleService(db)
	user := createTestUser(t, db)

	sem, err := semesters.Create(user.ID, SemesterInput{Number: 2})
	require.NoError(t, err)
	mod, err := modules.Register(user.ID, ModuleInput{Code: "CS2012", Name: "Data Structures", Credits: 3, SemesterID: &sem.ID})
	require.NoError(t, err)

	_, err = semesters.Delete(user.ID, sem.ID)
	require.NoError(t, err)

	reloaded, err := modules.Get(user.ID, mod.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.SemesterID)
	assert.Nil(t, reloaded.SemesterNumber)

	_, err = semesters.Get(user.ID, sem.ID)
	assert.ErrorIs(t, err, ErrSemesterNotFound)
}

func TestSemesterService_Ownership(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSemesterService(db)
	owner := createTestUser(t, db)
	intruder := createTestUser(t, db)

	sem, err := svc.Create(owner.ID, SemesterInput{Number: 1})
	require.NoError(t, err)

	_, err = svc.Update(intruder.ID, sem.ID, SemesterInput{Number: 2})
	assert.ErrorIs(t, err, ErrSemesterForbidden)
	_, err = svc.Delete(intruder.ID, sem.ID)
	assert.ErrorIs(t, err, ErrSemesterForbidden)
	_, err = svc.Delete(owner.ID, uuid.New())
	assert.ErrorIs(t, err, ErrSemesterNotFound)
}

func TestSemesterService_Current(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSemesterService(db)
	user := createTestUser(t, db)

	_, err := svc.Create(user.ID, SemesterInput{Number: 1, StartDate: date(2025, 1, 6), EndDate: date(2025, 5, 30)})
	require.NoError(t, err)
	second, err := svc.Create(user.ID, SemesterInput{Number: 2, StartDate: date(2025, 6, 16), EndDate: date(2025, 10, 31)})
	require.NoError(t, err)
	_, err = svc.Create(user.ID, SemesterInput{Number: 3})
	require.NoError(t, err)

	current, err := svc.Current(user.ID, time.Date(2025, 10, 31, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID, "the end date itself is still inside the semester")

	_, err = svc.Current(user.ID, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrSemesterNotFound)
}

func TestSemesterService_SoftDeletedNameCanBeReused(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSemesterService(db)
	user := createTestUser(t, db)

	sem, err := svc.Create(user.ID, SemesterInput{Number: 1})
	require.NoError(t, err)
	_, err = svc.Delete(user.ID, sem.ID)
	require.NoError(t, err)

	_, err = svc.Create(user.ID, SemesterInput{Number: 1})
	assert.NoError(t, err)

	var count int64
	db.Unscoped().Model(&models.Semester{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

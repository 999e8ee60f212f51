package grading

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOverview_Empty(t *testing.T) {
	overview := BuildOverview(nil, nil, time.Now())

	assert.Nil(t, overview.CGPA)
	assert.NotNil(t, overview.Semesters)
	assert.Len(t, overview.Semesters, 0)

	body, err := json.Marshal(overview)
	require.NoError(t, err)
	assert.JSONEq(t, `{"cgpa": null, "semesters": []}`, string(body))
}

func TestBuildOverview(t *testing.T) {
	today := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	sem1 := SemesterInfo{ID: uuid.New(), Number: 1, Name: "Semester 1", EndDate: &yesterday}
	sem2 := SemesterInfo{ID: uuid.New(), Number: 2, Name: "Semester 2", EndDate: &tomorrow}
	sem3 := SemesterInfo{ID: uuid.New(), Number: 3, Name: "Semester 3"}

	withSemester := func(r GradeRecord, s SemesterInfo) GradeRecord {
		id := s.ID
		r.SemesterID = &id
		return r
	}
	records := []GradeRecord{
		withSemester(record("A", 3, 1), sem1),
		withSemester(record("B", 3, 1), sem1),
		withSemester(record("S", 3, 2), sem2),
		record("C", 3, 3),
	}

	overview := BuildOverview(records, []SemesterInfo{sem1, sem2, sem3}, today)
	require.Len(t, overview.Semesters, 3)

	first := overview.Semesters[0]
	assert.Equal(t, sem1.ID, first.SemesterID)
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, "Semester 1", first.Name)
	assert.True(t, first.Finished)
	if assert.NotNil(t, first.SGPA) {
		assert.InDelta(t, 3.5, *first.SGPA, 1e-9)
	}

	assert.False(t, overview.Semesters[1].Finished)
	assert.Nil(t, overview.Semesters[1].SGPA)

	assert.False(t, overview.Semesters[2].Finished)
	assert.Nil(t, overview.Semesters[2].SGPA, "modules without a semester id do not feed any SGPA")

	// CGPA uses every record, including the one detached from any listed semester
	expected := (0.05*3*4.0 + 0.05*3*3.0 + 0.15*3*2.0) / (0.05*3 + 0.05*3 + 0.15*3)
	if assert.NotNil(t, overview.CGPA) {
		assert.InDelta(t, expected, *overview.CGPA, 1e-9)
	}
}

func TestBuildOverview_SameNumberDifferentSemesters(t *testing.T) {
	a := SemesterInfo{ID: uuid.New(), Number: 3, Name: "Semester 3"}
	b := SemesterInfo{ID: uuid.New(), Number: 3, Name: "Semester 3 (repeat)"}

	ra := record("A", 3, 3)
	ra.SemesterID = &a.ID
	rb := record("C", 3, 3)
	rb.SemesterID = &b.ID

	overview := BuildOverview([]GradeRecord{ra, rb}, []SemesterInfo{a, b}, time.Now())

	require.Len(t, overview.Semesters, 2)
	assert.InDelta(t, 4.0, *overview.Semesters[0].SGPA, 1e-9)
	assert.InDelta(t, 2.0, *overview.Semesters[1].SGPA, 1e-9)
	assert.InDelta(t, 3.0, *overview.CGPA, 1e-9)
}

func TestIsFinished(t *testing.T) {
	today := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	sameDay := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	yesterday := time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		endDate  *time.Time
		expected bool
	}{
		{"No end date", nil, false},
		{"Ended yesterday", &yesterday, true},
		{"Ends today", &sameDay, false},
		{"Ends tomorrow", &tomorrow, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFinished(tt.endDate, today); got != tt.expected {
				t.Errorf("Expected finished=%v, got %v", tt.expected, got)
			}
		})
	}
}

func TestBuildOverview_Idempotent(t *testing.T) {
	today := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sem := SemesterInfo{ID: uuid.New(), Number: 4, Name: "Semester 4"}
	r := record("B+", 3, 4)
	r.SemesterID = &sem.ID
	records := []GradeRecord{r, record("A-", 2, 1)}

	first := BuildOverview(records, []SemesterInfo{sem}, today)
	second := BuildOverview(records, []SemesterInfo{sem}, today)

	assert.Equal(t, first, second)
}

func TestOnOrAfter(t *testing.T) {
	start := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

	assert.True(t, OnOrAfter(time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC), start))
	assert.True(t, OnOrAfter(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), start))
	assert.False(t, OnOrAfter(time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC), start))
}

package grading

import (
	"time"

	"github.com/google/uuid"
)

// SemesterInfo describes one of a user's semesters
type SemesterInfo struct {
	ID        uuid.UUID
	Number    int
	Name      string
	StartDate *time.Time
	EndDate   *time.Time
}

// SemesterGPA is the per-semester part of an Overview
type SemesterGPA struct {
	SemesterID uuid.UUID `json:"semester_id"`
	Number     int       `json:"number"`
	Name       string    `json:"name"`
	SGPA       *float64  `json:"sgpa"`
	Finished   bool      `json:"finished"`
}

// Overview combines every semester's SGPA with the cumulative GPA
type Overview struct {
	CGPA      *float64      `json:"cgpa"`
	Semesters []SemesterGPA `json:"semesters"`
}

// BuildOverview computes SGPA per semester (grouped by semester identity) and
// CGPA over all records (grouped by semester number). Semesters keep the
// order they are given in.
func BuildOverview(records []GradeRecord, semesters []SemesterInfo, today time.Time) Overview {
	bySemester := make(map[uuid.UUID][]GradeRecord)
	for _, r := range records {
		if r.SemesterID == nil {
			continue
		}
		bySemester[*r.SemesterID] = append(bySemester[*r.SemesterID], r)
	}

	results := make([]SemesterGPA, 0, len(semesters))
	for _, s := range semesters {
		results = append(results, SemesterGPA{
			SemesterID: s.ID,
			Number:     s.Number,
			Name:       s.Name,
			SGPA:       ComputeSGPA(bySemester[s.ID]),
			Finished:   IsFinished(s.EndDate, today),
		})
	}

	return Overview{
		CGPA:      ComputeCGPA(records),
		Semesters: results,
	}
}

// IsFinished reports whether a semester's end date lies strictly before
// today's calendar date.
func IsFinished(endDate *time.Time, today time.Time) bool {
	if endDate == nil {
		return false
	}
	return dateOf(*endDate).Before(dateOf(today))
}

// OnOrAfter reports whether day's calendar date is not before date's
func OnOrAfter(day, date time.Time) bool {
	return !dateOf(day).Before(dateOf(date))
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

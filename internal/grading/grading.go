package grading

import (
	"strings"

	"github.com/google/uuid"
)

const (
	// Weights applied per semester number when computing CGPA
	WeightEarlySemester = 0.05
	WeightLaterSemester = 0.15
)

// gradePoints maps normalized letter grades to grade point values.
// Grades such as S, U, I are not countable and are deliberately absent.
var gradePoints = map[string]float64{
	"A+": 4.0, "A": 4.0, "A-": 3.7,
	"B+": 3.3, "B": 3.0, "B-": 2.7,
	"C+": 2.3, "C": 2.0, "C-": 1.7,
	"D+": 1.3, "D": 1.0,
	"E": 0.0, "F": 0.0,
}

// nonCountableGrades may be stored on a module but never enter GPA arithmetic
var nonCountableGrades = map[string]bool{"I": true, "S": true, "U": true}

// GradeRecord is one module's graded outcome as seen by the GPA engine
type GradeRecord struct {
	Grade          *string
	Credits        *int
	SemesterID     *uuid.UUID
	SemesterNumber *int
}

// NormalizeGrade trims and upper-cases a grade string
func NormalizeGrade(grade string) string {
	return strings.ToUpper(strings.TrimSpace(grade))
}

// GradePointValue returns the grade point for a grade, or nil when the grade
// is missing or does not count towards GPA.
func GradePointValue(grade *string) *float64 {
	if grade == nil {
		return nil
	}
	gpv, ok := gradePoints[NormalizeGrade(*grade)]
	if !ok {
		return nil
	}
	return &gpv
}

// IsValidGrade reports whether grade may be stored on a module. An empty
// grade means the module has not been graded yet.
func IsValidGrade(grade string) bool {
	g := NormalizeGrade(grade)
	if g == "" || nonCountableGrades[g] {
		return true
	}
	_, ok := gradePoints[g]
	return ok
}

// IsCountable reports whether a grade contributes to GPA arithmetic
func IsCountable(grade string) bool {
	_, ok := gradePoints[NormalizeGrade(grade)]
	return ok
}

// SemesterWeight returns the CGPA weight for a semester number.
// Semesters 1 and 2 weigh less than later ones; a missing or non-positive
// number has weight 0, which excludes the module.
func SemesterWeight(number *int) float64 {
	if number == nil || *number <= 0 {
		return 0
	}
	if *number == 1 || *number == 2 {
		return WeightEarlySemester
	}
	return WeightLaterSemester
}

// countable returns the grade point and credits of a record that takes part
// in GPA arithmetic.
func countable(r GradeRecord) (float64, float64, bool) {
	gpv := GradePointValue(r.Grade)
	if gpv == nil || r.Credits == nil || *r.Credits <= 0 {
		return 0, 0, false
	}
	return *gpv, float64(*r.Credits), true
}

// ComputeSGPA returns the credit-weighted average grade point of the given
// records, or nil when none of them is countable.
func ComputeSGPA(records []GradeRecord) *float64 {
	var num, den float64
	for _, r := range records {
		gpv, credits, ok := countable(r)
		if !ok {
			continue
		}
		num += credits * gpv
		den += credits
	}
	return ratio(num, den)
}

// ComputeCGPA returns the cumulative GPA, weighting every module by its
// credits and by the weight of its semester number. Records are pooled by
// semester number, not semester identity.
func ComputeCGPA(records []GradeRecord) *float64 {
	var num, den float64
	for _, r := range records {
		gpv, credits, ok := countable(r)
		if !ok {
			continue
		}
		w := SemesterWeight(r.SemesterNumber)
		if w == 0 {
			continue
		}
		num += w * credits * gpv
		den += w * credits
	}
	return ratio(num, den)
}

// SGPAForSemesterNumber computes SGPA over the records carrying the given
// semester number.
func SGPAForSemesterNumber(records []GradeRecord, number int) *float64 {
	var scoped []GradeRecord
	for _, r := range records {
		if r.SemesterNumber != nil && *r.SemesterNumber == number {
			scoped = append(scoped, r)
		}
	}
	return ComputeSGPA(scoped)
}

// OrZero collapses a missing result to 0.0 for bare-number responses
func OrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func ratio(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	v := num / den
	return &v
}

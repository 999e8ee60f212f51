// Package studytime aggregates recorded study sessions into per-day and
// per-module totals. Sessions count towards the day their start time falls on.
package studytime

import (
	"sort"
	"time"

	"github.com/academic-tracker/backend/internal/models"
	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

type Summary struct {
	ModuleSeconds int64 `json:"module_seconds"`
	AllSeconds    int64 `json:"all_seconds"`
}

type ModuleTotal struct {
	ModuleID uuid.UUID `json:"module_id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Seconds  int64     `json:"seconds"`
}

type DayBreakdown struct {
	Date       string        `json:"date"`
	AllSeconds int64         `json:"all_seconds"`
	Totals     []ModuleTotal `json:"totals"`
}

// Duration returns whole seconds between start and end, never negative
func Duration(start, end time.Time) int64 {
	d := int64(end.Sub(start) / time.Second)
	if d < 0 {
		return 0
	}
	return d
}

// DayBounds returns [midnight, next midnight) of day in its own location
func DayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

// MonthBounds returns the first and last calendar day of day's month
func MonthBounds(day time.Time) (time.Time, time.Time) {
	y, m, _ := day.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, day.Location())
	return first, first.AddDate(0, 1, -1)
}

func seconds(s models.StudySession) int64 {
	if s.DurationSeconds > 0 {
		return s.DurationSeconds
	}
	return Duration(s.StartTime, s.EndTime)
}

func onDay(s models.StudySession, start, end time.Time) bool {
	return !s.StartTime.Before(start) && s.StartTime.Before(end)
}

// TodaySummary totals the sessions that started on day. ModuleSeconds is only
// filled when moduleID is given.
func TodaySummary(day time.Time, sessions []models.StudySession, moduleID *uuid.UUID) Summary {
	start, end := DayBounds(day)
	var summary Summary
	for _, s := range sessions {
		if !onDay(s, start, end) {
			continue
		}
		secs := seconds(s)
		summary.AllSeconds += secs
		if moduleID != nil && s.ModuleID == *moduleID {
			summary.ModuleSeconds += secs
		}
	}
	return summary
}

// BreakdownForDate totals sessions of one day per module, largest first
func BreakdownForDate(date time.Time, sessions []models.StudySession) DayBreakdown {
	start, end := DayBounds(date)
	byModule := make(map[uuid.UUID]*ModuleTotal)
	breakdown := DayBreakdown{Date: start.Format(DateLayout), Totals: []ModuleTotal{}}

	for _, s := range sessions {
		if !onDay(s, start, end) {
			continue
		}
		secs := seconds(s)
		breakdown.AllSeconds += secs

		total, ok := byModule[s.ModuleID]
		if !ok {
			total = &ModuleTotal{ModuleID: s.ModuleID}
			if s.Module != nil {
				total.Code = s.Module.Code
				total.Name = s.Module.Name
			}
			byModule[s.ModuleID] = total
		}
		total.Seconds += secs
	}

	for _, total := range byModule {
		breakdown.Totals = append(breakdown.Totals, *total)
	}
	sort.Slice(breakdown.Totals, func(i, j int) bool {
		a, b := breakdown.Totals[i], breakdown.Totals[j]
		if a.Seconds != b.Seconds {
			return a.Seconds > b.Seconds
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.ModuleID.String() < b.ModuleID.String()
	})
	return breakdown
}

// Heatmap maps each start date (YYYY-MM-DD) in loc to its total seconds.
// Days without sessions are absent.
func Heatmap(sessions []models.StudySession, loc *time.Location) map[string]int64 {
	out := make(map[string]int64)
	for _, s := range sessions {
		out[s.StartTime.In(loc).Format(DateLayout)] += seconds(s)
	}
	return out
}

package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/doknotforget/doknotforget/internal/config"
	"github.com/doknotforget/doknotforget/internal/model"
)

// Occurrence is the concrete calendar date on which a dated item next happens
// relative to a reference date.
type Occurrence struct {
	Target    time.Time
	DaysUntil int
	// Year is the calendar year of the occurrence.
	Year int
	// BirthYear is the year segment of the source date, 0 when unknown.
	BirthYear int
}

// startOfDay truncates a time to local midnight.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween returns target - base in whole days. Both sides are truncated
// to midnight first and the result rounded to the nearest day to absorb DST
// artifacts.
func daysBetween(target, base time.Time) int {
	diff := startOfDay(target).Sub(startOfDay(base))
	return int(math.Round(diff.Hours() / 24))
}

// parseYMD splits a YYYY-MM-DD string into numeric segments without
// validating the calendar. The year may be the 0000 sentinel.
func parseYMD(value string) (year, month, day int, ok bool) {
	parts := strings.SplitN(value, "-", 3)
	if len(parts) != 3 || parts[0] == "" {
		return 0, 0, 0, false
	}
	year, errY := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	day, errD := strconv.Atoi(parts[2])
	if errY != nil || errM != nil || errD != nil {
		return 0, 0, 0, false
	}
	return year, month, day, true
}

// parseISODate parses a strict YYYY-MM-DD calendar string. Year 0000 is
// accepted (year-unknown sentinel).
func parseISODate(value string) (time.Time, bool) {
	t, err := time.Parse(config.DateFormatISO, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func toISODate(t time.Time) string {
	return t.Format(config.DateFormatISO)
}

// recurringOccurrenceWithin computes the next occurrence of a recurring
// month/day within the horizon. The year segment may be unknown. A month/day
// combination invalid for the target year (Feb 29 outside leap years) yields
// no occurrence for that year rather than being clamped.
func recurringOccurrenceWithin(isoDate string, today time.Time, horizonDays int) (Occurrence, bool) {
	year, month, day, ok := parseYMD(isoDate)
	if !ok || month < 1 || month > 12 || day < 1 || day > 31 {
		return Occurrence{}, false
	}
	loc := today.Location()

	thisYear := time.Date(today.Year(), time.Month(month), day, 0, 0, 0, 0, loc)
	if thisYear.Month() != time.Month(month) || thisYear.Day() != day {
		return Occurrence{}, false
	}

	target := thisYear
	if thisYear.Before(startOfDay(today)) {
		target = time.Date(today.Year()+1, time.Month(month), day, 0, 0, 0, 0, loc)
		if target.Month() != time.Month(month) || target.Day() != day {
			return Occurrence{}, false
		}
	}

	daysUntil := daysBetween(target, today)
	if daysUntil < 0 || daysUntil > horizonDays {
		return Occurrence{}, false
	}

	birthYear := 0
	if year > 0 {
		birthYear = year
	}
	return Occurrence{Target: target, DaysUntil: daysUntil, Year: target.Year(), BirthYear: birthYear}, true
}

// momentOccurrenceWithin resolves a moment's next occurrence within the
// horizon. Recurring moments roll forward one year when this year's date has
// passed; fixed moments use the literal date.
func momentOccurrenceWithin(m model.Moment, today time.Time, horizonDays int) (Occurrence, bool) {
	parsed, ok := parseISODate(m.Date)
	if !ok {
		return Occurrence{}, false
	}
	loc := today.Location()

	if m.Recurring {
		month := parsed.Month()
		day := parsed.Day()

		thisYear := time.Date(today.Year(), month, day, 0, 0, 0, 0, loc)
		if thisYear.Month() != month || thisYear.Day() != day {
			return Occurrence{}, false
		}

		target := thisYear
		if thisYear.Before(startOfDay(today)) {
			target = time.Date(today.Year()+1, month, day, 0, 0, 0, 0, loc)
			if target.Month() != month || target.Day() != day {
				return Occurrence{}, false
			}
		}

		daysUntil := daysBetween(target, today)
		if daysUntil < 0 || daysUntil > horizonDays {
			return Occurrence{}, false
		}
		return Occurrence{Target: target, DaysUntil: daysUntil, Year: target.Year()}, true
	}

	target := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, loc)
	daysUntil := daysBetween(target, today)
	if daysUntil < 0 || daysUntil > horizonDays {
		return Occurrence{}, false
	}
	return Occurrence{Target: target, DaysUntil: daysUntil, Year: target.Year()}, true
}

// turningAge returns the age/years-elapsed a moment's owner reaches in the
// occurrence year. Unknown start year or non-positive results yield ok=false.
func turningAge(isoDate string, occurrenceYear int) (int, bool) {
	year, _, _, ok := parseYMD(isoDate)
	if !ok || year <= 0 {
		return 0, false
	}
	turning := occurrenceYear - year
	if turning <= 0 {
		return 0, false
	}
	return turning, true
}

// yearsElapsed is like turningAge but clamps at zero instead of rejecting,
// used for follow-up phrasing where "0 years" is still meaningful.
func yearsElapsed(isoDate string, occurrenceYear int) (int, bool) {
	year, _, _, ok := parseYMD(isoDate)
	if !ok || year <= 0 {
		return 0, false
	}
	years := occurrenceYear - year
	if years < 0 {
		years = 0
	}
	return years, true
}

func isDecadeMilestone(age int) bool {
	return age > 0 && age%10 == 0
}

// formatInDays renders a human-readable relative label for a day count.
func formatInDays(daysUntil int) string {
	switch daysUntil {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", daysUntil)
	}
}

func formatMonthDay(t time.Time) string {
	return t.Format(config.DateFormatMonthDay)
}

// timelineCategory buckets a day count; zero value outside all buckets.
func timelineCategory(daysUntil int) model.TimelineCategory {
	switch {
	case daysUntil >= 0 && daysUntil <= config.TimelineSoonMaxDays:
		return model.TimelineSoon
	case daysUntil >= config.TimelineUpcomingMinDays && daysUntil <= config.TimelineUpcomingMaxDays:
		return model.TimelineUpcoming
	case daysUntil >= config.TimelineLaterMinDays && daysUntil <= config.TimelineLaterMaxDays:
		return model.TimelineLater
	default:
		return ""
	}
}

func sameMonthDay(a, b time.Time) bool {
	return a.Month() == b.Month() && a.Day() == b.Day()
}

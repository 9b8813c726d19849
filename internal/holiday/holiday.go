// Package holiday computes upcoming holiday occurrences: fixed-rule annual
// holidays (nth weekday, Easter algorithms) and movable lunar-calendar
// holidays located by scanning forward through a calendar conversion.
package holiday

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/doknotforget/doknotforget/internal/config"
)

// ID identifies a supported holiday.
type ID string

const (
	MothersDay     ID = "mothersDay"
	FathersDay     ID = "fathersDay"
	EasterWestern  ID = "easterWestern"
	EasterOrthodox ID = "easterOrthodox"
	Hanukkah       ID = "hanukkah"
	Ramadan        ID = "ramadan"
	EidAlFitr      ID = "eidAlFitr"
)

// Display labels used in generated titles.
const (
	LabelMothersDay     = "Mother’s Day"
	LabelFathersDay     = "Father’s Day"
	LabelEasterWestern  = "Easter"
	LabelEasterOrthodox = "Greek Easter"
	LabelHanukkah       = "Hanukkah"
	LabelRamadan        = "Ramadan"
	LabelEidAlFitr      = "Eid al-Fitr"
)

// Occurrence is one holiday date, normalized to midnight local time.
type Occurrence struct {
	ID    ID
	Label string
	Date  time.Time
}

// Converter resolves a Gregorian date into a non-Gregorian calendar
// representation: the calendar month name (lowercase) and day number.
type Converter interface {
	Convert(date time.Time) (month string, day int, err error)
}

// Calendar computes upcoming holiday occurrences. A nil converter, or one
// that fails, degrades by omitting that calendar's holidays instead of
// failing the whole computation.
type Calendar struct {
	Hebrew  Converter
	Islamic Converter
}

// NewCalendar returns a Calendar wired to the default Hebrew and Umm al-Qura
// converters.
func NewCalendar() *Calendar {
	return &Calendar{
		Hebrew:  HebrewConverter{},
		Islamic: UmmAlQuraConverter{},
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysBetween(target, base time.Time) int {
	return int(startOfDay(target).Sub(startOfDay(base)).Round(24*time.Hour) / (24 * time.Hour))
}

// nthWeekdayOfMonth resolves rules like "2nd Sunday of May".
func nthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, nth int, loc *time.Location) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	day := 1 + offset + (nth-1)*7
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// MothersDayDate is the US rule: second Sunday in May.
func MothersDayDate(year int, loc *time.Location) time.Time {
	return nthWeekdayOfMonth(year, time.May, time.Sunday, 2, loc)
}

// FathersDayDate is the US rule: third Sunday in June.
func FathersDayDate(year int, loc *time.Location) time.Time {
	return nthWeekdayOfMonth(year, time.June, time.Sunday, 3, loc)
}

// WesternEasterDate implements the anonymous Gregorian computus
// (Meeus/Jones/Butcher).
func WesternEasterDate(year int, loc *time.Location) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31 // 3=March, 4=April
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
}

// OrthodoxEasterDate computes Julian-calendar Easter (Meeus), then shifts by
// the century-dependent Julian→Gregorian offset: 13 days for 1900–2099, 12
// before, 14 at/after 2100.
func OrthodoxEasterDate(year int, loc *time.Location) time.Time {
	a := year % 4
	b := year % 7
	c := year % 19
	d := (19*c + 15) % 30
	e := (2*a + 4*b - d + 34) % 7
	month := (d + e + 114) / 31
	day := (d+e+114)%31 + 1

	julian := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	offsetDays := 13
	switch {
	case year >= 2100:
		offsetDays = 14
	case year < 1900:
		offsetDays = 12
	}
	gregorian := julian.AddDate(0, 0, offsetDays)
	return time.Date(gregorian.Year(), gregorian.Month(), gregorian.Day(), 0, 0, 0, 0, loc)
}

// nextMatch scans forward day by day (bounded) until the converted date hits
// the target calendar month/day.
func nextMatch(conv Converter, today time.Time, wantMonth string, wantDay int) (time.Time, bool) {
	if conv == nil {
		return time.Time{}, false
	}
	start := startOfDay(today)
	for offset := 0; offset <= config.LunarScanDays; offset++ {
		date := start.AddDate(0, 0, offset)
		month, day, err := conv.Convert(date)
		if err != nil {
			slog.Debug(config.MsgSkippedHoliday,
				config.LogKeyComponent, config.CompHoliday,
				config.LogKeyError, err,
			)
			return time.Time{}, false
		}
		if day == wantDay && strings.Contains(strings.ToLower(month), wantMonth) {
			return date, true
		}
	}
	return time.Time{}, false
}

// NextHanukkah locates 25 Kislev on or after today.
func (c *Calendar) NextHanukkah(today time.Time) (time.Time, bool) {
	return nextMatch(c.Hebrew, today, "kislev", 25)
}

// NextRamadan locates 1 Ramadan on or after today.
func (c *Calendar) NextRamadan(today time.Time) (time.Time, bool) {
	return nextMatch(c.Islamic, today, "ramadan", 1)
}

// NextEidAlFitr locates 1 Shawwal on or after today.
func (c *Calendar) NextEidAlFitr(today time.Time) (time.Time, bool) {
	return nextMatch(c.Islamic, today, "shawwal", 1)
}

// Upcoming returns the holidays falling within [0, horizonDays] of today,
// sorted ascending by date. Fixed-rule holidays are computed for the
// reference year only; when the horizon spans a year boundary next year's
// fixed holidays are out of reach, matching the behavior this feed has
// always had.
func (c *Calendar) Upcoming(today time.Time, horizonDays int) []Occurrence {
	day := startOfDay(today)
	year := day.Year()
	loc := day.Location()

	candidates := []Occurrence{
		{ID: MothersDay, Label: LabelMothersDay, Date: MothersDayDate(year, loc)},
		{ID: FathersDay, Label: LabelFathersDay, Date: FathersDayDate(year, loc)},
		{ID: EasterWestern, Label: LabelEasterWestern, Date: WesternEasterDate(year, loc)},
		{ID: EasterOrthodox, Label: LabelEasterOrthodox, Date: OrthodoxEasterDate(year, loc)},
	}

	if date, ok := c.NextHanukkah(day); ok {
		candidates = append(candidates, Occurrence{ID: Hanukkah, Label: LabelHanukkah, Date: date})
	}
	if date, ok := c.NextRamadan(day); ok {
		candidates = append(candidates, Occurrence{ID: Ramadan, Label: LabelRamadan, Date: date})
	}
	if date, ok := c.NextEidAlFitr(day); ok {
		candidates = append(candidates, Occurrence{ID: EidAlFitr, Label: LabelEidAlFitr, Date: date})
	}

	upcoming := make([]Occurrence, 0, len(candidates))
	for _, h := range candidates {
		h.Date = startOfDay(h.Date)
		delta := daysBetween(h.Date, day)
		if delta >= 0 && delta <= horizonDays {
			upcoming = append(upcoming, h)
		}
	}

	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Date.Before(upcoming[j].Date) })
	return upcoming
}

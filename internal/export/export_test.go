package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doknotforget/doknotforget/internal/config"
	"github.com/doknotforget/doknotforget/internal/model"
)

var exportNow = time.Date(2025, 6, 15, 9, 30, 0, 0, time.Local)

func sampleCards() []model.CareCard {
	return []model.CareCard{
		{
			ID:       "care_birthday_p1_m1_2025-06-20",
			Type:     model.CardPersonBirthday,
			PersonID: "p1",
			Date:     "2025-06-20",
			Title:    "Rosa turns 40 in 5 days · June 20 · Turning 40",
			Message:  "Milestone birthday — maybe plan something special?",
		},
		{
			ID:       "care_holiday_mothersDay_p1_2025-05-11",
			Type:     model.CardHoliday,
			PersonID: "p1",
			Date:     "2025-05-11",
			Title:    "Mother’s Day for Rosa · May 11",
			Message:  "Send a kind note?",
		},
	}
}

func TestICS_EmptyFeed(t *testing.T) {
	e := &Exporter{}

	data, err := e.ICS(nil, exportNow)
	require.NoError(t, err)
	assert.Equal(t, config.StubVCalendar, string(data))
}

func TestICS_Events(t *testing.T) {
	e := &Exporter{}

	data, err := e.ICS(sampleCards(), exportNow)
	require.NoError(t, err)

	ics := string(data)
	assert.Contains(t, ics, "BEGIN:VCALENDAR")
	assert.Contains(t, ics, "PRODID:"+config.ICalProdid)
	assert.Contains(t, ics, "X-WR-CALNAME:"+config.ICalCalName)
	assert.Contains(t, ics, "UID:care_birthday_p1_m1_2025-06-20@"+config.ICalDomain)
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20250620")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20250511")
	assert.Contains(t, ics, "Send a kind note?")
	assert.Equal(t, 2, strings.Count(ics, "BEGIN:VEVENT"))
	assert.NotContains(t, ics, "BEGIN:VALARM", "no alarms unless a trigger is configured")
}

func TestICS_SkipsUnparseableDates(t *testing.T) {
	e := &Exporter{}
	cards := append(sampleCards(), model.CareCard{
		ID:    "care_custom_p9_m9_garbage",
		Type:  model.CardImportantDate,
		Date:  "not-a-date",
		Title: "Broken card",
	})

	data, err := e.ICS(cards, exportNow)
	require.NoError(t, err)

	ics := string(data)
	assert.Equal(t, 2, strings.Count(ics, "BEGIN:VEVENT"))
	assert.NotContains(t, ics, "Broken card")
}

func TestICS_AllDatesUnparseableYieldsStub(t *testing.T) {
	e := &Exporter{}
	cards := []model.CareCard{{ID: "x", Date: "never", Title: "Broken"}}

	data, err := e.ICS(cards, exportNow)
	require.NoError(t, err)
	assert.Equal(t, config.StubVCalendar, string(data))
}

func TestICS_ReminderAlarm(t *testing.T) {
	e := &Exporter{ReminderTrigger: "-P1D"}

	data, err := e.ICS(sampleCards()[:1], exportNow)
	require.NoError(t, err)

	ics := string(data)
	assert.Contains(t, ics, "BEGIN:VALARM")
	assert.Contains(t, ics, "ACTION:DISPLAY")
	assert.Contains(t, ics, "TRIGGER:-P1D")
	assert.Contains(t, ics, "END:VALARM")
}

// Package export renders the care card feed as an iCalendar subscription, so
// any calendar client can show upcoming care dates alongside real events.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"github.com/doknotforget/doknotforget/internal/config"
	"github.com/doknotforget/doknotforget/internal/model"
)

// Exporter converts care cards into an ICS byte stream.
type Exporter struct {
	// ReminderTrigger, when set, attaches a DISPLAY alarm with this ISO8601
	// duration (e.g. "-P1D") to every event.
	ReminderTrigger string
}

// ICS encodes the cards as a VCALENDAR. An empty feed yields the minimal
// valid stub so subscribed clients never see an invalid document.
func (e *Exporter) ICS(cards []model.CareCard, now time.Time) ([]byte, error) {
	if len(cards) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986 refresh hint.
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Stamp in UTC; the event dates themselves are local calendar dates.
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	for _, card := range cards {
		date, err := time.ParseInLocation(config.DateFormatISO, card.Date, now.Location())
		if err != nil {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatEventUID, card.ID, config.ICalDomain))
		event.Props.SetText(config.PropSummary, card.Title)
		event.Props.SetText(config.PropDescription, card.Message)

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(date)
		event.Props.Set(dtStartProp)
		event.Props.Set(dtStampProp)

		if e.ReminderTrigger != "" {
			addAlarm(event, e.ReminderTrigger, card.Title)
		}

		cal.Children = append(cal.Children, event.Component)
	}

	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param.
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/doknotforget/doknotforget/internal/config"
	"github.com/doknotforget/doknotforget/internal/holiday"
	"github.com/doknotforget/doknotforget/internal/model"
)

// sortableCard carries the feed ordering keys alongside the card; they are
// dropped before the feed is returned.
type sortableCard struct {
	model.CareCard
	daysUntil int
}

// Cards generates the archive card feed relative to the clock's current day.
func (g *Generator) Cards(people []model.Person) []model.CareCard {
	return g.CardsAt(people, g.now())
}

// CardsAt builds the dated card feed backing the timeline view and the
// iCalendar export. Cards are terser than suggestions: no questions, no
// follow-ups, no templated prose.
func (g *Generator) CardsAt(people []model.Person, base time.Time) []model.CareCard {
	today := startOfDay(base)

	var cards []sortableCard
	upcomingHolidays := g.upcomingHolidays(today, config.HolidayHorizonDays)

	for _, person := range people {
		who := firstName(person)
		culture := person.ResolvedCulture()

		cards = append(cards, childBirthdayCards(person, today)...)

		if card, ok := personBirthdayCard(person, today, who); ok {
			cards = append(cards, card)
		}

		cards = append(cards, holidayCards(person, today, who, culture, upcomingHolidays)...)
		cards = append(cards, schoolCards(person, today)...)
		cards = append(cards, momentCards(person, today, who)...)
	}

	seen := make(map[string]bool, len(cards))
	deduped := cards[:0]
	for _, c := range cards {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		deduped = append(deduped, c)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		a, b := deduped[i], deduped[j]
		if pa, pb := a.Type.Priority(), b.Type.Priority(); pa != pb {
			return pa < pb
		}
		if a.daysUntil != b.daysUntil {
			return a.daysUntil < b.daysUntil
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	})

	out := make([]model.CareCard, len(deduped))
	for i, c := range deduped {
		out[i] = c.CareCard
	}
	return out
}

func childBirthdayCards(person model.Person, today time.Time) []sortableCard {
	var cards []sortableCard

	for _, child := range person.Children {
		birthday := child.BirthdayValue()
		if birthday == "" {
			continue
		}
		occ, ok := recurringOccurrenceWithin(birthday, today, config.HorizonDays)
		if !ok {
			continue
		}

		label := childLabel(child, person)
		turning := 0
		if occ.BirthYear > 0 {
			turning = occ.Year - occ.BirthYear
			if turning < 0 {
				turning = 0
			}
		}
		title := fmt.Sprintf("%s's birthday is %s · %s", label, formatInDays(occ.DaysUntil), formatMonthDay(occ.Target))
		if turning > 0 {
			title = fmt.Sprintf("%s turns %d %s · %s", label, turning, formatInDays(occ.DaysUntil), formatMonthDay(occ.Target))
		}

		cards = append(cards, sortableCard{
			CareCard: model.CareCard{
				ID:       fmt.Sprintf(config.FormatCardID, "childBirthday", person.ID, child.ID, toISODate(occ.Target)),
				Type:     model.CardChildBirthday,
				PersonID: person.ID,
				ChildID:  child.ID,
				Date:     toISODate(occ.Target),
				Title:    title,
				Message:  "Send a kind note?",
			},
			daysUntil: occ.DaysUntil,
		})
	}

	return cards
}

// personBirthdayCard uses only the first birthday moment from the person's
// primary moment list, mirroring the single-birthday assumption of the
// profile view.
func personBirthdayCard(person model.Person, today time.Time, who string) (sortableCard, bool) {
	var birthdayMoment *model.Moment
	for i := range person.Moments {
		if person.Moments[i].Type == model.MomentBirthday {
			birthdayMoment = &person.Moments[i]
			break
		}
	}
	if birthdayMoment == nil || birthdayMoment.Date == "" {
		return sortableCard{}, false
	}

	occ, ok := momentOccurrenceWithin(*birthdayMoment, today, config.HorizonDays)
	if !ok {
		return sortableCard{}, false
	}

	turning, known := turningAge(birthdayMoment.Date, occ.Year)
	title := fmt.Sprintf("%s's birthday is %s · %s", who, formatInDays(occ.DaysUntil), formatMonthDay(occ.Target))
	if known {
		title = fmt.Sprintf("%s turns %d %s · %s", who, turning, formatInDays(occ.DaysUntil), formatMonthDay(occ.Target))
		if isDecadeMilestone(turning) {
			title = fmt.Sprintf("%s · Turning %d", title, turning)
		}
	}

	return sortableCard{
		CareCard: model.CareCard{
			ID:       fmt.Sprintf(config.FormatCardID, "personBirthday", person.ID, birthdayMoment.ID, toISODate(occ.Target)),
			Type:     model.CardPersonBirthday,
			PersonID: person.ID,
			Date:     toISODate(occ.Target),
			Title:    title,
			Message:  "Reach out?",
		},
		daysUntil: occ.DaysUntil,
	}, true
}

// cardHolidaySlug maps holiday ids to the archive feed's historical id
// segments, which predate the calendar package's naming.
func cardHolidaySlug(id holiday.ID) string {
	switch id {
	case holiday.EasterOrthodox:
		return "orthodoxEaster"
	case holiday.EasterWestern:
		return "easter"
	case holiday.EidAlFitr:
		return "eid"
	default:
		return string(id)
	}
}

func cardHolidayTitleLabel(id holiday.ID, label string) string {
	if id == holiday.EidAlFitr {
		return "Eid"
	}
	return label
}

func cardHolidayMessage(id holiday.ID) string {
	switch id {
	case holiday.MothersDay, holiday.FathersDay, holiday.Hanukkah:
		return "Send a kind note?"
	default:
		return "Reach out?"
	}
}

func holidayCards(person model.Person, today time.Time, who string, culture model.Culture, holidays []holiday.Occurrence) []sortableCard {
	var cards []sortableCard

	for _, h := range holidays {
		daysUntil := daysBetween(h.Date, today)
		if daysUntil < 0 || daysUntil > config.HorizonDays {
			continue
		}
		if !holidayEligible(person, h, culture) {
			continue
		}

		cards = append(cards, sortableCard{
			CareCard: model.CareCard{
				ID:       fmt.Sprintf(config.FormatHolidayCardID, cardHolidaySlug(h.ID), person.ID, toISODate(h.Date)),
				Type:     model.CardHoliday,
				PersonID: person.ID,
				Date:     toISODate(h.Date),
				Title:    fmt.Sprintf("%s for %s · %s", cardHolidayTitleLabel(h.ID, h.Label), who, formatMonthDay(h.Date)),
				Message:  cardHolidayMessage(h.ID),
			},
			daysUntil: daysUntil,
		})
	}

	return cards
}

func schoolCards(person model.Person, today time.Time) []sortableCard {
	var cards []sortableCard

	for _, child := range person.Children {
		for _, ev := range child.SchoolEvents {
			parsed, ok := parseISODate(ev.Date)
			if !ok {
				continue
			}
			target := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, today.Location())
			daysUntil := daysBetween(target, today)
			if daysUntil < 0 || daysUntil > config.SchoolHorizonDays {
				continue
			}

			cards = append(cards, sortableCard{
				CareCard: model.CareCard{
					ID:       fmt.Sprintf(config.FormatSchoolCardID, person.ID, child.ID, string(ev.Type), toISODate(target)),
					Type:     model.CardSchool,
					PersonID: person.ID,
					ChildID:  child.ID,
					Date:     toISODate(target),
					Title:    fmt.Sprintf("%s · %s · %s", childLabel(child, person), ev.Type.Label(), formatMonthDay(target)),
					Message:  "Want to plan ahead?",
				},
				daysUntil: daysUntil,
			})
		}
	}

	return cards
}

func momentCards(person model.Person, today time.Time, who string) []sortableCard {
	var cards []sortableCard

	for _, m := range person.MergedMoments() {
		occ, ok := momentOccurrenceWithin(m, today, config.HorizonDays)
		if !ok {
			continue
		}
		when := formatMonthDay(occ.Target)
		label := momentDisplayLabel(m)

		switch {
		case m.Sensitive():
			cards = append(cards, sortableCard{
				CareCard: model.CareCard{
					ID:       fmt.Sprintf(config.FormatCardID, "sensitive", person.ID, m.ID, toISODate(occ.Target)),
					Type:     model.CardSensitive,
					PersonID: person.ID,
					Date:     toISODate(occ.Target),
					Title:    fmt.Sprintf("%s · %s · %s", who, label, when),
					Message:  "Check in?",
				},
				daysUntil: occ.DaysUntil,
			})

		case m.Type == model.MomentAnniversary:
			cards = append(cards, sortableCard{
				CareCard: model.CareCard{
					ID:       fmt.Sprintf(config.FormatCardID, "anniversary", person.ID, m.ID, toISODate(occ.Target)),
					Type:     model.CardAnniversary,
					PersonID: person.ID,
					Date:     toISODate(occ.Target),
					Title:    fmt.Sprintf("%s · Anniversary · %s", who, when),
					Message:  "Reach out?",
				},
				daysUntil: occ.DaysUntil,
			})

		case m.Type == model.MomentCustom:
			cards = append(cards, sortableCard{
				CareCard: model.CareCard{
					ID:       fmt.Sprintf(config.FormatCardID, "important", person.ID, m.ID, toISODate(occ.Target)),
					Type:     model.CardImportantDate,
					PersonID: person.ID,
					Date:     toISODate(occ.Target),
					Title:    fmt.Sprintf("%s · %s · %s", who, label, when),
					Message:  "Make a note?",
				},
				daysUntil: occ.DaysUntil,
			})
		}
	}

	return cards
}

// Package engine generates the ranked care-suggestion feed: a pure
// computation over people, their moments and children, the holiday calendar,
// and a reference date. It performs no I/O and is safe for concurrent use as
// long as the input snapshot is not mutated during a call.
package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/doknotforget/doknotforget/internal/config"
	"github.com/doknotforget/doknotforget/internal/holiday"
	"github.com/doknotforget/doknotforget/internal/model"
)

// HolidaySource supplies candidate holiday occurrences. *holiday.Calendar is
// the production implementation; tests substitute fixtures.
type HolidaySource interface {
	Upcoming(today time.Time, horizonDays int) []holiday.Occurrence
}

// Generator is the care-suggestion engine.
type Generator struct {
	Clock    Clock
	Holidays HolidaySource
}

// NewGenerator wires a Generator with the real clock and holiday calendar.
func NewGenerator() *Generator {
	return &Generator{Clock: RealClock{}, Holidays: holiday.NewCalendar()}
}

func (g *Generator) now() time.Time {
	if g.Clock != nil {
		return g.Clock.Now()
	}
	return time.Now()
}

func (g *Generator) upcomingHolidays(today time.Time, horizonDays int) []holiday.Occurrence {
	if g.Holidays == nil {
		return nil
	}
	return g.Holidays.Upcoming(today, horizonDays)
}

// Suggestions generates the ranked feed relative to the clock's current day.
func (g *Generator) Suggestions(people []model.Person) []model.CareSuggestion {
	return g.SuggestionsAt(people, g.now())
}

// SuggestionsAt is the pure entry point: it always returns a (possibly
// empty) slice and never fails. Malformed dates and records are skipped.
func (g *Generator) SuggestionsAt(people []model.Person, base time.Time) []model.CareSuggestion {
	start := time.Now()
	today := startOfDay(base)
	todaySeed := toISODate(today)

	suggestions := followUpSuggestions(people, today)
	upcomingHolidays := g.upcomingHolidays(today, config.HolidayHorizonDays)

	for _, person := range people {
		suggestions = append(suggestions, personSuggestions(person, today, todaySeed, upcomingHolidays)...)
	}

	suggestions = dedupeSuggestions(suggestions)
	sortSuggestions(suggestions)

	slog.Debug(config.MsgFeedGenerated,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyPeople, len(people)),
			slog.Int(config.LogKeyCount, len(suggestions)),
			slog.Int(config.LogKeyHolidays, len(upcomingHolidays)),
		),
		config.LogKeyRefDate, todaySeed,
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return suggestions
}

// textOrView picks the action for an outreach card: a prefilled text when a
// phone number exists, otherwise a view action.
func textOrView(person model.Person, body string) (model.Action, string) {
	who := firstName(person)
	if person.Phone != "" {
		return model.Action{Kind: model.ActionText, PersonID: person.ID, Body: body}, fmt.Sprintf("Text %s", who)
	}
	return model.Action{Kind: model.ActionView, PersonID: person.ID}, fmt.Sprintf("View %s", who)
}

// followUpActionFor is like textOrView but labels the text action "Send a
// message", matching follow-up card phrasing.
func followUpActionFor(person model.Person, body string) (model.Action, string) {
	action, label := textOrView(person, body)
	if action.Kind == model.ActionText {
		label = config.ActionLabelSendMsg
	}
	return action, label
}

// followUpSuggestions checks, per person, whether yesterday was a child's
// birthday, the person's anniversary, or a sensitive custom date, and emits
// the corresponding follow-up cards. Follow-ups always sort first.
func followUpSuggestions(people []model.Person, today time.Time) []model.CareSuggestion {
	yesterday := today.AddDate(0, 0, -1)
	yesterdayISO := toISODate(yesterday)
	loc := today.Location()

	var suggestions []model.CareSuggestion

	for _, person := range people {
		who := firstName(person)

		// Child birthdays.
		for _, child := range person.Children {
			birthday := child.BirthdayValue()
			if birthday == "" {
				continue
			}
			year, month, day, ok := parseYMD(birthday)
			if !ok {
				continue
			}
			occurs := time.Date(yesterday.Year(), time.Month(month), day, 0, 0, 0, 0, loc)
			if !sameMonthDay(occurs, yesterday) {
				continue
			}

			label := childLabel(child, person)
			cue := ""
			if year > 0 {
				turning := yesterday.Year() - year
				if turning < 0 {
					turning = 0
				}
				if milestoneInsight(turning, true) != "" {
					cue = config.CueMilestone
				}
			}
			body := fmt.Sprintf("Thinking of you — hope %s had a good birthday.", label)
			action, actionLabel := followUpActionFor(person, body)

			suggestions = append(suggestions, model.CareSuggestion{
				ID:            fmt.Sprintf(config.FormatFollowUpID, "childBirthday", person.ID, child.ID, yesterdayISO),
				Type:          model.SuggestionFollowUp,
				PersonID:      person.ID,
				Title:         fmt.Sprintf("Yesterday was %s’s birthday", label),
				Message:       "Want to send a quick follow-up?",
				Insight:       parentInsight(person),
				Cue:           cue,
				ActionLabel:   actionLabel,
				Action:        action,
				SortDaysUntil: -1,
			})
		}

		// Anniversary.
		for _, m := range person.Moments {
			if m.Type != model.MomentAnniversary {
				continue
			}
			parsed, ok := parseISODate(m.Date)
			if ok {
				occurs := time.Date(yesterday.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, loc)
				if sameMonthDay(occurs, yesterday) {
					years, known := yearsElapsed(m.Date, yesterday.Year())
					body := fmt.Sprintf("Thinking of you, %s.", who)
					action, actionLabel := followUpActionFor(person, body)

					suggestions = append(suggestions, model.CareSuggestion{
						ID:            fmt.Sprintf(config.FormatFollowUpID, "anniversary", person.ID, m.ID, yesterdayISO),
						Type:          model.SuggestionFollowUp,
						PersonID:      person.ID,
						Title:         fmt.Sprintf("%s’s anniversary was yesterday", who),
						Message:       "A little check-in could mean a lot.",
						Cue:           anniversaryCue(years, known),
						ActionLabel:   actionLabel,
						Action:        action,
						SortDaysUntil: -1,
					})
				}
			}
			break
		}

		// Sensitive dates.
		for _, m := range person.MergedMoments() {
			if !m.Sensitive() {
				continue
			}
			parsed, ok := parseISODate(m.Date)
			if !ok {
				continue
			}
			occurs := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, loc)
			if m.Recurring {
				occurs = time.Date(yesterday.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, loc)
			}
			if !sameMonthDay(occurs, yesterday) {
				continue
			}
			body := fmt.Sprintf("Thinking of you today, %s.", who)
			action, actionLabel := followUpActionFor(person, body)

			suggestions = append(suggestions, model.CareSuggestion{
				ID:            fmt.Sprintf(config.FormatFollowUpID, "sensitive", person.ID, m.ID, yesterdayISO),
				Type:          model.SuggestionFollowUp,
				PersonID:      person.ID,
				Title:         fmt.Sprintf("Yesterday may have been a difficult day for %s", who),
				Message:       "Want to send a short note?",
				ActionLabel:   actionLabel,
				Action:        action,
				SortDaysUntil: -1,
			})
		}
	}

	return suggestions
}

func personSuggestions(person model.Person, today time.Time, todaySeed string, holidays []holiday.Occurrence) []model.CareSuggestion {
	var suggestions []model.CareSuggestion

	suggestions = append(suggestions, kidBirthdaySuggestions(person, today, todaySeed)...)
	suggestions = append(suggestions, schoolMilestoneSuggestions(person, today)...)
	suggestions = append(suggestions, holidaySuggestions(person, today, todaySeed, holidays)...)
	suggestions = append(suggestions, momentSuggestions(person, today, todaySeed)...)

	return suggestions
}

func kidBirthdaySuggestions(person model.Person, today time.Time, todaySeed string) []model.CareSuggestion {
	var suggestions []model.CareSuggestion

	for _, child := range person.Children {
		birthday := child.BirthdayValue()
		if birthday == "" {
			continue
		}
		occ, ok := recurringOccurrenceWithin(birthday, today, config.KidsHorizonDays)
		if !ok {
			continue
		}

		who := childLabel(child, person)
		parent := firstName(person)

		turning := 0
		if occ.BirthYear > 0 {
			turning = occ.Year - occ.BirthYear
			if turning < 0 {
				turning = 0
			}
		}
		title := fmt.Sprintf("%s's birthday is %s", who, formatInDays(occ.DaysUntil))
		if turning > 0 {
			title = fmt.Sprintf("%s turns %d %s", who, turning, formatInDays(occ.DaysUntil))
		}

		seed := fmt.Sprintf(config.FormatTemplateSeed, "kidBirthday", person.ID, child.ID, todaySeed)
		message := ApplyTemplate(PickTemplate(kidBirthdayTemplates, seed), map[string]string{
			"childName":  who,
			"parentName": parent,
		})

		suggestions = append(suggestions, model.CareSuggestion{
			ID:            fmt.Sprintf(config.FormatSuggestionID, "kidBirthday", person.ID, child.ID, toISODate(occ.Target)),
			Type:          model.SuggestionKidBirthday,
			PersonID:      person.ID,
			Title:         title,
			Message:       message,
			Insight:       parentInsight(person),
			Timeline:      timelineCategory(occ.DaysUntil),
			ActionLabel:   config.ActionLabelPlanGift,
			Action:        model.Action{Kind: model.ActionGiftIdeas, PersonID: person.ID},
			SortDaysUntil: occ.DaysUntil,
		})
	}

	return suggestions
}

func schoolMilestoneSuggestions(person model.Person, today time.Time) []model.CareSuggestion {
	var suggestions []model.CareSuggestion

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

			who := childLabel(child, person)
			suggestions = append(suggestions, model.CareSuggestion{
				ID:            fmt.Sprintf(config.FormatSchoolID, person.ID, child.ID, string(ev.Type), toISODate(target)),
				Type:          model.SuggestionSchool,
				PersonID:      person.ID,
				Title:         fmt.Sprintf("%s's %s is %s", who, ev.Type.Label(), formatInDays(daysUntil)),
				Message:       "Want to plan something small or set a reminder?",
				Insight:       parentInsight(person),
				Timeline:      timelineCategory(daysUntil),
				ActionLabel:   config.ActionLabelDetails,
				Action:        model.Action{Kind: model.ActionView, PersonID: person.ID},
				SortDaysUntil: daysUntil,
			})
		}
	}

	return suggestions
}

func holidayEligible(person model.Person, h holiday.Occurrence, culture model.Culture) bool {
	hasKids := person.KidsConfirmed()
	prefs := person.HolidayPrefs

	switch h.ID {
	case holiday.MothersDay:
		return hasKids && prefs != nil && prefs.MothersDay != nil && *prefs.MothersDay
	case holiday.FathersDay:
		return hasKids && prefs != nil && prefs.FathersDay != nil && *prefs.FathersDay
	case holiday.EasterOrthodox:
		return culture == model.CultureOrthodox
	case holiday.EasterWestern:
		return culture == model.CultureChristian
	case holiday.Hanukkah:
		return culture == model.CultureJewish
	case holiday.Ramadan, holiday.EidAlFitr:
		return culture == model.CultureMuslim
	default:
		return false
	}
}

func cultureGated(id holiday.ID) bool {
	switch id {
	case holiday.EasterOrthodox, holiday.EasterWestern, holiday.Hanukkah, holiday.Ramadan, holiday.EidAlFitr:
		return true
	default:
		return false
	}
}

func parentalHoliday(id holiday.ID) bool {
	return id == holiday.MothersDay || id == holiday.FathersDay
}

// holidaySuggestions walks the holiday candidates in date order, injecting at
// most one micro-question per person (first unmet precondition wins) and
// emitting visible suggestions for holidays the person is eligible for. A
// holiday that only triggered a question produces no visible card this pass.
func holidaySuggestions(person model.Person, today time.Time, todaySeed string, holidays []holiday.Occurrence) []model.CareSuggestion {
	var suggestions []model.CareSuggestion

	who := firstName(person)
	culture := person.ResolvedCulture()
	questionAdded := false

	for _, h := range holidays {
		daysUntil := daysBetween(h.Date, today)
		if daysUntil < 0 || daysUntil > config.HolidayHorizonDays {
			continue
		}

		if !questionAdded {
			if q := electQuestion(person, h, who, daysUntil); q != nil {
				suggestions = append(suggestions, *q)
				questionAdded = true
			}
		}

		if !holidayEligible(person, h, culture) {
			continue
		}

		body := fmt.Sprintf("Thinking of you, %s.", who)
		action, actionLabel := textOrView(person, body)

		var title string
		switch h.ID {
		case holiday.MothersDay:
			title = fmt.Sprintf("Mother’s Day is %s for %s", formatInDays(daysUntil), who)
		case holiday.FathersDay:
			title = fmt.Sprintf("Father’s Day is %s for %s", formatInDays(daysUntil), who)
		default:
			title = fmt.Sprintf("%s is %s for %s", h.Label, formatInDays(daysUntil), who)
		}

		var message, insight string
		if parentalHoliday(h.ID) {
			message = fmt.Sprintf("Want to send %s a short note?", who)
			insight = parentInsight(person)
		} else {
			seed := fmt.Sprintf(config.FormatTemplateSeed, "holiday", string(h.ID), person.ID, todaySeed)
			message = ApplyTemplate(PickTemplate(holidayTemplates, seed), map[string]string{
				"holiday": h.Label,
				"name":    who,
			})
			if culture != "" {
				insight = fmt.Sprintf("%s is often meaningful — a thoughtful message goes a long way.", h.Label)
			}
		}

		suggestions = append(suggestions, model.CareSuggestion{
			ID:            fmt.Sprintf(config.FormatHolidayID, string(h.ID), person.ID, toISODate(h.Date)),
			Type:          model.SuggestionHoliday,
			PersonID:      person.ID,
			Title:         title,
			Message:       message,
			Insight:       insight,
			Timeline:      timelineCategory(daysUntil),
			ActionLabel:   actionLabel,
			Action:        action,
			SortDaysUntil: daysUntil,
		})
	}

	return suggestions
}

// electQuestion picks the first unmet data precondition for this holiday, in
// fixed priority order: hasKids unknown, no child records, child missing a
// birthday, culture unset, holiday preference unset. Nil when nothing needs
// asking.
func electQuestion(person model.Person, h holiday.Occurrence, who string, daysUntil int) *model.CareSuggestion {
	hasKids := person.KidsConfirmed()
	kidsExplicit := person.HasKids != nil && *person.HasKids
	prefs := person.HolidayPrefs
	culture := person.ResolvedCulture()
	dateISO := toISODate(h.Date)

	question := func(idPrefix, message string, q model.Question) *model.CareSuggestion {
		return &model.CareSuggestion{
			ID:            fmt.Sprintf(config.FormatQuestionID, idPrefix, person.ID, dateISO),
			Type:          model.SuggestionQuestion,
			PersonID:      person.ID,
			Title:         fmt.Sprintf("Quick question about %s", who),
			Message:       message,
			Action:        model.Action{Kind: model.ActionView, PersonID: person.ID},
			SortDaysUntil: daysUntil,
			Question:      &q,
		}
	}

	switch {
	case h.ID == holiday.MothersDay && person.HasKids == nil:
		return question("hasKids", "So this stays relevant.", model.Question{
			ID:     model.QuestionHasKids,
			Prompt: fmt.Sprintf("Does %s have kids?", who),
			Options: []model.QuestionOption{
				{ID: "yes", Label: "Yes", Patch: model.Patch{Kind: model.PatchSetHasKids, Bool: true}},
				{ID: "no", Label: "No", Patch: model.Patch{Kind: model.PatchDeclineKidHolidays}},
			},
		})

	case hasKids && len(person.Children) == 0 && parentalHoliday(h.ID) && kidsExplicit:
		return question("addChild", "So birthdays and milestones can show up naturally.", model.Question{
			ID:     model.QuestionAddChildName,
			Prompt: fmt.Sprintf("Want to add a child for %s?", who),
		})

	case hasKids && parentalHoliday(h.ID) && kidsExplicit && firstChildMissingBirthday(person) != nil:
		missing := firstChildMissingBirthday(person)
		return question("childBirthday", "A birthday (even without a year) helps it show up in time.", model.Question{
			ID:     model.QuestionAddChildBirthday,
			Prompt: fmt.Sprintf("Want to add a birthday for %s?", childLabel(*missing, person)),
			Meta:   map[string]string{model.MetaChildID: missing.ID},
		})

	case cultureGated(h.ID) && culture == "":
		return question("religionCulture", "So I can remember what matters.", model.Question{
			ID:     model.QuestionCulture,
			Prompt: fmt.Sprintf("Which best fits for %s?", who),
			Options: []model.QuestionOption{
				{ID: "christian", Label: "Christian", Patch: model.Patch{Kind: model.PatchSetCulture, Culture: model.CultureChristian}},
				{ID: "orthodox", Label: "Orthodox", Patch: model.Patch{Kind: model.PatchSetCulture, Culture: model.CultureOrthodox}},
				{ID: "jewish", Label: "Jewish", Patch: model.Patch{Kind: model.PatchSetCulture, Culture: model.CultureJewish}},
				{ID: "muslim", Label: "Muslim", Patch: model.Patch{Kind: model.PatchSetCulture, Culture: model.CultureMuslim}},
				{ID: "none", Label: "None", Patch: model.Patch{Kind: model.PatchSetCulture, Culture: model.CultureNone}},
			},
		})

	case h.ID == holiday.MothersDay && hasKids && (prefs == nil || prefs.MothersDay == nil):
		return question("mothersDay", "So this stays personal, not generic.", model.Question{
			ID:     model.QuestionMothersDay,
			Prompt: fmt.Sprintf("Should I include Mother’s Day for %s?", who),
			Options: []model.QuestionOption{
				{ID: "yes", Label: "Yes", Patch: model.Patch{Kind: model.PatchSetMothersDayPref, Bool: true}},
				{ID: "no", Label: "No", Patch: model.Patch{Kind: model.PatchSetMothersDayPref, Bool: false}},
			},
		})

	case h.ID == holiday.FathersDay && hasKids && (prefs == nil || prefs.FathersDay == nil):
		return question("fathersDay", "So this stays personal, not generic.", model.Question{
			ID:     model.QuestionFathersDay,
			Prompt: fmt.Sprintf("Should I include Father’s Day for %s?", who),
			Options: []model.QuestionOption{
				{ID: "yes", Label: "Yes", Patch: model.Patch{Kind: model.PatchSetFathersDayPref, Bool: true}},
				{ID: "no", Label: "No", Patch: model.Patch{Kind: model.PatchSetFathersDayPref, Bool: false}},
			},
		})
	}

	return nil
}

func firstChildMissingBirthday(person model.Person) *model.Child {
	for i := range person.Children {
		if person.Children[i].BirthdayValue() == "" {
			return &person.Children[i]
		}
	}
	return nil
}

func momentSuggestions(person model.Person, today time.Time, todaySeed string) []model.CareSuggestion {
	var suggestions []model.CareSuggestion
	who := firstName(person)

	for _, m := range person.MergedMoments() {
		occ, ok := momentOccurrenceWithin(m, today, config.HorizonDays)
		if !ok {
			continue
		}
		label := momentDisplayLabel(m)

		switch {
		case m.Sensitive():
			body := fmt.Sprintf("Thinking of you today, %s.", who)
			action, actionLabel := textOrView(person, body)
			seed := fmt.Sprintf(config.FormatTemplateSeed, "sensitive", person.ID, m.ID, todaySeed)

			suggestions = append(suggestions, model.CareSuggestion{
				ID:            fmt.Sprintf(config.FormatSuggestionID, "sensitive", person.ID, m.ID, toISODate(occ.Target)),
				Type:          model.SuggestionSensitive,
				PersonID:      person.ID,
				Title:         fmt.Sprintf("%s for %s is %s", label, who, formatInDays(occ.DaysUntil)),
				Message:       ApplyTemplate(PickTemplate(meaningfulDateTemplates, seed), map[string]string{"name": who}),
				Insight:       parentInsight(person),
				Timeline:      timelineCategory(occ.DaysUntil),
				ActionLabel:   actionLabel,
				Action:        action,
				SortDaysUntil: occ.DaysUntil,
			})

		case m.Type == model.MomentBirthday:
			turning, known := turningAge(m.Date, occ.Year)

			title := fmt.Sprintf("%s's birthday is %s", who, formatInDays(occ.DaysUntil))
			if known {
				title = fmt.Sprintf("%s turns %d %s", who, turning, formatInDays(occ.DaysUntil))
				if isDecadeMilestone(turning) {
					title = fmt.Sprintf("%s · Turning %d", title, turning)
				}
			}

			templates := birthdayTemplates
			vars := map[string]string{"name": who}
			if known {
				vars["age"] = fmt.Sprintf("%d", turning)
				if occ.DaysUntil <= config.TimelineSoonMaxDays {
					templates = append([]string{birthdayThisWeekTemplate}, birthdayTemplates...)
				}
			}
			seed := fmt.Sprintf(config.FormatTemplateSeed, "birthday", person.ID, m.ID, todaySeed)

			insight := milestoneInsight(turning, known)
			cue := ""
			if insight != "" {
				cue = config.CueMilestone
			} else {
				insight = parentInsight(person)
			}

			suggestions = append(suggestions, model.CareSuggestion{
				ID:            fmt.Sprintf(config.FormatSuggestionID, "birthday", person.ID, m.ID, toISODate(occ.Target)),
				Type:          model.SuggestionBirthday,
				PersonID:      person.ID,
				Title:         title,
				Message:       ApplyTemplate(PickTemplate(templates, seed), vars),
				Insight:       insight,
				Cue:           cue,
				Timeline:      timelineCategory(occ.DaysUntil),
				ActionLabel:   config.ActionLabelSeeIdeas,
				Action:        model.Action{Kind: model.ActionGiftIdeas, PersonID: person.ID},
				SortDaysUntil: occ.DaysUntil,
			})

		case m.Type == model.MomentAnniversary:
			years, known := yearsElapsed(m.Date, occ.Year)

			title := fmt.Sprintf("%s's anniversary is %s", who, formatInDays(occ.DaysUntil))
			if known && years > 0 {
				title = fmt.Sprintf("%s · %d years", title, years)
			}

			body := fmt.Sprintf("Thinking of you today, %s.", who)
			action, actionLabel := textOrView(person, body)
			seed := fmt.Sprintf(config.FormatTemplateSeed, "anniversary", person.ID, m.ID, todaySeed)

			suggestions = append(suggestions, model.CareSuggestion{
				ID:            fmt.Sprintf(config.FormatSuggestionID, "anniversary", person.ID, m.ID, toISODate(occ.Target)),
				Type:          model.SuggestionAnniversary,
				PersonID:      person.ID,
				Title:         title,
				Message:       ApplyTemplate(PickTemplate(anniversaryTemplates, seed), map[string]string{"name": who}),
				Insight:       parentInsight(person),
				Cue:           anniversaryCue(years, known),
				Timeline:      timelineCategory(occ.DaysUntil),
				ActionLabel:   actionLabel,
				Action:        action,
				SortDaysUntil: occ.DaysUntil,
			})

		case m.Type == model.MomentCustom:
			body := fmt.Sprintf("Hey %s — thinking of you.", who)
			action, actionLabel := textOrView(person, body)
			seed := fmt.Sprintf(config.FormatTemplateSeed, "custom", person.ID, m.ID, todaySeed)

			suggestions = append(suggestions, model.CareSuggestion{
				ID:            fmt.Sprintf(config.FormatSuggestionID, "custom", person.ID, m.ID, toISODate(occ.Target)),
				Type:          model.SuggestionCustom,
				PersonID:      person.ID,
				Title:         fmt.Sprintf("%s for %s is %s", label, who, formatInDays(occ.DaysUntil)),
				Message:       ApplyTemplate(PickTemplate(meaningfulDateTemplates, seed), map[string]string{"name": who}),
				Insight:       parentInsight(person),
				Timeline:      timelineCategory(occ.DaysUntil),
				ActionLabel:   actionLabel,
				Action:        action,
				SortDaysUntil: occ.DaysUntil,
			})
		}
	}

	return suggestions
}

// dedupeSuggestions drops later cards that repeat an earlier deterministic
// id, so regenerating on the same day stays idempotent for diffing upstream.
func dedupeSuggestions(suggestions []model.CareSuggestion) []model.CareSuggestion {
	seen := make(map[string]bool, len(suggestions))
	out := suggestions[:0]
	for _, s := range suggestions {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		out = append(out, s)
	}
	return out
}

// sortSuggestions orders by type priority, then days-until, then title
// (case-insensitive) as a stable tiebreak.
func sortSuggestions(suggestions []model.CareSuggestion) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if pa, pb := a.Type.Priority(), b.Type.Priority(); pa != pb {
			return pa < pb
		}
		if a.SortDaysUntil != b.SortDaysUntil {
			return a.SortDaysUntil < b.SortDaysUntil
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	})
}

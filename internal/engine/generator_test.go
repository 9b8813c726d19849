package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doknotforget/doknotforget/internal/holiday"
	"github.com/doknotforget/doknotforget/internal/model"
)

// stubHolidays replaces the real calendar with fixed occurrences so tests do
// not depend on lunar calendar conversion.
type stubHolidays struct {
	occurrences []holiday.Occurrence
}

func (s stubHolidays) Upcoming(today time.Time, horizonDays int) []holiday.Occurrence {
	return s.occurrences
}

func personNamed(name string) model.Person {
	return model.Person{ID: "p1", Name: name}
}

func boolPtr(v bool) *bool { return &v }

func newTestGenerator(holidays ...holiday.Occurrence) *Generator {
	return &Generator{Holidays: stubHolidays{occurrences: holidays}}
}

func TestSuggestions_BirthdayUnknownYear(t *testing.T) {
	// Ava, no phone, birthday with the year-unknown sentinel.
	ava := model.Person{
		ID:   "ava",
		Name: "Ava",
		Moments: []model.Moment{
			{ID: "m1", Type: model.MomentBirthday, Date: "0000-07-04", Recurring: true},
		},
	}
	ref := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

	got := newTestGenerator().SuggestionsAt([]model.Person{ava}, ref)

	require.Len(t, got, 1)
	assert.Equal(t, "Ava's birthday is in 3 days", got[0].Title)
	assert.Equal(t, model.SuggestionBirthday, got[0].Type)
	assert.Equal(t, model.ActionGiftIdeas, got[0].Action.Kind)
	assert.NotContains(t, got[0].Title, "turns")
}

func TestSuggestions_BirthdayKnownYear(t *testing.T) {
	ava := model.Person{
		ID:   "ava",
		Name: "Ava",
		Moments: []model.Moment{
			{ID: "m1", Type: model.MomentBirthday, Date: "1985-07-04", Recurring: true},
		},
	}
	ref := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

	got := newTestGenerator().SuggestionsAt([]model.Person{ava}, ref)

	require.Len(t, got, 1)
	// 2025 - 1985 = 40, a decade milestone, so the title carries the suffix.
	assert.Equal(t, "Ava turns 40 in 3 days · Turning 40", got[0].Title)
	assert.Equal(t, model.TimelineSoon, got[0].Timeline)
}

func TestSuggestions_HasKidsQuestion(t *testing.T) {
	// Sam with hasKids unset, Mother's Day five days out: exactly one
	// question, no visible Mother's Day card.
	sam := model.Person{ID: "sam", Name: "Sam"}
	mothersDay := time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)
	ref := time.Date(2025, 5, 6, 8, 0, 0, 0, time.UTC)

	gen := newTestGenerator(holiday.Occurrence{ID: holiday.MothersDay, Label: holiday.LabelMothersDay, Date: mothersDay})
	got := gen.SuggestionsAt([]model.Person{sam}, ref)

	require.Len(t, got, 1)
	assert.Equal(t, model.SuggestionQuestion, got[0].Type)
	assert.Equal(t, fmt.Sprintf("question_hasKids_sam_%s", "2025-05-11"), got[0].ID)
	require.NotNil(t, got[0].Question)
	assert.Equal(t, model.QuestionHasKids, got[0].Question.ID)
}

func TestSuggestions_AtMostOneQuestionPerPerson(t *testing.T) {
	// Both the hasKids and culture preconditions are unmet; only the first
	// (hasKids, higher priority) may fire per pass.
	sam := model.Person{ID: "sam", Name: "Sam"}
	gen := newTestGenerator(
		holiday.Occurrence{ID: holiday.MothersDay, Label: holiday.LabelMothersDay, Date: time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)},
		holiday.Occurrence{ID: holiday.EasterWestern, Label: holiday.LabelEasterWestern, Date: time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)},
	)
	ref := time.Date(2025, 5, 6, 0, 0, 0, 0, time.UTC)

	got := gen.SuggestionsAt([]model.Person{sam}, ref)

	questions := 0
	for _, s := range got {
		if s.Type == model.SuggestionQuestion {
			questions++
			assert.Equal(t, model.QuestionHasKids, s.Question.ID)
		}
	}
	assert.Equal(t, 1, questions)
}

func TestSuggestions_CultureQuestionOrder(t *testing.T) {
	// With only a culture holiday upcoming, the culture question fires.
	lee := model.Person{ID: "lee", Name: "Lee"}
	gen := newTestGenerator(
		holiday.Occurrence{ID: holiday.Hanukkah, Label: holiday.LabelHanukkah, Date: time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)},
	)
	ref := time.Date(2025, 12, 5, 0, 0, 0, 0, time.UTC)

	got := gen.SuggestionsAt([]model.Person{lee}, ref)

	require.Len(t, got, 1)
	require.NotNil(t, got[0].Question)
	assert.Equal(t, model.QuestionCulture, got[0].Question.ID)
	assert.Len(t, got[0].Question.Options, 5)
}

func TestSuggestions_Hanukkah(t *testing.T) {
	lee := model.Person{ID: "lee", Name: "Lee", Culture: model.CultureJewish}
	hanukkah := time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)
	ref := time.Date(2025, 12, 5, 0, 0, 0, 0, time.UTC)

	gen := newTestGenerator(holiday.Occurrence{ID: holiday.Hanukkah, Label: holiday.LabelHanukkah, Date: hanukkah})
	got := gen.SuggestionsAt([]model.Person{lee}, ref)

	require.Len(t, got, 1)
	assert.Equal(t, model.SuggestionHoliday, got[0].Type)
	assert.Contains(t, got[0].ID, "hanukkah")
	assert.Equal(t, model.TimelineUpcoming, got[0].Timeline)
}

func TestSuggestions_FollowUpSortsFirst(t *testing.T) {
	// Mia's birthday was yesterday; her parent also has an upcoming moment.
	jo := model.Person{
		ID:    "jo",
		Name:  "Jo",
		Phone: "+15550001",
		Children: []model.Child{
			{ID: "mia", Name: "Mia", Birthday: "2018-06-14"},
		},
		Moments: []model.Moment{
			{ID: "m1", Type: model.MomentCustom, Label: "Move-in day", Date: "0000-06-25", Recurring: true},
		},
	}
	ref := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	got := newTestGenerator().SuggestionsAt([]model.Person{jo}, ref)

	require.NotEmpty(t, got)
	assert.Equal(t, model.SuggestionFollowUp, got[0].Type)
	assert.Equal(t, -1, got[0].SortDaysUntil)
	assert.Equal(t, "followUp_childBirthday_jo_mia_2025-06-14", got[0].ID)
	assert.Equal(t, "Yesterday was Mia’s birthday", got[0].Title)

	for _, s := range got[1:] {
		assert.GreaterOrEqual(t, s.Type.Priority(), got[0].Type.Priority())
	}
}

func TestSuggestions_DedupAcrossLegacyCollections(t *testing.T) {
	// The same custom moment id in both the primary and legacy collections
	// yields one suggestion.
	shared := model.Moment{ID: "dup", Type: model.MomentCustom, Label: "Adoption day", Date: "0000-06-20", Recurring: true}
	pat := model.Person{
		ID:             "pat",
		Name:           "Pat",
		Moments:        []model.Moment{shared},
		ImportantDates: []model.Moment{shared},
	}
	ref := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	got := newTestGenerator().SuggestionsAt([]model.Person{pat}, ref)

	require.Len(t, got, 1)
	assert.Equal(t, "custom_pat_dup_2025-06-20", got[0].ID)
}

func TestSuggestions_Idempotent(t *testing.T) {
	people := []model.Person{
		{
			ID:    "ava",
			Name:  "Ava",
			Phone: "+15550002",
			Moments: []model.Moment{
				{ID: "m1", Type: model.MomentBirthday, Date: "1990-06-20", Recurring: true},
				{ID: "m2", Type: model.MomentAnniversary, Date: "2010-06-25", Recurring: true},
			},
		},
	}
	ref := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	gen := newTestGenerator()

	first := gen.SuggestionsAt(people, ref)
	second := gen.SuggestionsAt(people, ref)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Message, second[i].Message, "template selection must be stable within a day")
	}
}

func TestSuggestions_EasterEligibilityExclusive(t *testing.T) {
	// Both Easters upcoming: a christian person sees exactly the western one,
	// an orthodox person exactly the Greek one.
	western := holiday.Occurrence{ID: holiday.EasterWestern, Label: holiday.LabelEasterWestern, Date: time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)}
	orthodox := holiday.Occurrence{ID: holiday.EasterOrthodox, Label: holiday.LabelEasterOrthodox, Date: time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)}
	ref := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		culture model.Culture
		wantID  string
	}{
		{model.CultureChristian, "holiday_easterWestern_p_2025-04-20"},
		{model.CultureOrthodox, "holiday_easterOrthodox_p_2025-04-20"},
	}

	for _, tt := range tests {
		t.Run(string(tt.culture), func(t *testing.T) {
			person := model.Person{ID: "p", Name: "Nico", Culture: tt.culture}
			got := newTestGenerator(western, orthodox).SuggestionsAt([]model.Person{person}, ref)

			holidayCount := 0
			for _, s := range got {
				if s.Type == model.SuggestionHoliday {
					holidayCount++
					assert.Equal(t, tt.wantID, s.ID)
				}
			}
			assert.Equal(t, 1, holidayCount)
		})
	}
}

func TestSuggestions_MothersDayVisible(t *testing.T) {
	rosa := model.Person{
		ID:           "rosa",
		Name:         "Rosa",
		Phone:        "+15550003",
		HasKids:      boolPtr(true),
		ParentRole:   model.RoleMother,
		HolidayPrefs: &model.HolidayPrefs{MothersDay: boolPtr(true)},
		Children: []model.Child{
			{ID: "c1", Name: "Iris", Birthday: "2015-01-10"},
		},
	}
	mothersDay := time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)
	ref := time.Date(2025, 5, 6, 0, 0, 0, 0, time.UTC)

	gen := newTestGenerator(holiday.Occurrence{ID: holiday.MothersDay, Label: holiday.LabelMothersDay, Date: mothersDay})
	got := gen.SuggestionsAt([]model.Person{rosa}, ref)

	require.Len(t, got, 1)
	s := got[0]
	assert.Equal(t, "Mother’s Day is in 5 days for Rosa", s.Title)
	assert.Equal(t, "Want to send Rosa a short note?", s.Message)
	assert.Equal(t, "Her kids have a big week ahead.", s.Insight)
	assert.Equal(t, model.ActionText, s.Action.Kind)
	assert.Equal(t, "Thinking of you, Rosa.", s.Action.Body)
	assert.Equal(t, "Text Rosa", s.ActionLabel)
}

func TestSuggestions_SchoolMilestone(t *testing.T) {
	jo := model.Person{
		ID:      "jo",
		Name:    "Jo",
		HasKids: boolPtr(true),
		Children: []model.Child{
			{
				ID:   "mia",
				Name: "Mia",
				SchoolEvents: []model.ChildSchoolEvent{
					{Type: model.SchoolHSGrad, Date: "2025-07-30"},
				},
			},
		},
	}
	ref := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	got := newTestGenerator().SuggestionsAt([]model.Person{jo}, ref)

	require.Len(t, got, 1)
	assert.Equal(t, model.SuggestionSchool, got[0].Type)
	assert.Equal(t, "school_jo_mia_hsGrad_2025-07-30", got[0].ID)
	assert.Equal(t, "Mia's high school graduation is in 45 days", got[0].Title)
	assert.Equal(t, model.TimelineLater, got[0].Timeline)
}

func TestSuggestions_SortLadder(t *testing.T) {
	// A person with a kid birthday, own birthday, and custom moment all
	// upcoming: the feed orders kidBirthday < birthday < custom regardless of
	// date proximity.
	jo := model.Person{
		ID:      "jo",
		Name:    "Jo",
		HasKids: boolPtr(true),
		Children: []model.Child{
			{ID: "mia", Name: "Mia", Birthday: "2018-06-30"},
		},
		Moments: []model.Moment{
			{ID: "m1", Type: model.MomentBirthday, Date: "1990-06-17", Recurring: true},
			{ID: "m2", Type: model.MomentCustom, Label: "Adoption day", Date: "0000-06-16", Recurring: true},
		},
	}
	ref := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	got := newTestGenerator().SuggestionsAt([]model.Person{jo}, ref)

	require.Len(t, got, 3)
	assert.Equal(t, model.SuggestionKidBirthday, got[0].Type)
	assert.Equal(t, model.SuggestionBirthday, got[1].Type)
	assert.Equal(t, model.SuggestionCustom, got[2].Type)
}

func TestCardsAt_FeedShape(t *testing.T) {
	rosa := model.Person{
		ID:           "rosa",
		Name:         "Rosa",
		HasKids:      boolPtr(true),
		HolidayPrefs: &model.HolidayPrefs{MothersDay: boolPtr(true)},
		Children: []model.Child{
			{ID: "c1", Name: "Iris", Birthday: "2015-06-20"},
		},
		Moments: []model.Moment{
			{ID: "m1", Type: model.MomentBirthday, Date: "1985-06-25", Recurring: true},
		},
	}
	mothersDay := time.Date(2025, 6, 22, 0, 0, 0, 0, time.UTC)
	ref := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	gen := newTestGenerator(holiday.Occurrence{ID: holiday.MothersDay, Label: holiday.LabelMothersDay, Date: mothersDay})
	got := gen.CardsAt([]model.Person{rosa}, ref)

	require.Len(t, got, 3)
	// Priority ladder: child birthday, person birthday, holiday.
	assert.Equal(t, model.CardChildBirthday, got[0].Type)
	assert.Equal(t, "care_childBirthday_rosa_c1_2025-06-20", got[0].ID)
	assert.Equal(t, "Iris turns 10 in 5 days · June 20", got[0].Title)

	assert.Equal(t, model.CardPersonBirthday, got[1].Type)
	assert.Equal(t, "Rosa turns 40 in 10 days · June 25 · Turning 40", got[1].Title)

	assert.Equal(t, model.CardHoliday, got[2].Type)
	assert.Equal(t, "care_holiday_mothersDay_rosa_2025-06-22", got[2].ID)
	assert.Equal(t, "Mother’s Day for Rosa · June 22", got[2].Title)
	assert.Equal(t, "2025-06-22", got[2].Date)
}

func TestSuggestions_EmptyInput(t *testing.T) {
	got := newTestGenerator().SuggestionsAt(nil, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	assert.Empty(t, got)
}

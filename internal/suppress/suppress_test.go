package suppress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doknotforget/doknotforget/internal/config"
	"github.com/doknotforget/doknotforget/internal/model"
)

var testNow = time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local)

func card(id string) model.CareSuggestion {
	return model.CareSuggestion{ID: id, Type: model.SuggestionBirthday}
}

func question(id, personID, questionID string) model.CareSuggestion {
	return model.CareSuggestion{
		ID:       id,
		Type:     model.SuggestionQuestion,
		PersonID: personID,
		Question: &model.Question{ID: questionID},
	}
}

func ids(suggestions []model.CareSuggestion) []string {
	out := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, s.ID)
	}
	return out
}

func TestFilter_SnoozedCards(t *testing.T) {
	feed := []model.CareSuggestion{card("a"), card("b"), card("c")}

	t.Run("active snooze hides the card", func(t *testing.T) {
		state := NewState()
		state.SnoozeCard("b", testNow.Add(time.Hour))

		got := state.Filter(feed, testNow)
		assert.Equal(t, []string{"a", "c"}, ids(got))
	})

	t.Run("expired snooze keeps the card", func(t *testing.T) {
		state := NewState()
		state.SnoozeCard("b", testNow.Add(-time.Minute))

		got := state.Filter(feed, testNow)
		assert.Equal(t, []string{"a", "b", "c"}, ids(got))
	})

	t.Run("questions cannot be snoozed away", func(t *testing.T) {
		state := NewState()
		state.SnoozeCard("q1", testNow.Add(time.Hour))

		got := state.Filter([]model.CareSuggestion{question("q1", "p1", "hasKids")}, testNow)
		assert.Equal(t, []string{"q1"}, ids(got))
	})
}

func TestFilter_FirstFreshQuestionOnly(t *testing.T) {
	feed := []model.CareSuggestion{
		card("a"),
		question("q1", "p1", "hasKids"),
		question("q2", "p2", "addChild"),
		card("b"),
	}

	t.Run("keeps only the first fresh question", func(t *testing.T) {
		state := NewState()
		got := state.Filter(feed, testNow)
		assert.Equal(t, []string{"a", "q1", "b"}, ids(got))
	})

	t.Run("stale first question promotes the next", func(t *testing.T) {
		state := NewState()
		state.MarkQuestion("p1", "hasKids", MarkSeen, testNow.Add(-time.Hour))

		got := state.Filter(feed, testNow)
		assert.Equal(t, []string{"a", "q2", "b"}, ids(got))
	})

	t.Run("no fresh questions drops them all", func(t *testing.T) {
		state := NewState()
		state.MarkQuestion("p1", "hasKids", MarkAnswered, testNow.Add(-time.Hour))
		state.MarkQuestion("p2", "addChild", MarkSnoozed, testNow.Add(-time.Hour))

		got := state.Filter(feed, testNow)
		assert.Equal(t, []string{"a", "b"}, ids(got))
	})
}

func TestQuestionFresh(t *testing.T) {
	t.Run("every mark kind starts the cooldown", func(t *testing.T) {
		for _, kind := range []MarkKind{MarkAnswered, MarkSnoozed, MarkSeen} {
			state := NewState()
			state.QuestionMarkedAt[QuestionKey{PersonID: "p1", QuestionID: "hasKids", Kind: kind}] = testNow.Add(-time.Hour)
			assert.False(t, state.QuestionFresh("p1", "hasKids", testNow), "kind %s", kind)
		}
	})

	t.Run("mark older than cooldown is fresh again", func(t *testing.T) {
		state := NewState()
		state.MarkQuestion("p1", "hasKids", MarkAnswered, testNow.Add(-config.QuestionCooldown-time.Minute))
		assert.True(t, state.QuestionFresh("p1", "hasKids", testNow))
	})

	t.Run("person seen cools down other questions too", func(t *testing.T) {
		state := NewState()
		state.MarkQuestion("p1", "hasKids", MarkSeen, testNow.Add(-time.Hour))

		assert.False(t, state.QuestionFresh("p1", "addChild", testNow))
		assert.True(t, state.QuestionFresh("p2", "hasKids", testNow), "other people are unaffected")
	})
}

func TestFilter_ZeroAndNilState(t *testing.T) {
	feed := []model.CareSuggestion{card("a"), question("q1", "p1", "hasKids")}

	t.Run("zero value suppresses nothing", func(t *testing.T) {
		var state State
		got := state.Filter(feed, testNow)
		assert.Equal(t, []string{"a", "q1"}, ids(got))
	})

	t.Run("nil state suppresses nothing", func(t *testing.T) {
		var state *State
		got := state.Filter(feed, testNow)
		assert.Equal(t, []string{"a", "q1"}, ids(got))
	})
}

func TestMarkQuestion_InitializesMaps(t *testing.T) {
	var state State
	state.MarkQuestion("p1", "hasKids", MarkAnswered, testNow)
	state.SnoozeCard("a", testNow.Add(time.Hour))

	require.NotNil(t, state.QuestionMarkedAt)
	require.NotNil(t, state.PersonSeenAt)
	assert.Equal(t, testNow, state.PersonSeenAt["p1"])
	assert.True(t, state.snoozed("a", testNow))
}

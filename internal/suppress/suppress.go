// Package suppress filters a generated care feed against the user's
// interaction history: snoozed cards stay hidden until their snooze expires,
// and micro-questions honor a per-person cooldown so the feed never nags.
package suppress

import (
	"time"

	"github.com/samber/lo"

	"github.com/doknotforget/doknotforget/internal/config"
	"github.com/doknotforget/doknotforget/internal/model"
)

// MarkKind records how a question left the screen.
type MarkKind string

const (
	MarkAnswered MarkKind = "answered"
	MarkSnoozed  MarkKind = "snoozed"
	MarkSeen     MarkKind = "seen"
)

// QuestionKey scopes a mark to one question for one person.
type QuestionKey struct {
	PersonID   string
	QuestionID string
	Kind       MarkKind
}

// State is an in-memory snapshot of suppression data, typically loaded from
// the store once per feed render. The zero value suppresses nothing.
type State struct {
	// CardSnoozedUntil hides a card (by suggestion id) until the given time.
	CardSnoozedUntil map[string]time.Time
	// QuestionMarkedAt is the last time each (person, question, kind) fired.
	QuestionMarkedAt map[QuestionKey]time.Time
	// PersonSeenAt is the last time any question was shown for a person.
	PersonSeenAt map[string]time.Time
}

// NewState returns an empty snapshot with allocated maps.
func NewState() *State {
	return &State{
		CardSnoozedUntil: make(map[string]time.Time),
		QuestionMarkedAt: make(map[QuestionKey]time.Time),
		PersonSeenAt:     make(map[string]time.Time),
	}
}

// SnoozeCard hides the card until the given time. Later writes win.
func (s *State) SnoozeCard(cardID string, until time.Time) {
	if s.CardSnoozedUntil == nil {
		s.CardSnoozedUntil = make(map[string]time.Time)
	}
	s.CardSnoozedUntil[cardID] = until
}

// MarkQuestion records an interaction with a question and bumps the
// per-person marker, which starts the cooldown for every other question
// about that person.
func (s *State) MarkQuestion(personID, questionID string, kind MarkKind, at time.Time) {
	if s.QuestionMarkedAt == nil {
		s.QuestionMarkedAt = make(map[QuestionKey]time.Time)
	}
	if s.PersonSeenAt == nil {
		s.PersonSeenAt = make(map[string]time.Time)
	}
	s.QuestionMarkedAt[QuestionKey{PersonID: personID, QuestionID: questionID, Kind: kind}] = at
	s.PersonSeenAt[personID] = at
}

func (s *State) snoozed(cardID string, now time.Time) bool {
	if s == nil || s.CardSnoozedUntil == nil {
		return false
	}
	until, ok := s.CardSnoozedUntil[cardID]
	return ok && until.After(now)
}

// QuestionFresh reports whether a question may be shown: none of its marks
// (answered, snoozed, seen) and no question for the same person fired within
// the cooldown window.
func (s *State) QuestionFresh(personID, questionID string, now time.Time) bool {
	if s == nil {
		return true
	}
	for _, kind := range []MarkKind{MarkAnswered, MarkSnoozed, MarkSeen} {
		at, ok := s.QuestionMarkedAt[QuestionKey{PersonID: personID, QuestionID: questionID, Kind: kind}]
		if ok && now.Sub(at) < config.QuestionCooldown {
			return false
		}
	}
	if at, ok := s.PersonSeenAt[personID]; ok && now.Sub(at) < config.QuestionCooldown {
		return false
	}
	return true
}

// Filter applies suppression to a generated feed: snoozed non-question cards
// are dropped, and of the remaining questions at most the first fresh one
// survives. Questions themselves are never snoozable; they only cool down.
func (s *State) Filter(suggestions []model.CareSuggestion, now time.Time) []model.CareSuggestion {
	unsnoozed := lo.Filter(suggestions, func(sug model.CareSuggestion, _ int) bool {
		if sug.Type == model.SuggestionQuestion {
			return true
		}
		return !s.snoozed(sug.ID, now)
	})

	firstFresh, found := lo.Find(unsnoozed, func(sug model.CareSuggestion) bool {
		return sug.Type == model.SuggestionQuestion && sug.Question != nil &&
			s.QuestionFresh(sug.PersonID, sug.Question.ID, now)
	})

	return lo.Filter(unsnoozed, func(sug model.CareSuggestion, _ int) bool {
		if sug.Type != model.SuggestionQuestion || sug.Question == nil {
			return true
		}
		return found && sug.ID == firstFresh.ID
	})
}

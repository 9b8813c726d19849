package engine

import (
	"fmt"
	"strings"

	"github.com/doknotforget/doknotforget/internal/config"
	"github.com/doknotforget/doknotforget/internal/model"
)

// Message template sets. Selection is deterministic per seed, see template.go.
var (
	kidBirthdayTemplates = []string{
		"{childName} has a birthday soon — might be a good moment to check in with {parentName}.",
		"{childName} is celebrating a birthday — a quick note could mean a lot to {parentName}.",
	}
	holidayTemplates = []string{
		"{holiday} is coming up — you may want to reach out to {name}.",
		"{name} may be celebrating {holiday} soon.",
	}
	birthdayTemplates = []string{
		"{name} has a birthday coming up.",
		"{name}'s birthday is almost here.",
	}
	birthdayThisWeekTemplate = "{name} turns {age} this week — want to reach out?"
	anniversaryTemplates     = []string{
		"{name}'s anniversary is coming up.",
		"An anniversary is approaching for {name}.",
	}
	meaningfulDateTemplates = []string{
		"{name} has something important coming up.",
		"There's a meaningful date ahead for {name}.",
	}
)

// notableBirthdayAges are the ages that get a milestone cue on birthdays.
var notableBirthdayAges = map[int]bool{5: true, 10: true, 13: true, 16: true, 18: true, 21: true}

// firstName returns the first whitespace-separated token of the person's
// name, falling back to a neutral pronoun when the name is blank.
func firstName(p model.Person) string {
	trimmed := strings.TrimSpace(p.Name)
	if trimmed == "" {
		return config.FallbackPersonName
	}
	return strings.Fields(trimmed)[0]
}

// childLabel prefers the child's own name and otherwise generates a
// possessive label referencing the parent.
func childLabel(c model.Child, parent model.Person) string {
	trimmed := strings.TrimSpace(c.Name)
	if trimmed != "" {
		return trimmed
	}
	return fmt.Sprintf("A child in %s's life", firstName(parent))
}

// momentDisplayLabel is the card-facing name of a moment.
func momentDisplayLabel(m model.Moment) string {
	switch m.Type {
	case model.MomentBirthday:
		return "Birthday"
	case model.MomentAnniversary:
		return "Anniversary"
	case model.MomentCustom:
		return m.Label
	default:
		return string(m.Type)
	}
}

// milestoneInsight returns the annotation for notable birthday ages, empty
// otherwise.
func milestoneInsight(turning int, known bool) string {
	if !known || !notableBirthdayAges[turning] {
		return ""
	}
	return "A milestone birthday — worth remembering."
}

// parentInsight phrases an insight around the person's parental role.
func parentInsight(p model.Person) string {
	if !p.KidsConfirmed() {
		return ""
	}
	switch p.ParentRole {
	case model.RoleMother:
		return "Her kids have a big week ahead."
	case model.RoleFather:
		return "His family may appreciate a quick check-in."
	default:
		return "Their family may appreciate a quick check-in."
	}
}

// anniversaryCue returns the cue label for meaningful anniversary years.
func anniversaryCue(years int, known bool) string {
	if !known {
		return ""
	}
	switch years {
	case 20, 25:
		return config.CueBigOne
	case 5, 10:
		return config.CueMeaningfulYear
	default:
		return ""
	}
}

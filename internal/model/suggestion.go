package model

// SuggestionType classifies a care suggestion card.
type SuggestionType string

const (
	SuggestionBirthday    SuggestionType = "birthday"
	SuggestionKidBirthday SuggestionType = "kidBirthday"
	SuggestionHoliday     SuggestionType = "holiday"
	SuggestionFollowUp    SuggestionType = "followUp"
	SuggestionQuestion    SuggestionType = "question"
	SuggestionSensitive   SuggestionType = "sensitive"
	SuggestionAnniversary SuggestionType = "anniversary"
	SuggestionCustom      SuggestionType = "custom"
	SuggestionSchool      SuggestionType = "schoolMilestone"
)

// Priority is the fixed ordering rank for the final feed sort. Follow-ups
// always come first, questions always last.
func (t SuggestionType) Priority() int {
	switch t {
	case SuggestionFollowUp:
		return -1
	case SuggestionKidBirthday:
		return 0
	case SuggestionBirthday:
		return 1
	case SuggestionHoliday:
		return 2
	case SuggestionSchool:
		return 3
	case SuggestionSensitive:
		return 4
	case SuggestionAnniversary:
		return 5
	case SuggestionCustom:
		return 6
	default:
		return 999
	}
}

// ActionKind is the closed set of side effects the consuming layer executes.
type ActionKind string

const (
	ActionText      ActionKind = "text"
	ActionView      ActionKind = "view"
	ActionGiftIdeas ActionKind = "giftIdeas"
)

// Action describes what tapping a suggestion should do. The engine never
// performs the side effect itself.
type Action struct {
	Kind     ActionKind `json:"kind"`
	PersonID string     `json:"personId"`
	// Body is a prefilled message for text actions.
	Body string `json:"body,omitempty"`
}

// TimelineCategory buckets a suggestion by how soon it occurs.
type TimelineCategory string

const (
	TimelineSoon     TimelineCategory = "soon"
	TimelineUpcoming TimelineCategory = "upcoming"
	TimelineLater    TimelineCategory = "later"
)

// QuestionOption is one fixed answer to a micro-question. Options carry a
// closed patch operation rather than executable logic, so the whole question
// survives serialization.
type QuestionOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Patch Patch  `json:"patch"`
}

// Question is a micro-question embedded in a suggestion: a prompt asking the
// user to fill in missing data. Questions with no options expect a free-form
// text or date value applied through ApplyQuestionAnswer, keyed by the
// question id; Meta carries addressing detail such as the target child id.
type Question struct {
	ID      string            `json:"id"`
	Prompt  string            `json:"prompt"`
	Options []QuestionOption  `json:"options"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// CareSuggestion is one generated prompt card. It is never persisted; only
// suppression state keyed by its deterministic ID is.
type CareSuggestion struct {
	ID       string         `json:"id"`
	Type     SuggestionType `json:"type"`
	PersonID string         `json:"personId"`
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Insight  string         `json:"insight,omitempty"`
	Cue      string         `json:"cue,omitempty"`

	Timeline    TimelineCategory `json:"timelineCategory,omitempty"`
	ActionLabel string           `json:"actionLabel"`
	Action      Action           `json:"action"`

	// SortDaysUntil is negative for yesterday follow-ups.
	SortDaysUntil int `json:"sortDaysUntil"`

	Question *Question `json:"question,omitempty"`
}

// CardType classifies an archive/timeline card.
type CardType string

const (
	CardChildBirthday  CardType = "childBirthday"
	CardPersonBirthday CardType = "personBirthday"
	CardHoliday        CardType = "holiday"
	CardSchool         CardType = "schoolMilestone"
	CardSensitive      CardType = "sensitiveDate"
	CardAnniversary    CardType = "anniversary"
	CardImportantDate  CardType = "importantDate"
)

// Priority is the archive feed's own ordering ladder.
func (t CardType) Priority() int {
	switch t {
	case CardChildBirthday:
		return 0
	case CardPersonBirthday:
		return 1
	case CardHoliday:
		return 2
	case CardSchool:
		return 3
	case CardSensitive:
		return 4
	case CardAnniversary:
		return 5
	case CardImportantDate:
		return 6
	default:
		return 999
	}
}

// CareCard is the compact dated card used by the timeline view and the
// iCalendar export. Unlike CareSuggestion it always carries its occurrence
// date.
type CareCard struct {
	ID       string   `json:"id"`
	Type     CardType `json:"type"`
	PersonID string   `json:"personId"`
	ChildID  string   `json:"childId,omitempty"`
	// Date is the YYYY-MM-DD occurrence date.
	Date    string `json:"date"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

package model

import (
	"strings"

	"github.com/samber/lo"
)

// MomentType classifies a dated item attached to a person.
type MomentType string

const (
	MomentBirthday    MomentType = "birthday"
	MomentAnniversary MomentType = "anniversary"
	MomentCustom      MomentType = "custom"
)

// CategorySensitive marks emotionally sensitive custom dates. Sensitive
// moments get softened phrasing and never default to a gift action.
const CategorySensitive = "sensitive"

// Moment is any dated, potentially recurring event associated with a person.
// The date is an ISO calendar string; a "0000" year segment means the year is
// unknown.
type Moment struct {
	ID        string     `json:"id" db:"id"`
	Type      MomentType `json:"type" db:"type"`
	Label     string     `json:"label" db:"label"`
	Date      string     `json:"date" db:"date"`
	Recurring bool       `json:"recurring" db:"recurring"`
	Category  string     `json:"category,omitempty" db:"category"`
}

// Sensitive reports whether this is a sensitive custom date.
func (m Moment) Sensitive() bool {
	return m.Type == MomentCustom && m.Category == CategorySensitive
}

// SchoolEventType enumerates the supported child school milestones.
type SchoolEventType string

const (
	SchoolFirstDay     SchoolEventType = "firstDay"
	SchoolKGrad        SchoolEventType = "kGrad"
	School5thMoveUp    SchoolEventType = "5thMoveUp"
	School8thGrad      SchoolEventType = "8thGrad"
	SchoolHSGrad       SchoolEventType = "hsGrad"
	SchoolCommunion    SchoolEventType = "communion"
	SchoolConfirmation SchoolEventType = "confirmation"
	SchoolBarMitzvah   SchoolEventType = "barMitzvah"
	SchoolBatMitzvah   SchoolEventType = "batMitzvah"
)

// Label returns the human-readable milestone name.
func (t SchoolEventType) Label() string {
	switch t {
	case SchoolFirstDay:
		return "first day of school"
	case SchoolKGrad:
		return "kindergarten graduation"
	case School5thMoveUp:
		return "5th grade moving-up"
	case School8thGrad:
		return "8th grade graduation"
	case SchoolHSGrad:
		return "high school graduation"
	case SchoolCommunion:
		return "communion"
	case SchoolConfirmation:
		return "confirmation"
	case SchoolBarMitzvah:
		return "bar mitzvah"
	case SchoolBatMitzvah:
		return "bat mitzvah"
	default:
		return "milestone"
	}
}

// ChildSchoolEvent is a fixed, non-recurring dated milestone for a child.
type ChildSchoolEvent struct {
	Type SchoolEventType `json:"type"`
	Date string          `json:"date"`
}

// Child is a child record attached to a person.
type Child struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	// Birthday is the preferred field (YYYY-MM-DD, 0000 year if unknown).
	Birthday string `json:"birthday,omitempty"`
	// Birthdate is the legacy field name, used only when Birthday is absent.
	Birthdate    string             `json:"birthdate,omitempty"`
	SchoolEvents []ChildSchoolEvent `json:"schoolEvents,omitempty"`
}

// BirthdayValue resolves the preferred-then-legacy birthday fields.
func (c Child) BirthdayValue() string {
	if v := strings.TrimSpace(c.Birthday); v != "" {
		return v
	}
	return strings.TrimSpace(c.Birthdate)
}

// Culture is the resolved religion/culture classification used to gate
// culturally specific holiday suggestions.
type Culture string

const (
	CultureChristian Culture = "christian"
	CultureOrthodox  Culture = "orthodox"
	CultureJewish    Culture = "jewish"
	CultureMuslim    Culture = "muslim"
	CultureNone      Culture = "none"
)

// ParentRole describes how a person relates to their kids, for phrasing.
type ParentRole string

const (
	RoleMother ParentRole = "mother"
	RoleFather ParentRole = "father"
	RoleParent ParentRole = "parent"
)

// HolidayPrefs holds per-person opt-ins for the parental holidays. A nil
// pointer means "not asked yet".
type HolidayPrefs struct {
	MothersDay *bool `json:"mothersDay,omitempty"`
	FathersDay *bool `json:"fathersDay,omitempty"`
}

// Person is a tracked relationship.
type Person struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`

	Moments []Moment `json:"moments"`

	// HasKids is tri-state: nil means unknown.
	HasKids      *bool         `json:"hasKids,omitempty"`
	ParentRole   ParentRole    `json:"parentRole,omitempty"`
	Culture      Culture       `json:"religionCulture,omitempty"`
	ReligionTag  string        `json:"religionTag,omitempty"`
	HolidayPrefs *HolidayPrefs `json:"holidayPrefs,omitempty"`
	Children     []Child       `json:"children,omitempty"`

	// Legacy parallel collections retained for backward-compatible decoding
	// of old exports. MergedMoments unions them; the store migrates them into
	// Moments once at load time.
	ImportantDates   []Moment `json:"importantDates,omitempty"`
	SensitiveMoments []Moment `json:"sensitiveMoments,omitempty"`
}

// MergedMoments returns the union of the primary and legacy moment
// collections, deduplicated by id with first occurrence winning. Moments
// without an id are dropped.
func (p Person) MergedMoments() []Moment {
	all := make([]Moment, 0, len(p.Moments)+len(p.ImportantDates)+len(p.SensitiveMoments))
	all = append(all, p.Moments...)
	all = append(all, p.ImportantDates...)
	all = append(all, p.SensitiveMoments...)
	all = lo.Filter(all, func(m Moment, _ int) bool { return m.ID != "" })
	return lo.UniqBy(all, func(m Moment) string { return m.ID })
}

// KidsConfirmed reports whether the person should be treated as having kids,
// either explicitly or because child records exist.
func (p Person) KidsConfirmed() bool {
	if p.HasKids != nil && *p.HasKids {
		return true
	}
	return len(p.Children) > 0
}

// ResolvedCulture returns the explicit culture when set, otherwise a best
// guess inferred from the legacy free-text religion tag. Empty when nothing
// matches.
func (p Person) ResolvedCulture() Culture {
	if p.Culture != "" {
		return p.Culture
	}
	tag := strings.ToLower(strings.TrimSpace(p.ReligionTag))
	if tag == "" {
		return ""
	}
	switch {
	case strings.Contains(tag, "orthodox"), strings.Contains(tag, "greek"):
		return CultureOrthodox
	case strings.Contains(tag, "christian"), strings.Contains(tag, "catholic"):
		return CultureChristian
	case strings.Contains(tag, "jew"), strings.Contains(tag, "hebrew"):
		return CultureJewish
	case strings.Contains(tag, "islam"), strings.Contains(tag, "muslim"):
		return CultureMuslim
	default:
		return ""
	}
}

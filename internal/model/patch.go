package model

import "github.com/google/uuid"

// PatchKind is the closed set of state transitions a micro-question answer
// may apply to a person. Keeping this a tagged enum (rather than a callback
// on the option) means questions can cross a serialization boundary intact.
type PatchKind string

const (
	PatchNone PatchKind = ""
	// PatchSetHasKids sets the hasKids tri-state to Bool.
	PatchSetHasKids PatchKind = "setHasKids"
	// PatchDeclineKidHolidays marks the person as having no kids and opts
	// them out of both parental holidays in one step.
	PatchDeclineKidHolidays PatchKind = "declineKidHolidays"
	// PatchSetCulture sets the religion/culture classification.
	PatchSetCulture PatchKind = "setCulture"
	// PatchSetMothersDayPref / PatchSetFathersDayPref set one holiday opt-in.
	PatchSetMothersDayPref PatchKind = "setMothersDayPref"
	PatchSetFathersDayPref PatchKind = "setFathersDayPref"
)

// Patch is one tagged state-transition operation.
type Patch struct {
	Kind    PatchKind `json:"kind"`
	Bool    bool      `json:"bool,omitempty"`
	Culture Culture   `json:"culture,omitempty"`
}

// Question ids for the free-form apply path.
const (
	QuestionHasKids          = "hasKids"
	QuestionAddChildName     = "addChildName"
	QuestionAddChildBirthday = "addChildBirthday"
	QuestionCulture          = "religionCulture"
	QuestionMothersDay       = "mothersDay"
	QuestionFathersDay       = "fathersDay"

	// MetaChildID addresses the child a free-form answer applies to.
	MetaChildID = "childId"
)

func clonePrefs(p *HolidayPrefs) *HolidayPrefs {
	if p == nil {
		return &HolidayPrefs{}
	}
	cp := *p
	return &cp
}

func boolPtr(v bool) *bool { return &v }

// ApplyPatch returns a copy of person with the patch applied. Unknown patch
// kinds are a no-op.
func ApplyPatch(person Person, patch Patch) Person {
	switch patch.Kind {
	case PatchSetHasKids:
		person.HasKids = boolPtr(patch.Bool)
	case PatchDeclineKidHolidays:
		person.HasKids = boolPtr(false)
		prefs := clonePrefs(person.HolidayPrefs)
		prefs.MothersDay = boolPtr(false)
		prefs.FathersDay = boolPtr(false)
		person.HolidayPrefs = prefs
	case PatchSetCulture:
		person.Culture = patch.Culture
	case PatchSetMothersDayPref:
		prefs := clonePrefs(person.HolidayPrefs)
		prefs.MothersDay = boolPtr(patch.Bool)
		person.HolidayPrefs = prefs
	case PatchSetFathersDayPref:
		prefs := clonePrefs(person.HolidayPrefs)
		prefs.FathersDay = boolPtr(patch.Bool)
		person.HolidayPrefs = prefs
	}
	return person
}

// ApplyOption applies the patch of the identified option. A missing option id
// is a no-op: the suggestion simply does not update state.
func ApplyOption(person Person, q Question, optionID string) Person {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return ApplyPatch(person, opt.Patch)
		}
	}
	return person
}

// ApplyQuestionAnswer handles the free-form question path: questions with no
// fixed options whose answer is a text or date value supplied by the UI,
// keyed by question id. Unknown question ids are a no-op.
func ApplyQuestionAnswer(person Person, questionID, value string, meta map[string]string) Person {
	switch questionID {
	case QuestionAddChildName:
		if value == "" {
			return person
		}
		children := make([]Child, len(person.Children), len(person.Children)+1)
		copy(children, person.Children)
		person.Children = append(children, Child{ID: uuid.NewString(), Name: value})
	case QuestionAddChildBirthday:
		childID := meta[MetaChildID]
		if childID == "" || value == "" {
			return person
		}
		children := make([]Child, len(person.Children))
		copy(children, person.Children)
		for i := range children {
			if children[i].ID == childID {
				children[i].Birthday = value
			}
		}
		person.Children = children
	}
	return person
}

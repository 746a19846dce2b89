package onboarding

import (
	"errors"
	"slices"
)

// ErrInvalidAnswer is returned for empty or unknown answers.
var ErrInvalidAnswer = errors.New("invalid answer")

// Step is a position in the flow.
type Step int

const (
	StepLanguage Step = iota
	StepSupport
	StepTheme
	StepPhrase
	StepComplete
)

// NumSteps is the number of question steps.
const NumSteps = int(StepComplete)

// String returns the string representation of the step.
func (s Step) String() string {
	switch s {
	case StepLanguage:
		return "language"
	case StepSupport:
		return "support"
	case StepTheme:
		return "theme"
	case StepPhrase:
		return "phrase"
	case StepComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// SupportStyle is what helps the user feel supported.
type SupportStyle string

const (
	SupportSpirituality SupportStyle = "spirituality"
	SupportScience      SupportStyle = "science"
	SupportCulture      SupportStyle = "culture"
	SupportSilence      SupportStyle = "silence"

	// SupportNone records that the user skipped the question.
	SupportNone SupportStyle = "none"
)

// SupportStyles lists the selectable support styles.
var SupportStyles = []SupportStyle{SupportSpirituality, SupportScience, SupportCulture, SupportSilence}

func (s SupportStyle) valid() bool {
	return s == SupportNone || slices.Contains(SupportStyles, s)
}

// Theme is the visual and tonal theme of the app.
type Theme string

const (
	ThemeSpiritual Theme = "spiritual"
	ThemeSecular   Theme = "secular"
	ThemeAncestral Theme = "ancestral"
	ThemeGentle    Theme = "gentle"
)

// Themes lists the selectable themes.
var Themes = []Theme{ThemeSpiritual, ThemeSecular, ThemeAncestral, ThemeGentle}

func (t Theme) valid() bool {
	return slices.Contains(Themes, t)
}

// Defaults assigned to skipped or unanswered steps.
const (
	DefaultLanguage = "en"
	DefaultSupport  = SupportNone
	DefaultTheme    = ThemeSecular
)

// phraseKeys are the catalog keys of the four anchor phrases.
var phraseKeys = []string{"phrase.1", "phrase.2", "phrase.3", "phrase.4"}

// Answers accumulates the user's choices. Empty fields are unset.
type Answers struct {
	Language     string       `json:"language"`
	SupportStyle SupportStyle `json:"support_style"`
	Theme        Theme        `json:"theme_preference"`
	AnchorPhrase string       `json:"anchor_phrase"`
}

// Unset returns the names of fields that have no value.
func (a Answers) Unset() []string {
	var unset []string
	if a.Language == "" {
		unset = append(unset, "language")
	}
	if a.SupportStyle == "" {
		unset = append(unset, "support_style")
	}
	if a.Theme == "" {
		unset = append(unset, "theme_preference")
	}
	if a.AnchorPhrase == "" {
		unset = append(unset, "anchor_phrase")
	}
	return unset
}

// Complete reports whether every field has a value.
func (a Answers) Complete() bool {
	return len(a.Unset()) == 0
}

// Outcome is how the flow ended.
type Outcome int

const (
	OutcomeInProgress Outcome = iota
	OutcomeCompleted
	OutcomeSkipped
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeInProgress:
		return "in progress"
	case OutcomeCompleted:
		return "completed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

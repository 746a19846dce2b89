package onboarding

import (
	"errors"
	"io"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/shameless/shameless/internal/kv"
	"pgregory.net/rapid"
)

type recordingPreviewer struct {
	languages []string
	themes    []Theme
}

func (p *recordingPreviewer) PreviewLanguage(lang string) { p.languages = append(p.languages, lang) }
func (p *recordingPreviewer) PreviewTheme(theme Theme)    { p.themes = append(p.themes, theme) }

func newTestController(store kv.Store, opts ...Option) *Controller {
	opts = append([]Option{
		WithRand(rand.New(rand.NewPCG(3, 4))),
		WithLogger(log.New(io.Discard)),
	}, opts...)
	return New(store, opts...)
}

func mustGet(t *testing.T, store kv.Store, key string) string {
	t.Helper()
	v, ok, err := store.Get(key)
	if err != nil || !ok {
		t.Fatalf("%s not persisted (ok=%v err=%v)", key, ok, err)
	}
	return v
}

func TestSkipSupportAfterChoosingFrench(t *testing.T) {
	store := kv.NewMemory()
	c := newTestController(store)

	if err := c.SelectLanguage("fr"); err != nil {
		t.Fatalf("SelectLanguage failed: %v", err)
	}
	c.Advance()
	c.SkipCurrentStep()

	if got := mustGet(t, store, kv.KeySupportStyle); got != string(SupportNone) {
		t.Errorf("support_style = %q, want %q", got, SupportNone)
	}
	if c.Step() != StepTheme {
		t.Errorf("Step = %v, want theme", c.Step())
	}
	if c.Answers().Language != "fr" || mustGet(t, store, kv.KeyLanguage) != "fr" {
		t.Errorf("language changed: %+v", c.Answers())
	}
}

func TestAdvanceRetreat(t *testing.T) {
	c := newTestController(kv.NewMemory())

	c.Retreat()
	if c.Step() != StepLanguage {
		t.Errorf("Retreat at first step moved to %v", c.Step())
	}

	c.Advance()
	c.Advance()
	if c.Step() != StepTheme {
		t.Fatalf("Step = %v, want theme", c.Step())
	}
	c.Retreat()
	if c.Step() != StepSupport {
		t.Errorf("Step = %v, want support", c.Step())
	}
}

func TestCompletionFillsDefaultsAndFreezes(t *testing.T) {
	store := kv.NewMemory()
	var calls int
	var got Answers
	c := newTestController(store, OnComplete(func(a Answers) {
		calls++
		got = a
	}))

	if err := c.SelectTheme(ThemeGentle); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < NumSteps; i++ {
		c.Advance()
	}

	if c.Step() != StepComplete || c.Outcome() != OutcomeCompleted {
		t.Fatalf("step=%v outcome=%v", c.Step(), c.Outcome())
	}
	if calls != 1 {
		t.Fatalf("completion callback ran %d times", calls)
	}
	want := Answers{Language: "en", SupportStyle: SupportNone, Theme: ThemeGentle}
	if got.Language != want.Language || got.SupportStyle != want.SupportStyle || got.Theme != want.Theme {
		t.Errorf("answers = %+v, want %+v with a phrase", got, want)
	}
	if !slices.Contains(c.PhraseOptions(), got.AnchorPhrase) {
		t.Errorf("anchor phrase %q is not a curated phrase", got.AnchorPhrase)
	}
	if mustGet(t, store, kv.KeyOnboardingComplete) != "true" {
		t.Error("onboarding_complete not persisted")
	}
	if mustGet(t, store, kv.KeyAnchorPhrase) != got.AnchorPhrase {
		t.Error("default phrase not persisted")
	}

	// Everything after completion is a no-op.
	c.Advance()
	c.Retreat()
	c.SkipCurrentStep()
	c.SkipEntireFlow()
	if err := c.SelectTheme(ThemeSpiritual); err != nil {
		t.Errorf("SelectTheme after completion: %v", err)
	}
	if c.Answers() != got || calls != 1 || c.Step() != StepComplete {
		t.Errorf("state changed after completion: %+v", c.Answers())
	}
	if _, ok, _ := store.Get(kv.KeyOnboardingSkipped); ok {
		t.Error("skip recorded after completion")
	}
}

func TestSkipEntireFlow(t *testing.T) {
	store := kv.NewMemory()
	skipped := 0
	completed := 0
	c := newTestController(store,
		OnSkip(func() { skipped++ }),
		OnComplete(func(Answers) { completed++ }),
	)

	c.SelectLanguage("es")
	c.Advance()
	c.SkipEntireFlow()
	c.SkipEntireFlow()

	if skipped != 1 || completed != 0 {
		t.Errorf("skip callbacks=%d completion callbacks=%d", skipped, completed)
	}
	if c.Outcome() != OutcomeSkipped || !c.Done() {
		t.Errorf("Outcome = %v", c.Outcome())
	}
	if mustGet(t, store, kv.KeyOnboardingSkipped) != "true" {
		t.Error("onboarding_skipped not persisted")
	}
	if _, ok, _ := store.Get(kv.KeyOnboardingComplete); ok {
		t.Error("completed record written on skip")
	}

	c.Advance()
	if c.Step() != StepSupport {
		t.Error("Advance moved a skipped flow")
	}
}

func TestSelectValidation(t *testing.T) {
	store := kv.NewMemory()
	c := newTestController(store)

	tests := []struct {
		name string
		fn   func() error
	}{
		{"empty language", func() error { return c.SelectLanguage("  ") }},
		{"quiz does not offer ar", func() error { return c.SelectLanguage("ar") }},
		{"unknown support", func() error { return c.SelectSupportStyle("astrology") }},
		{"empty theme", func() error { return c.SelectTheme("") }},
		{"unknown theme", func() error { return c.SelectTheme("neon") }},
		{"empty phrase", func() error { return c.SelectPhrase(" \t") }},
		{"uncurated phrase", func() error { return c.SelectPhrase("I am a rock") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, ErrInvalidAnswer) {
				t.Errorf("expected ErrInvalidAnswer, got %v", err)
			}
		})
	}

	if len(c.Answers().Unset()) != 4 {
		t.Errorf("invalid answers changed state: %+v", c.Answers())
	}
	if store.Len() != 0 {
		t.Errorf("invalid answers were persisted: %d keys", store.Len())
	}
}

func TestSelectPhraseFollowsLanguage(t *testing.T) {
	c := newTestController(kv.NewMemory())
	c.SelectLanguage("sw")

	options := c.PhraseOptions()
	if options[1] != "Ninaruhusiwa kupumzika." {
		t.Errorf("phrase options = %v", options)
	}
	if err := c.SelectPhrase(options[1]); err != nil {
		t.Errorf("SelectPhrase: %v", err)
	}
	if err := c.SelectPhrase("I am allowed to rest."); !errors.Is(err, ErrInvalidAnswer) {
		t.Errorf("english phrase accepted in sw: %v", err)
	}
}

func TestLivePreview(t *testing.T) {
	p := &recordingPreviewer{}
	c := newTestController(kv.NewMemory(), WithPreviewer(p))

	c.SelectLanguage("fr")
	c.SkipCurrentStep() // language reset to the default
	c.SelectSupportStyle(SupportScience)
	c.Advance()
	c.SelectTheme(ThemeAncestral)

	if want := []string{"fr", "en"}; !slices.Equal(p.languages, want) {
		t.Errorf("language previews = %v, want %v", p.languages, want)
	}
	if want := []Theme{ThemeAncestral}; !slices.Equal(p.themes, want) {
		t.Errorf("theme previews = %v, want %v", p.themes, want)
	}
}

func TestResume(t *testing.T) {
	store := kv.NewMemory()
	first := newTestController(store)
	first.SelectLanguage("es")
	first.Advance()
	first.SelectSupportStyle(SupportCulture)
	first.Advance()

	resumed := Resume(store, WithLogger(log.New(io.Discard)))
	if resumed.Step() != StepTheme {
		t.Errorf("resumed at %v, want theme", resumed.Step())
	}
	got := resumed.Answers()
	if got.Language != "es" || got.SupportStyle != SupportCulture {
		t.Errorf("resumed answers = %+v", got)
	}

	for !resumed.Done() {
		resumed.Advance()
	}
	again := Resume(store)
	if again.Outcome() != OutcomeCompleted || again.Answers() != resumed.Answers() {
		t.Errorf("completed flow resumed as %v with %+v", again.Outcome(), again.Answers())
	}

	if err := Reset(store); err != nil {
		t.Fatal(err)
	}
	fresh := Resume(store)
	if fresh.Done() || fresh.Step() != StepLanguage {
		t.Errorf("after Reset: outcome=%v step=%v", fresh.Outcome(), fresh.Step())
	}
}

func TestResumeIgnoresInvalidValues(t *testing.T) {
	store := kv.NewMemory()
	store.Set(kv.KeyLanguage, "klingon")
	store.Set(kv.KeyThemePreference, "neon")

	c := Resume(store, WithLogger(log.New(io.Discard)))
	if c.Answers().Language != "" || c.Answers().Theme != "" {
		t.Errorf("invalid values loaded: %+v", c.Answers())
	}
	if c.Step() != StepLanguage {
		t.Errorf("Step = %v", c.Step())
	}
}

func TestPromptIsLocalized(t *testing.T) {
	c := newTestController(kv.NewMemory())
	c.SelectLanguage("fr")

	p := c.Prompt()
	if p.Title != "Choisissez votre langue" || p.Counter != "Étape 1 sur 4" {
		t.Errorf("prompt = %+v", p)
	}
	if len(p.Choices) != 4 {
		t.Fatalf("got %d language choices", len(p.Choices))
	}
	for _, ch := range p.Choices {
		if ch.Selected != (ch.Value == "fr") {
			t.Errorf("choice %s selected=%v", ch.Value, ch.Selected)
		}
	}

	c.Advance()
	c.Advance()
	if err := c.Select("gentle"); err != nil {
		t.Fatal(err)
	}
	p = c.Prompt()
	if p.Step != StepTheme || p.Choices[3].Label != "Doux" || !p.Choices[3].Selected {
		t.Errorf("theme prompt = %+v", p)
	}
}

func TestPromptFallsBackToEnglish(t *testing.T) {
	c := newTestController(kv.NewMemory())
	c.SelectLanguage("sw")
	c.Advance()

	p := c.Prompt()
	if p.Title != "Nini kinakusaidia kujisikia kuungwa mkono?" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Subtitle != "There is no wrong answer. You can change this later." {
		t.Errorf("Subtitle = %q, want the English text", p.Subtitle)
	}
}

type op int

const (
	opAdvance op = iota
	opRetreat
	opSkip
)

// TestProgressIsMonotonic checks every transition against a model of the
// step index.
func TestProgressIsMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		store := kv.NewMemory()
		c := newTestController(store)
		model := 0

		ops := rapid.SliceOfN(rapid.SampledFrom([]op{opAdvance, opRetreat, opSkip}), 1, 30).Draw(t, "ops")
		for _, o := range ops {
			if c.Done() {
				break
			}
			before := c.Step()
			switch o {
			case opAdvance:
				c.Advance()
				model++
			case opRetreat:
				c.Retreat()
				model = max(model-1, 0)
			case opSkip:
				c.SkipCurrentStep()
				model++
				assertDefaultRecorded(t, store, before)
			}
			if int(c.Step()) != model {
				t.Fatalf("after %v from %v: step %v, model %d", o, before, c.Step(), model)
			}
		}
	})
}

func assertDefaultRecorded(t *rapid.T, store kv.Store, step Step) {
	key, want := "", ""
	switch step {
	case StepLanguage:
		key, want = kv.KeyLanguage, DefaultLanguage
	case StepSupport:
		key, want = kv.KeySupportStyle, string(DefaultSupport)
	case StepTheme:
		key, want = kv.KeyThemePreference, string(DefaultTheme)
	case StepPhrase:
		if v, ok, _ := store.Get(kv.KeyAnchorPhrase); !ok || v == "" {
			t.Fatalf("skipping the phrase step recorded no phrase")
		}
		return
	}
	if v, _, _ := store.Get(key); v != want {
		t.Fatalf("skipping %v recorded %q, want %q", step, v, want)
	}
}

// TestCompletedAnswersHaveNoUnsetFields drives random selections and
// navigation to completion.
func TestCompletedAnswersHaveNoUnsetFields(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := newTestController(kv.NewMemory())

		steps := rapid.IntRange(0, 40).Draw(t, "steps")
		for i := 0; i < steps && !c.Done(); i++ {
			switch rapid.IntRange(0, 3).Draw(t, "action") {
			case 0:
				c.Advance()
			case 1:
				c.Retreat()
			case 2:
				c.SkipCurrentStep()
			case 3:
				p := c.Prompt()
				if len(p.Choices) > 0 {
					ch := rapid.SampledFrom(p.Choices).Draw(t, "choice")
					if err := c.Select(ch.Value); err != nil {
						t.Fatalf("Select(%q): %v", ch.Value, err)
					}
				}
			}
		}
		for !c.Done() {
			c.Advance()
		}

		if unset := c.Answers().Unset(); len(unset) != 0 {
			t.Fatalf("completed answers have unset fields: %v", unset)
		}
	})
}

package onboarding

// Choice is one selectable answer of a step.
type Choice struct {
	Value    string
	Label    string
	Selected bool
}

// Prompt is the localized text of the current step.
type Prompt struct {
	Step     Step
	Title    string
	Subtitle string
	Counter  string
	Choices  []Choice
}

// Prompt returns the current step's text in the current language. It is
// the zero Prompt once the flow is done.
func (c *Controller) Prompt() Prompt {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.outcome != OutcomeInProgress {
		return Prompt{Step: c.step}
	}

	lang := c.displayLanguage()
	cat := c.catalog
	p := Prompt{
		Step:     c.step,
		Title:    cat.Lookup(lang, "step."+c.step.String()+".title"),
		Subtitle: cat.Lookup(lang, "step."+c.step.String()+".subtitle"),
		Counter:  cat.Format(lang, "step.counter", int(c.step)+1, NumSteps),
	}

	switch c.step {
	case StepLanguage:
		for _, l := range cat.Languages() {
			p.Choices = append(p.Choices, Choice{
				Value:    l,
				Label:    cat.Lookup(lang, "language."+l),
				Selected: l == c.answers.Language,
			})
		}
	case StepSupport:
		for _, s := range SupportStyles {
			p.Choices = append(p.Choices, Choice{
				Value:    string(s),
				Label:    cat.Lookup(lang, "support."+string(s)),
				Selected: s == c.answers.SupportStyle,
			})
		}
	case StepTheme:
		for _, t := range Themes {
			p.Choices = append(p.Choices, Choice{
				Value:    string(t),
				Label:    cat.Lookup(lang, "theme."+string(t)),
				Selected: t == c.answers.Theme,
			})
		}
	case StepPhrase:
		for _, phrase := range c.phrases() {
			p.Choices = append(p.Choices, Choice{
				Value:    phrase,
				Label:    phrase,
				Selected: phrase == c.answers.AnchorPhrase,
			})
		}
	}
	return p
}

// Select records value as the answer to the current step.
func (c *Controller) Select(value string) error {
	switch c.Step() {
	case StepLanguage:
		return c.SelectLanguage(value)
	case StepSupport:
		return c.SelectSupportStyle(SupportStyle(value))
	case StepTheme:
		return c.SelectTheme(Theme(value))
	case StepPhrase:
		return c.SelectPhrase(value)
	default:
		return nil
	}
}

package onboarding

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shameless/shameless/internal/i18n"
	"github.com/shameless/shameless/internal/kv"
)

// Previewer applies language and theme choices immediately, before the flow
// completes.
type Previewer interface {
	PreviewLanguage(lang string)
	PreviewTheme(theme Theme)
}

// Controller walks the user through the onboarding steps. It is safe for
// concurrent use; callbacks run without the controller lock held.
type Controller struct {
	store     kv.Store
	catalog   *i18n.Catalog
	previewer Previewer
	logger    *log.Logger

	onComplete func(Answers)
	onSkip     func()

	mu      sync.Mutex
	rng     *rand.Rand
	step    Step
	outcome Outcome
	answers Answers
}

// Option configures a Controller.
type Option func(*Controller)

// WithRand sets the random source used to pick a default anchor phrase.
func WithRand(r *rand.Rand) Option {
	return func(c *Controller) {
		c.rng = r
	}
}

// WithPreviewer sets the live preview target.
func WithPreviewer(p Previewer) Option {
	return func(c *Controller) {
		c.previewer = p
	}
}

// WithCatalog overrides the catalog used for prompts and phrases.
func WithCatalog(cat *i18n.Catalog) Option {
	return func(c *Controller) {
		c.catalog = cat
	}
}

// WithLogger sets the controller logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// OnComplete registers the callback receiving the frozen answers.
func OnComplete(fn func(Answers)) Option {
	return func(c *Controller) {
		c.onComplete = fn
	}
}

// OnSkip registers the callback invoked when the whole flow is skipped.
func OnSkip(fn func()) Option {
	return func(c *Controller) {
		c.onSkip = fn
	}
}

// New starts a fresh flow at the language step.
func New(store kv.Store, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		catalog: i18n.Quiz(),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x0b0a4d))
	}
	c.logger = c.logger.With("component", "onboarding")
	return c
}

// Resume restores a flow from the answers persisted in store. It resumes at
// the first unanswered step, or in a finished state if the flow was
// completed or skipped before.
func Resume(store kv.Store, opts ...Option) *Controller {
	c := New(store, opts...)
	c.load()
	return c
}

// Reset deletes every persisted onboarding field.
func Reset(store kv.Store) error {
	for _, key := range []string{
		kv.KeyLanguage,
		kv.KeySupportStyle,
		kv.KeyThemePreference,
		kv.KeyAnchorPhrase,
		kv.KeyOnboardingComplete,
		kv.KeyOnboardingSkipped,
	} {
		if err := store.Delete(key); err != nil {
			return fmt.Errorf("failed to reset %s: %w", key, err)
		}
	}
	return nil
}

// Step returns the current step.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Outcome returns how the flow ended, or OutcomeInProgress.
func (c *Controller) Outcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

// Done reports whether the flow was completed or skipped.
func (c *Controller) Done() bool {
	return c.Outcome() != OutcomeInProgress
}

// Answers returns a copy of the answers collected so far.
func (c *Controller) Answers() Answers {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answers
}

// Language returns the language prompts are shown in.
func (c *Controller) Language() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.displayLanguage()
}

// Advance moves to the next step, completing the flow from the last step.
func (c *Controller) Advance() {
	c.mu.Lock()
	if c.outcome != OutcomeInProgress {
		c.mu.Unlock()
		return
	}
	done := c.advance()
	c.mu.Unlock()
	done()
}

// Retreat moves to the previous step. It does nothing on the first step.
func (c *Controller) Retreat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcome != OutcomeInProgress || c.step == StepLanguage {
		return
	}
	c.step--
}

// SkipCurrentStep records the current step's default answer and advances.
func (c *Controller) SkipCurrentStep() {
	c.mu.Lock()
	if c.outcome != OutcomeInProgress {
		c.mu.Unlock()
		return
	}

	var preview func()
	switch c.step {
	case StepLanguage:
		preview = c.setLanguage(DefaultLanguage)
	case StepSupport:
		c.setSupport(DefaultSupport)
	case StepTheme:
		preview = c.setTheme(DefaultTheme)
	case StepPhrase:
		c.setPhrase(c.randomPhrase())
	}
	c.logger.Debug("Skipped step", "step", c.step)

	done := c.advance()
	c.mu.Unlock()

	if preview != nil {
		preview()
	}
	done()
}

// SkipEntireFlow ends the flow without completing it. No completion record
// is written.
func (c *Controller) SkipEntireFlow() {
	c.mu.Lock()
	if c.outcome != OutcomeInProgress {
		c.mu.Unlock()
		return
	}
	c.outcome = OutcomeSkipped
	c.persist(kv.KeyOnboardingSkipped, "true")
	c.logger.Info("Onboarding skipped", "step", c.step)
	onSkip := c.onSkip
	c.mu.Unlock()

	if onSkip != nil {
		onSkip()
	}
}

// SelectLanguage records the quiz language and previews it.
func (c *Controller) SelectLanguage(lang string) error {
	lang = strings.TrimSpace(lang)
	if !c.catalog.Supports(lang) {
		return fmt.Errorf("%w: language %q", ErrInvalidAnswer, lang)
	}

	c.mu.Lock()
	if c.outcome != OutcomeInProgress {
		c.mu.Unlock()
		return nil
	}
	preview := c.setLanguage(lang)
	c.mu.Unlock()

	preview()
	return nil
}

// SelectSupportStyle records the support style.
func (c *Controller) SelectSupportStyle(style SupportStyle) error {
	style = SupportStyle(strings.TrimSpace(string(style)))
	if !style.valid() {
		return fmt.Errorf("%w: support style %q", ErrInvalidAnswer, style)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcome != OutcomeInProgress {
		return nil
	}
	c.setSupport(style)
	return nil
}

// SelectTheme records the theme and previews it.
func (c *Controller) SelectTheme(theme Theme) error {
	theme = Theme(strings.TrimSpace(string(theme)))
	if !theme.valid() {
		return fmt.Errorf("%w: theme %q", ErrInvalidAnswer, theme)
	}

	c.mu.Lock()
	if c.outcome != OutcomeInProgress {
		c.mu.Unlock()
		return nil
	}
	preview := c.setTheme(theme)
	c.mu.Unlock()

	preview()
	return nil
}

// SelectPhrase records the anchor phrase. It must be one of the phrases
// offered in the current language.
func (c *Controller) SelectPhrase(phrase string) error {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return fmt.Errorf("%w: empty phrase", ErrInvalidAnswer)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcome != OutcomeInProgress {
		return nil
	}
	for _, p := range c.phrases() {
		if p == phrase {
			c.setPhrase(phrase)
			return nil
		}
	}
	return fmt.Errorf("%w: phrase %q is not offered", ErrInvalidAnswer, phrase)
}

// PhraseOptions returns the four anchor phrases in the current language.
func (c *Controller) PhraseOptions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phrases()
}

// advance must be called with the lock held. It returns the completion
// callback to run once the lock is released.
func (c *Controller) advance() func() {
	if c.step < StepPhrase {
		c.step++
		return func() {}
	}
	return c.complete()
}

// complete must be called with the lock held.
func (c *Controller) complete() func() {
	if c.answers.Language == "" {
		c.setLanguage(DefaultLanguage)
	}
	if c.answers.SupportStyle == "" {
		c.setSupport(DefaultSupport)
	}
	if c.answers.Theme == "" {
		c.setTheme(DefaultTheme)
	}
	if c.answers.AnchorPhrase == "" {
		c.setPhrase(c.randomPhrase())
	}

	c.step = StepComplete
	c.outcome = OutcomeCompleted
	c.persist(kv.KeyOnboardingComplete, "true")
	c.logger.Info("Onboarding complete", "language", c.answers.Language, "theme", c.answers.Theme)

	answers := c.answers
	onComplete := c.onComplete
	return func() {
		if onComplete != nil {
			onComplete(answers)
		}
	}
}

func (c *Controller) setLanguage(lang string) func() {
	c.answers.Language = lang
	c.persist(kv.KeyLanguage, lang)
	p := c.previewer
	return func() {
		if p != nil {
			p.PreviewLanguage(lang)
		}
	}
}

func (c *Controller) setSupport(style SupportStyle) {
	c.answers.SupportStyle = style
	c.persist(kv.KeySupportStyle, string(style))
}

func (c *Controller) setTheme(theme Theme) func() {
	c.answers.Theme = theme
	c.persist(kv.KeyThemePreference, string(theme))
	p := c.previewer
	return func() {
		if p != nil {
			p.PreviewTheme(theme)
		}
	}
}

func (c *Controller) setPhrase(phrase string) {
	c.answers.AnchorPhrase = phrase
	c.persist(kv.KeyAnchorPhrase, phrase)
}

func (c *Controller) randomPhrase() string {
	phrases := c.phrases()
	return phrases[c.rng.IntN(len(phrases))]
}

func (c *Controller) phrases() []string {
	lang := c.displayLanguage()
	out := make([]string, len(phraseKeys))
	for i, key := range phraseKeys {
		out[i] = c.catalog.Lookup(lang, key)
	}
	return out
}

func (c *Controller) displayLanguage() string {
	if c.answers.Language != "" {
		return c.answers.Language
	}
	return DefaultLanguage
}

// persist writes one field. Failures are logged; the in-memory answer stands.
func (c *Controller) persist(key, value string) {
	if c.store == nil {
		return
	}
	if err := c.store.Set(key, value); err != nil {
		c.logger.Warn("Failed to persist onboarding field", "key", key, "error", err)
	}
}

func (c *Controller) load() {
	if c.store == nil {
		return
	}
	get := func(key string) string {
		v, _, err := c.store.Get(key)
		if err != nil {
			c.logger.Warn("Failed to read onboarding field", "key", key, "error", err)
		}
		return strings.TrimSpace(v)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if lang := get(kv.KeyLanguage); c.catalog.Supports(lang) {
		c.answers.Language = lang
	}
	if style := SupportStyle(get(kv.KeySupportStyle)); style.valid() {
		c.answers.SupportStyle = style
	}
	if theme := Theme(get(kv.KeyThemePreference)); theme.valid() {
		c.answers.Theme = theme
	}
	c.answers.AnchorPhrase = get(kv.KeyAnchorPhrase)

	switch {
	case get(kv.KeyOnboardingComplete) == "true":
		c.step = StepComplete
		c.outcome = OutcomeCompleted
		// Completed records written by older versions may lack fields.
		c.fillDefaults()
	case get(kv.KeyOnboardingSkipped) == "true":
		c.outcome = OutcomeSkipped
	default:
		c.step = c.firstUnanswered()
	}
}

func (c *Controller) fillDefaults() {
	if c.answers.Language == "" {
		c.answers.Language = DefaultLanguage
	}
	if c.answers.SupportStyle == "" {
		c.answers.SupportStyle = DefaultSupport
	}
	if c.answers.Theme == "" {
		c.answers.Theme = DefaultTheme
	}
	if c.answers.AnchorPhrase == "" {
		c.answers.AnchorPhrase = c.randomPhrase()
	}
}

func (c *Controller) firstUnanswered() Step {
	switch {
	case c.answers.Language == "":
		return StepLanguage
	case c.answers.SupportStyle == "":
		return StepSupport
	case c.answers.Theme == "":
		return StepTheme
	default:
		return StepPhrase
	}
}

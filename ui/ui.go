// Package ui provides the onboarding interface of the shameless CLI.
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/muesli/reflow/wordwrap"

	"github.com/shameless/shameless/internal/i18n"
	"github.com/shameless/shameless/internal/onboarding"
)

const defaultWidth = 72

// NewProgram returns a new Tea program running the onboarding flow driven by
// ctrl. preview must be the previewer ctrl was created with.
func NewProgram(ctrl *onboarding.Controller, preview *ThemePreview) *tea.Program {
	log.Debug("Starting onboarding", "step", ctrl.Step(), "outcome", ctrl.Outcome())
	return tea.NewProgram(NewModel(ctrl, preview))
}

// Model is the bubbletea model of the onboarding flow.
type Model struct {
	ctrl    *onboarding.Controller
	preview *ThemePreview
	catalog *i18n.Catalog

	keys   keyMap
	help   help.Model
	cursor int
	width  int
	err    error
	quit   bool
}

// NewModel creates the model over ctrl.
func NewModel(ctrl *onboarding.Controller, preview *ThemePreview) Model {
	if preview == nil {
		preview = NewThemePreview()
	}
	m := Model{
		ctrl:    ctrl,
		preview: preview,
		catalog: i18n.Quiz(),
		keys:    newKeyMap(),
		help:    help.New(),
		width:   defaultWidth,
	}
	if a := ctrl.Answers(); a.Language != "" {
		preview.PreviewLanguage(a.Language)
	}
	if a := ctrl.Answers(); a.Theme != "" {
		preview.PreviewTheme(a.Theme)
	}
	m.syncCursor()
	return m
}

// Controller returns the flow controller.
func (m Model) Controller() *onboarding.Controller {
	return m.ctrl
}

// Cursor returns the highlighted choice index.
func (m Model) Cursor() int {
	return m.cursor
}

func (m Model) Init() tea.Cmd {
	if m.ctrl.Done() {
		return tea.Quit
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = min(msg.Width, defaultWidth)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		m.err = nil
		choices := m.ctrl.Prompt().Choices

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quit = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(choices)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, m.keys.Select):
			if m.cursor < len(choices) {
				if err := m.ctrl.Select(choices[m.cursor].Value); err != nil {
					m.err = err
					return m, nil
				}
			}
			m.ctrl.Advance()

		case key.Matches(msg, m.keys.Back):
			m.ctrl.Retreat()

		case key.Matches(msg, m.keys.Skip):
			m.ctrl.SkipCurrentStep()

		case key.Matches(msg, m.keys.SkipAll):
			m.ctrl.SkipEntireFlow()

		default:
			return m, nil
		}

		m.syncCursor()
		if m.ctrl.Done() {
			return m, tea.Quit
		}
	}
	return m, nil
}

// syncCursor puts the cursor on the current answer of the new step.
func (m *Model) syncCursor() {
	m.cursor = 0
	for i, c := range m.ctrl.Prompt().Choices {
		if c.Selected {
			m.cursor = i
			break
		}
	}
}

func (m Model) View() string {
	s := m.preview.Styles()
	lang := m.ctrl.Language()

	if m.ctrl.Done() {
		return m.doneView(s, lang)
	}
	if m.quit {
		return ""
	}

	p := m.ctrl.Prompt()
	m.keys.localize(m.catalog, lang)
	if p.Step == onboarding.StepPhrase {
		m.keys.Select.SetHelp("enter", m.catalog.Lookup(lang, "nav.finish"))
	}

	var b strings.Builder
	b.WriteString(s.Counter.Render(p.Counter))
	b.WriteString("\n\n")
	b.WriteString(s.Title.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(s.Subtitle.Render(wordwrap.String(p.Subtitle, m.width)))
	b.WriteString("\n\n")

	glyph := PaletteFor(m.preview.Theme()).Glyph
	for i, c := range p.Choices {
		cursor := "  "
		if i == m.cursor {
			cursor = s.Cursor.Render(glyph) + " "
		}
		label := s.Choice.Render(c.Label)
		if c.Selected {
			label = s.Selected.Render(c.Label)
		}
		b.WriteString(cursor + label + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + s.Error.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys) + "\n")
	return b.String()
}

func (m Model) doneView(s Styles, lang string) string {
	if m.ctrl.Outcome() == onboarding.OutcomeSkipped {
		return s.Subtitle.Render(wordwrap.String(m.catalog.Lookup(lang, "skipped.body"), m.width)) + "\n"
	}

	a := m.ctrl.Answers()
	var b strings.Builder
	b.WriteString(s.Title.Render(m.catalog.Lookup(a.Language, "complete.title")))
	b.WriteString("\n")
	b.WriteString(s.Phrase.Render(m.catalog.Format(a.Language, "complete.body", a.AnchorPhrase)))
	b.WriteString("\n")
	return b.String()
}

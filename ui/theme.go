package ui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
	te "github.com/muesli/termenv"

	"github.com/shameless/shameless/internal/onboarding"
)

// Palette holds the colors of one theme.
type Palette struct {
	Accent lipgloss.AdaptiveColor
	Muted  lipgloss.AdaptiveColor
	Text   lipgloss.AdaptiveColor
	Glyph  string
}

var palettes = map[onboarding.Theme]Palette{
	onboarding.ThemeSpiritual: {
		Accent: lipgloss.AdaptiveColor{Light: "#6B46C1", Dark: "#B794F4"},
		Muted:  lipgloss.AdaptiveColor{Light: "#805AD5", Dark: "#9F7AEA"},
		Text:   lipgloss.AdaptiveColor{Light: "#322659", Dark: "#E9D8FD"},
		Glyph:  "✧",
	},
	onboarding.ThemeSecular: {
		Accent: lipgloss.AdaptiveColor{Light: "#2B6CB0", Dark: "#63B3ED"},
		Muted:  lipgloss.AdaptiveColor{Light: "#718096", Dark: "#A0AEC0"},
		Text:   lipgloss.AdaptiveColor{Light: "#1A202C", Dark: "#EDF2F7"},
		Glyph:  "•",
	},
	onboarding.ThemeAncestral: {
		Accent: lipgloss.AdaptiveColor{Light: "#9C4221", Dark: "#F6AD55"},
		Muted:  lipgloss.AdaptiveColor{Light: "#975A16", Dark: "#D69E2E"},
		Text:   lipgloss.AdaptiveColor{Light: "#3C2415", Dark: "#FEEBC8"},
		Glyph:  "◈",
	},
	onboarding.ThemeGentle: {
		Accent: lipgloss.AdaptiveColor{Light: "#2F855A", Dark: "#9AE6B4"},
		Muted:  lipgloss.AdaptiveColor{Light: "#68D391", Dark: "#68D391"},
		Text:   lipgloss.AdaptiveColor{Light: "#1C4532", Dark: "#F0FFF4"},
		Glyph:  "❀",
	},
}

// PaletteFor returns the palette of theme, or the secular one for unknown
// themes.
func PaletteFor(theme onboarding.Theme) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[onboarding.DefaultTheme]
}

// Styles are the lipgloss styles derived from a palette.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Counter  lipgloss.Style
	Cursor   lipgloss.Style
	Choice   lipgloss.Style
	Selected lipgloss.Style
	Phrase   lipgloss.Style
	Error    lipgloss.Style
}

// NewStyles builds the styles of theme.
func NewStyles(theme onboarding.Theme) Styles {
	p := PaletteFor(theme)
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Subtitle: lipgloss.NewStyle().Foreground(p.Muted),
		Counter:  lipgloss.NewStyle().Foreground(p.Muted).Faint(true),
		Cursor:   lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Choice:   lipgloss.NewStyle().Foreground(p.Text),
		Selected: lipgloss.NewStyle().Foreground(p.Accent).Underline(true),
		Phrase:   lipgloss.NewStyle().Italic(true).Foreground(p.Accent).Padding(1, 2),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#E53E3E")),
	}
}

// ThemePreview tracks the language and theme chosen during onboarding so the
// interface can restyle itself before the flow completes. It implements
// onboarding.Previewer.
type ThemePreview struct {
	mu     sync.Mutex
	lang   string
	theme  onboarding.Theme
	styles Styles
}

var _ onboarding.Previewer = (*ThemePreview)(nil)

// NewThemePreview starts a preview at the default language and theme.
func NewThemePreview() *ThemePreview {
	return &ThemePreview{
		lang:   onboarding.DefaultLanguage,
		theme:  onboarding.DefaultTheme,
		styles: NewStyles(onboarding.DefaultTheme),
	}
}

// PreviewLanguage implements onboarding.Previewer.
func (p *ThemePreview) PreviewLanguage(lang string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lang = lang
}

// PreviewTheme implements onboarding.Previewer.
func (p *ThemePreview) PreviewTheme(theme onboarding.Theme) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.theme = theme
	p.styles = NewStyles(theme)
}

// Language returns the previewed language.
func (p *ThemePreview) Language() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lang
}

// Theme returns the previewed theme.
func (p *ThemePreview) Theme() onboarding.Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.theme
}

// Styles returns the styles of the previewed theme.
func (p *ThemePreview) Styles() Styles {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.styles
}

// DetectDarkBackground configures lipgloss for the terminal background.
func DetectDarkBackground() {
	lipgloss.SetHasDarkBackground(te.HasDarkBackground())
}

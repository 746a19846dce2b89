package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	te "github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/shameless/shameless/internal/celebrate"
	"github.com/shameless/shameless/internal/wins"
)

var (
	winCategory string
	winSearch   string

	winsCmd = &cobra.Command{
		Use:   "wins",
		Short: "Keep a journal of your wins",
	}

	winsAddCmd = &cobra.Command{
		Use:   "add TEXT",
		Short: "Record a win",
		Long: paragraph(fmt.Sprintf("\nRecord a win and get a little celebration. Categories: %s.",
			keyword(joinCategories()))),
		Example: paragraph("shameless wins add drank a glass of water --category self-care"),
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				return addWin(cmd.Context(), a, strings.Join(args, " "))
			})
		},
	}

	winsLsCmd = &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List your wins",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(func(a *app) error {
				return listWins(cmd.Context(), a)
			})
		},
	}

	winsRmCmd = &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Remove a win by id or id prefix",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				if err := a.wins().Delete(ctxOrBackground(cmd.Context()), cfg.Owner, args[0]); err != nil {
					return err
				}
				a.println(a.t("wins.deleted"))
				return nil
			})
		},
	}
)

func joinCategories() string {
	cats := celebrate.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func ctxOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func addWin(ctx context.Context, a *app, text string) error {
	w, celebration, err := a.wins().Add(ctxOrBackground(ctx), cfg.Owner, text, celebrate.ParseCategory(winCategory))
	if errors.Is(err, wins.ErrEmptyWin) {
		a.println(warning(a.t("wins.empty_text")))
		return nil
	}
	if err != nil {
		return err
	}

	a.println(renderCelebration(celebration, w.Text))
	a.println(faint(a.t("wins.added") + " " + w.ID))
	return nil
}

// renderCelebration prints the message in the effect's first color, framed
// by a row of particles.
func renderCelebration(c celebrate.Config, text string) string {
	style := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	if c.Effect == nil || len(c.Effect.Colors) == 0 {
		return style.Render(c.Render(text))
	}

	style = style.Foreground(lipgloss.Color(c.Effect.Colors[0]))
	glyph := map[string]string{
		"confetti": "✦",
		"sparkles": "✧",
		"hearts":   "♥",
		"glow":     "·",
	}[c.Effect.Name]
	if glyph == "" {
		glyph = "·"
	}

	n := min(max(c.Effect.Particles/4, 3), 24)
	var row strings.Builder
	for i := range n {
		color := c.Effect.Colors[i%len(c.Effect.Colors)]
		row.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(glyph + " "))
	}
	return row.String() + "\n" + style.Render(c.Render(text)) + "\n" + row.String()
}

func listWins(ctx context.Context, a *app) error {
	list, err := a.wins().Search(ctxOrBackground(ctx), cfg.Owner, winSearch)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println(faint(a.t("wins.empty")))
		return nil
	}

	out, err := renderMarkdown(winsMarkdown(a.t("wins.title"), list))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(a.out, out)
	return err
}

func winsMarkdown(title string, list []wins.Win) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	for _, w := range list {
		fmt.Fprintf(&b, "- **%s**  \n  `%s` · %s · `%s`\n",
			w.Text, w.Category, humanize.Time(w.CreatedAt), w.ID)
	}
	return b.String()
}

func renderMarkdown(md string) (string, error) {
	style := styles.NoTTYStyle
	if isTerminal {
		style = styles.LightStyle
		if te.HasDarkBackground() {
			style = styles.DarkStyle
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithColorProfile(lipgloss.ColorProfile()),
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(int(width)), //nolint:gosec
	)
	if err != nil {
		return "", fmt.Errorf("unable to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("unable to render markdown: %w", err)
	}
	return out, nil
}

func init() {
	winsAddCmd.Flags().StringVarP(&winCategory, "category", "c", string(celebrate.CategoryCustom), "win category")
	winsLsCmd.Flags().StringVarP(&winSearch, "search", "s", "", "fuzzy filter")

	winsCmd.AddCommand(winsAddCmd, winsLsCmd, winsRmCmd)
}

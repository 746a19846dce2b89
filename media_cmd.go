package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/shameless/shameless/internal/kv"
	"github.com/shameless/shameless/internal/media"
)

var (
	mediaMood  string
	mediaColor string
	mediaQuery string
	mediaType  string
	mediaCount int

	mediaCmd = &cobra.Command{
		Use:   "media",
		Short: "Find calming images and videos",
	}

	mediaSearchCmd = &cobra.Command{
		Use:   "search",
		Short: "Search for calming media",
		Long: paragraph(fmt.Sprintf("\nSearch for %s matched to a mood or color. Saved nature images are shown when the media service is unavailable.\n\nMoods: %s",
			keyword("calming media"), strings.Join(media.Moods(), ", "))),
		Example: paragraph("shameless media search --mood anxious\nshameless media search --color blue --type video"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(func(a *app) error {
				return searchMedia(cmd.Context(), a)
			})
		},
	}

	mediaFavCmd = &cobra.Command{
		Use:   "fav",
		Short: "Manage favorite media",
	}

	mediaFavAddCmd = &cobra.Command{
		Use:   "add ID",
		Short: "Favorite an item from the last search",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				item, ok := recentMedia(a, args[0])
				if !ok {
					return fmt.Errorf("no item %q in the last search", args[0])
				}
				if err := a.media().Favorites().Add(item); err != nil {
					return err
				}
				a.println(a.t("media.favorited"))
				return nil
			})
		},
	}

	mediaFavRmCmd = &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Remove a favorite",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				if err := a.media().Favorites().Remove(args[0]); err != nil {
					return err
				}
				a.println(a.t("media.unfavorited"))
				return nil
			})
		},
	}

	mediaFavLsCmd = &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List favorites",
		Args:    cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return withApp(func(a *app) error {
				favs := a.media().Favorites().List()
				if len(favs) == 0 {
					a.println(faint(a.t("media.favorites_empty")))
					return nil
				}
				for _, f := range favs {
					f.Item.Favorited = true
					a.println(formatMediaItem(f.Item) + faint("  saved "+humanize.Time(f.AddedAt)))
				}
				return nil
			})
		},
	}
)

func searchMedia(ctx context.Context, a *app) error {
	if ctx == nil {
		ctx = context.Background()
	}
	res := a.media().Search(ctx, media.Request{
		Mood:          mediaMood,
		Color:         mediaColor,
		Query:         mediaQuery,
		Kind:          media.ParseKind(mediaType),
		FallbackCount: mediaCount,
	})

	a.println(keyword(a.t("media.title", res.Term)))
	if res.Source == media.SourceFallback && res.Kind == media.KindImage {
		a.println(warning(a.t("media.fallback_notice")))
	}
	if len(res.Items) == 0 {
		a.println(faint(a.t("media.empty")))
		return nil
	}

	for _, item := range res.Items {
		a.println(formatMediaItem(item))
	}

	data, err := json.Marshal(res.Items)
	if err != nil {
		return err
	}
	if err := a.store.Set(kv.KeyRecentMedia, string(data)); err != nil {
		a.logger.Warn("Failed to remember search results", "error", err)
	}
	return nil
}

func recentMedia(a *app, id string) (media.Item, bool) {
	raw, ok, err := a.store.Get(kv.KeyRecentMedia)
	if err != nil || !ok {
		return media.Item{}, false
	}
	var items []media.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return media.Item{}, false
	}
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return media.Item{}, false
}

func formatMediaItem(item media.Item) string {
	star := " "
	if item.Favorited {
		star = keyword("★")
	}
	line := fmt.Sprintf("%s %s %s", star, runewidth.FillRight(item.ID, 10), item.DisplayURL())
	var meta []string
	if item.Author != "" {
		meta = append(meta, item.Author)
	}
	if item.Stats.Likes > 0 {
		meta = append(meta, humanize.Comma(int64(item.Stats.Likes))+" likes")
	}
	if len(item.Tags) > 0 {
		meta = append(meta, strings.Join(item.Tags, ", "))
	}
	if len(meta) > 0 {
		line += "\n             " + faint(strings.Join(meta, " · "))
	}
	return line
}

func init() {
	mediaSearchCmd.Flags().StringVar(&mediaMood, "mood", "", "how you feel right now")
	mediaSearchCmd.Flags().StringVar(&mediaColor, "color", "", "a color you find soothing")
	mediaSearchCmd.Flags().StringVarP(&mediaQuery, "query", "q", "", "search terms (overrides mood and color)")
	mediaSearchCmd.Flags().StringVarP(&mediaType, "type", "t", "image", "image or video")
	mediaSearchCmd.Flags().IntVarP(&mediaCount, "count", "n", 0, "how many saved images to show when offline")

	mediaFavCmd.AddCommand(mediaFavAddCmd, mediaFavRmCmd, mediaFavLsCmd)
	mediaCmd.AddCommand(mediaSearchCmd, mediaFavCmd)
}

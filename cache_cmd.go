package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear cached media and audio",
	}

	cacheClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached search result and audio file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return withApp(func(a *app) error {
				a.media().ClearCache()
				sp, err := a.speech()
				if err != nil {
					return err
				}
				if err := sp.ClearCache(); err != nil {
					return err
				}
				a.println(a.t("cache.cleared"))
				return nil
			})
		},
	}

	cacheStatsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return withApp(func(a *app) error {
				ms := a.media().CacheStats()
				sp, err := a.speech()
				if err != nil {
					return err
				}
				ss := sp.CacheStats()
				a.println(fmt.Sprintf("%s  %d entries", keyword("media "), ms.ItemCount))
				a.println(fmt.Sprintf("%s  %d entries, %s on disk", keyword("speech"), ss.ItemCount, humanize.Bytes(uint64(a.disk.Size())))) //nolint:gosec
				if ms.Degraded || ss.Degraded {
					a.println(warning("cache persistence is degraded; running from memory"))
				}
				return nil
			})
		},
	}
)

func init() {
	cacheCmd.AddCommand(cacheClearCmd, cacheStatsCmd)
}

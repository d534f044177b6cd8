package cmd

import (
	"fmt"
	"time"

	"github.com/matheuskafuri/ticker/internal/config"
	"github.com/spf13/cobra"
)

var flagPruneOlderThan string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clean the local cache",
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old entries from the local cache",
	Long: `Delete cached source data fetched longer ago than --older-than (default: 7d).

Entries with a permanent lifetime, such as zip code coordinates, are removed too
and fetched again on next use.`,
	Args: exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		age, err := config.ParseDuration(flagPruneOlderThan)
		if err != nil || age <= 0 {
			return fmt.Errorf("invalid --older-than value %q", flagPruneOlderThan)
		}

		store, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer store.Close()

		deleted, err := store.Prune(time.Now().Add(-age))
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		out := cmd.OutOrStdout()
		if deleted == 0 {
			fmt.Fprintln(out, "Nothing to prune.")
		} else {
			fmt.Fprintf(out, "Pruned %d entr%s older than %s.\n", deleted, plural(deleted, "y", "ies"), formatDuration(age))
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer store.Close()

		stats, err := store.Stats()
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		location := cfg.CacheDir()
		if cfg.Cache.Backend == "sqlite" {
			location = cfg.CacheDBPath()
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Cache: %s\n", location)
		fmt.Fprintf(out, "Entries: %d\n", stats.Entries)
		fmt.Fprintf(out, "Size: %s\n", formatBytes(stats.Bytes))
		return nil
	},
}

func init() {
	pruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "7d", "age of entries to remove (e.g., 30d, 12h)")
	cacheCmd.AddCommand(pruneCmd)
	cacheCmd.AddCommand(statsCmd)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	if h := int(d.Hours()); h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

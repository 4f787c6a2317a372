package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/thinkscope/internal/config"
	"github.com/matheuskafuri/thinkscope/internal/feed"
	"github.com/matheuskafuri/thinkscope/internal/store"
)

var (
	flagImportTimeout  time.Duration
	flagPruneOlderThan string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Fetch the configured feeds into the local database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(newLogger(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer e.Close()

		sources := e.cfg.EnabledSources()
		if len(sources) == 0 {
			return errors.New("no enabled sources in config")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), flagImportTimeout)
		defer cancel()

		res, err := feed.Import(ctx, e.store, feed.NewRSSFetcher(e.cfg.ImportWindowDuration()), sources, e.logger)
		for _, ferr := range res.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "  [warn] %v\n", ferr)
		}
		if err != nil {
			return fmt.Errorf("importing feeds: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d article(s) from %d source(s).\n", res.Imported, len(sources)-len(res.Errors))
		return nil
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old imported articles",
	Long: `Delete imported articles older than the import window and reclaim disk space.
Saved articles and your own posts are never pruned.

Uses import_window from config (default: 30d) unless overridden with --older-than.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(newLogger(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer e.Close()

		retention := e.cfg.ImportWindowDuration()
		if flagPruneOlderThan != "" {
			d, err := config.ParseDuration(flagPruneOlderThan)
			if err != nil {
				return fmt.Errorf("invalid --older-than value: %w", err)
			}
			retention = d
		}

		deleted, err := e.store.Prune(retention)
		if err != nil {
			return err
		}

		if deleted == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to prune.")
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d article(s) older than %s.\n", deleted, formatDuration(retention))
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(newLogger(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer e.Close()

		count, size, err := e.store.Stats(e.dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Database: %s\n", e.dbPath)
		fmt.Fprintf(out, "Articles: %d\n", count)
		fmt.Fprintf(out, "Size: %s\n", formatBytes(size))

		last, err := e.store.LastImport()
		switch {
		case err == nil:
			fmt.Fprintf(out, "Last import: %s\n", last.Local().Format("Jan 2, 2006 15:04"))
		case errors.Is(err, store.ErrNotFound):
			fmt.Fprintln(out, "Last import: never")
		default:
			return fmt.Errorf("reading last import: %w", err)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().DurationVar(&flagImportTimeout, "timeout", 30*time.Second, "give up on slow feeds after this long")
	pruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "", "override the import window (e.g., 30d, 720h)")
}

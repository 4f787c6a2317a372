package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/thinkscope/internal/update"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig  string
	flagProfile string
	flagVerbose bool

	flagRefresh      bool
	flagVersionCheck bool
)

var rootCmd = &cobra.Command{
	Use:   "thinkscope",
	Short: "Terminal blog reader with instant title search",
	Long: `thinkscope is a terminal blog reader. Browse posts by category, search
titles as you type, save articles for later and publish your own posts.

Run without a subcommand to open the interactive reader.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVarP(&flagProfile, "profile", "p", "", "local profile to sign in as (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log debug output")

	rootCmd.Flags().BoolVar(&flagRefresh, "refresh", false, "import feeds before launching")
	versionCmd.Flags().BoolVar(&flagVersionCheck, "check", false, "check GitHub for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(feedCmd, searchCmd, suggestCmd, readCmd)
	rootCmd.AddCommand(saveCmd, unsaveCmd, savedCmd, publishCmd)
	rootCmd.AddCommand(categoriesCmd, themeCmd, deleteAccountCmd)
	rootCmd.AddCommand(importCmd, pruneCmd, statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "thinkscope %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagVersionCheck {
			return nil
		}
		res, err := update.NewChecker().Check(context.Background(), version)
		if err != nil {
			return fmt.Errorf("checking for updates: %w", err)
		}
		if res == nil {
			fmt.Fprintln(out, "You are on the latest release.")
			return nil
		}
		fmt.Fprintf(out, "thinkscope %s is available: %s\n", res.LatestVersion, res.URL)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

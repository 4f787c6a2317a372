package cmd

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/thinkscope/internal/category"
	"github.com/matheuskafuri/thinkscope/internal/theme"
)

var (
	flagCategoriesSet   string
	flagCategoriesClear bool
	flagDeleteYes       bool
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories or choose the ones your feed shows",
	Long: `List every category, marking the ones you follow.

Use --set to choose categories (comma separated). The first time you choose,
at least one category is required. --clear brings back every category.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(newLogger(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		switch {
		case flagCategoriesClear:
			if err := e.svc.UpdateCategories(e.user.ID, nil); err != nil {
				return err
			}
			fmt.Fprintln(out, "Following every category.")
			return nil
		case flagCategoriesSet != "":
			names := splitList(flagCategoriesSet)
			if e.user.CategoriesSelected {
				err = e.svc.UpdateCategories(e.user.ID, names)
			} else {
				err = e.svc.SelectCategories(e.user.ID, names)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Following %d %s.\n", len(names), plural(len(names), "category", "categories"))
			return nil
		}

		selected, err := e.svc.UserCategories(e.user.ID)
		if err != nil {
			return err
		}
		for _, name := range category.Labels() {
			mark := " "
			if slices.Contains(selected, name) {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %s\n", mark, name)
		}
		return nil
	},
}

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|system]",
	Short:     "Show or change the color theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(theme.Light), string(theme.Dark), string(theme.System)},
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(newLogger(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer e.Close()

		th, err := theme.New(e.store, e.user.ID, e.cfg.ThemePreference(), theme.SystemDark)
		if err != nil {
			return err
		}
		th.Refresh()

		if len(args) == 1 {
			pref, err := theme.ParsePreference(args[0])
			if err != nil {
				return err
			}
			if err := th.Set(pref); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "theme: %s (showing %s)\n", th.Preference(), th.Resolved())
		return nil
	},
}

var deleteAccountCmd = &cobra.Command{
	Use:   "delete-account",
	Short: "Delete your profile, saved articles and preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !flagDeleteYes {
			return errors.New("this cannot be undone; pass --yes to confirm")
		}
		e, err := openEnv(newLogger(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.svc.DeleteAccount(e.user.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %q.\n", e.user.Name)
		return nil
	},
}

func init() {
	categoriesCmd.Flags().StringVar(&flagCategoriesSet, "set", "", "categories to follow, comma separated")
	categoriesCmd.Flags().BoolVar(&flagCategoriesClear, "clear", false, "follow every category")
	categoriesCmd.MarkFlagsMutuallyExclusive("set", "clear")
	deleteAccountCmd.Flags().BoolVar(&flagDeleteYes, "yes", false, "confirm deletion")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

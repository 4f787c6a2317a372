package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matheuskafuri/thinkscope/internal/category"
	"github.com/matheuskafuri/thinkscope/internal/reader"
	"github.com/matheuskafuri/thinkscope/internal/search"
	"github.com/matheuskafuri/thinkscope/internal/store"
)

var (
	flagCategory        string
	flagPublishCategory string
	flagPublishTitle    string
	flagPublishBody     string
	flagPublishFile     string
	flagSavedRemove     string
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	metaStyle  = lipgloss.NewStyle().Faint(true)
	markStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "List the newest articles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(newLogger(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer e.Close()

		articles, err := e.svc.Feed(e.user.ID, flagCategory)
		if err != nil {
			return fmt.Errorf("loading feed: %w", err)
		}
		if len(articles) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No articles yet. Run `thinkscope import` to fetch feeds.")
			return nil
		}
		return printArticles(cmd.OutOrStdout(), articles, "")
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search article titles",
	Long:  "Print every article whose title contains the query. Titles starting with the query come first.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(newLogger(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer e.Close()

		query := strings.Join(args, " ")
		results, err := e.svc.Search(query, flagCategory)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No articles match %q.\n", strings.TrimSpace(query))
			return nil
		}
		return printArticles(cmd.OutOrStdout(), results, query)
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "Show the title suggestions for a partial query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(newLogger(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer e.Close()

		query := strings.Join(args, " ")
		suggestions, err := e.svc.Suggest(query)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, a := range suggestions {
			fmt.Fprintln(out, highlight(a.Title, query))
		}
		return nil
	},
}

var readCmd = &cobra.Command{
	Use:   "read [article-id]",
	Short: "Print an article, the newest one by default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(newLogger(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer e.Close()

		var a store.Article
		if len(args) == 1 {
			a, err = e.svc.Article(args[0])
		} else {
			a, err = e.svc.Latest()
		}
		if err != nil {
			return fmt.Errorf("loading article: %w", err)
		}
		saved, err := e.svc.IsSaved(e.user.ID, a.ID)
		if err != nil {
			return err
		}
		printArticle(cmd.OutOrStdout(), a, saved)
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save <article-id>",
	Short: "Save an article for later",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(newLogger(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer e.Close()

		a, err := e.svc.Article(args[0])
		if err != nil {
			return fmt.Errorf("loading article: %w", err)
		}
		if err := e.svc.Save(e.user.ID, a.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %q.\n", a.Title)
		return nil
	},
}

var unsaveCmd = &cobra.Command{
	Use:   "unsave <article-id>",
	Short: "Remove an article from your saved list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(newLogger(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.svc.Unsave(e.user.ID, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Removed from saved.")
		return nil
	},
}

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List your saved articles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(newLogger(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		if flagSavedRemove != "" {
			if err := e.svc.RemoveSaved(e.user.ID, flagSavedRemove); err != nil {
				return err
			}
			fmt.Fprintln(out, "Removed from saved.")
			return nil
		}

		saved, err := e.svc.Saved(e.user.ID)
		if err != nil {
			return err
		}
		if len(saved) == 0 {
			fmt.Fprintln(out, "Nothing saved yet.")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SAVED ID\tSAVED\tCATEGORY\tTITLE")
		for _, s := range saved {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.SavedAt.Local().Format("Jan 2"), s.Article.Category, s.Article.Title)
		}
		return w.Flush()
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a post of your own",
	Long: `Publish a post under your profile. The body comes from --content, from
--file, or from standard input when neither is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(newLogger(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer e.Close()

		if e.user.ID == "" {
			return errors.New("sign in with --profile to publish")
		}

		body := flagPublishBody
		switch {
		case body != "":
		case flagPublishFile != "":
			data, err := os.ReadFile(flagPublishFile)
			if err != nil {
				return fmt.Errorf("reading post: %w", err)
			}
			body = string(data)
		default:
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading post: %w", err)
			}
			body = string(data)
		}

		a, err := e.svc.Publish(e.user.ID, flagPublishTitle, body, flagPublishCategory)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Published %q in %s (%s).\n", a.Title, a.Category, a.ID)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{feedCmd, searchCmd} {
		c.Flags().StringVarP(&flagCategory, "category", "c", category.All, "limit to one category")
	}
	publishCmd.Flags().StringVarP(&flagPublishCategory, "category", "c", "", "post category (default "+category.Default+")")
	publishCmd.Flags().StringVarP(&flagPublishTitle, "title", "t", "", "post title")
	publishCmd.Flags().StringVar(&flagPublishBody, "content", "", "post body")
	publishCmd.Flags().StringVarP(&flagPublishFile, "file", "f", "", "read the post body from a file")
	savedCmd.Flags().StringVar(&flagSavedRemove, "remove", "", "remove the saved entry with this saved ID")
}

func printArticles(out io.Writer, articles []store.Article, query string) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tTITLE")
	for _, a := range articles {
		title := a.Title
		if query != "" {
			title = highlight(title, query)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.CreatedAt.Local().Format("Jan 2"), a.Category, title)
	}
	return w.Flush()
}

func printArticle(out io.Writer, a store.Article, saved bool) {
	title := a.Title
	if saved {
		title = "★ " + title
	}
	fmt.Fprintln(out, titleStyle.Render(title))
	meta := fmt.Sprintf("%s · %s · %d min read", a.Category, a.CreatedAt.Local().Format("Jan 2, 2006"), reader.ReadingMinutes(a.Content))
	fmt.Fprintln(out, metaStyle.Render(meta))
	if a.Link != "" {
		fmt.Fprintln(out, metaStyle.Render(a.Link))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, lipgloss.NewStyle().Width(80).Render(reader.Preview(a.Content, 0)))
}

// highlight marks the parts of text matching query.
func highlight(text, query string) string {
	var b strings.Builder
	for _, span := range search.Highlight(text, query) {
		if span.Match {
			b.WriteString(markStyle.Render(span.Text))
			continue
		}
		b.WriteString(span.Text)
	}
	return b.String()
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/corey/treegrep/internal/app"
)

var (
	searchWord      bool
	searchEscape    bool
	searchKind      string
	searchMax       int
	searchWorkers   int
	searchInclude   []string
	searchExclude   []string
	searchCountOnly bool
)

var searchCmd = &cobra.Command{
	Use:   "search <pattern> [path ...]",
	Short: "Search the project for a literal pattern",
	Long:  "Scans every eligible file, parses it, and prints each occurrence with the syntax node it belongs to. Optional paths restrict the search.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.BoolVarP(&searchWord, "word", "w", false, "Match only on identifier boundaries")
	f.BoolVar(&searchEscape, "escape", false, "Respect backslash escapes when checking boundaries")
	f.StringVarP(&searchKind, "kind", "k", "", "Only matches attributed to this node kind (e.g. identifier)")
	f.IntVarP(&searchMax, "max", "m", 0, "Stop after N matches")
	f.IntVar(&searchWorkers, "workers", 0, "Files searched in parallel")
	f.StringArrayVar(&searchInclude, "include", nil, "File glob filter (include)")
	f.StringArrayVar(&searchExclude, "exclude", nil, "File glob filter (exclude)")
	f.BoolVarP(&searchCountOnly, "count", "c", false, "Print only the match count")
}

// searchOptions merges the config-seeded defaults with explicitly set flags.
func searchOptions(cmd *cobra.Command, a *app.App, args []string) app.Options {
	opts := a.SearchOptions(args[0])
	opts.Paths = args[1:]
	f := cmd.Flags()
	if f.Changed("word") {
		opts.WholeWord = searchWord
	}
	if f.Changed("escape") {
		opts.EscapeAware = searchEscape
	}
	if searchKind != "" {
		opts.Kind = searchKind
	}
	if searchMax > 0 {
		opts.MaxResults = searchMax
	}
	if searchWorkers > 0 {
		opts.Workers = searchWorkers
	}
	if len(searchInclude) > 0 {
		opts.Include = searchInclude
	}
	if len(searchExclude) > 0 {
		opts.Exclude = searchExclude
	}
	return opts
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Search(cmd.Context(), searchOptions(cmd, a, args))
	if err != nil {
		return err
	}

	printResult(res)
	return nil
}

func printResult(res *app.Result) {
	if searchCountOnly {
		fmt.Println(len(res.Matches))
		return
	}
	for _, m := range res.Matches {
		fmt.Println(app.FormatMatch(m))
	}
	suffix := ""
	if res.Truncated {
		suffix = " (truncated)"
	}
	fmt.Printf("%d matches in %d files, %s%s\n",
		len(res.Matches), res.FilesScanned, res.Elapsed.Round(time.Millisecond), suffix)
}

package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/treegrep/internal/adapters/treesitter"
)

var grammarsCmd = &cobra.Command{
	Use:   "grammars",
	Short: "List available grammars and file extensions",
	Long:  "Shows the compiled-in grammars, any dynamically installed ones, and the file extensions the parser recognizes. Files without a grammar fall back to plain-text search.",
	RunE:  runGrammars,
}

func runGrammars(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	p := treesitter.NewParser()
	p.SetGrammarPaths(treesitter.DefaultGrammarPaths(root))

	installed := p.Loader().InstalledGrammars()
	sort.Strings(installed)
	if len(installed) > 0 {
		fmt.Println("installed grammars:")
		for _, g := range installed {
			fmt.Printf("  %s (%s)\n", g, p.Loader().GrammarPath(g))
		}
	} else {
		fmt.Println("no dynamically installed grammars")
		fmt.Printf("  drop lib<lang>%s files into %s\n",
			treesitter.LibExtension(), strings.Join(treesitter.DefaultGrammarPaths(root), " or "))
	}

	exts := p.SupportedExtensions()
	sort.Strings(exts)
	fmt.Printf("recognized extensions: %s\n", strings.Join(exts, " "))
	return nil
}

package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corey/treegrep/internal/app"
)

var watchCmd = &cobra.Command{
	Use:   "watch <pattern> [path ...]",
	Short: "Search and re-run on every file change",
	Long:  "Runs the search once, then keeps watching the project and reprints results whenever a source file changes. Stop with Ctrl-C.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

func init() {
	// Watch shares the search flags.
	watchCmd.Flags().AddFlagSet(searchCmd.Flags())
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := searchOptions(cmd, a, args)

	res, err := a.Search(ctx, opts)
	if err != nil {
		return err
	}
	printResult(res)

	err = a.Watch(ctx, opts, func(r *app.Result) {
		fmt.Println("---")
		printResult(r)
	})
	if err != nil {
		return err
	}

	<-ctx.Done()
	return a.StopWatch()
}

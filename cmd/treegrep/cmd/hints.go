package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var hintsLang string

var hintsCmd = &cobra.Command{
	Use:   "hints",
	Short: "Manage inline-hint settings",
	Long:  "Shows and edits per-project inline-hint settings. Settings are global by default; --lang scopes them to one language.",
}

var hintsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective hint settings",
	RunE:  runHintsShow,
}

var hintsEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable hints",
	RunE:  func(cmd *cobra.Command, args []string) error { return setHintsEnabled(true) },
}

var hintsDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable hints",
	RunE:  func(cmd *cobra.Command, args []string) error { return setHintsEnabled(false) },
}

var hintsSetCmd = &cobra.Command{
	Use:   "set <option> <on|off>",
	Short: "Toggle one hint option",
	Args:  cobra.ExactArgs(2),
	RunE:  runHintsSet,
}

var hintsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop all persisted hint settings for this project",
	RunE:  runHintsReset,
}

func init() {
	hintsCmd.PersistentFlags().StringVar(&hintsLang, "lang", "", "Scope to one language (e.g. go, python)")
	hintsCmd.AddCommand(hintsShowCmd)
	hintsCmd.AddCommand(hintsEnableCmd)
	hintsCmd.AddCommand(hintsDisableCmd)
	hintsCmd.AddCommand(hintsSetCmd)
	hintsCmd.AddCommand(hintsResetCmd)
}

func runHintsShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.HintSettings(hintsLang)
	if err != nil {
		return err
	}

	scope := "global"
	if hintsLang != "" {
		scope = hintsLang
	}
	fmt.Printf("scope:   %s\n", scope)
	fmt.Printf("enabled: %v\n", s.Enabled)
	if len(s.Options) > 0 {
		opts := make([]string, 0, len(s.Options))
		for o := range s.Options {
			opts = append(opts, o)
		}
		sort.Strings(opts)
		fmt.Println("options:")
		for _, o := range opts {
			fmt.Printf("  %s: %v\n", o, s.Options[o])
		}
	}
	return nil
}

func setHintsEnabled(on bool) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	changed, err := a.SetHintEnabled(hintsLang, on)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Println("unchanged")
		return nil
	}
	fmt.Println("ok")
	return nil
}

func runHintsSet(cmd *cobra.Command, args []string) error {
	option := args[0]
	var on bool
	switch args[1] {
	case "on":
		on = true
	case "off":
		on = false
	default:
		return fmt.Errorf("value must be on or off, got %q", args[1])
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	changed, err := a.SetHintOption(hintsLang, option, on)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Println("unchanged")
		return nil
	}
	fmt.Println("ok")
	return nil
}

func runHintsReset(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ResetHints(); err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/config"
	"github.com/Mohsinsiddi/tokenforge/internal/ui"
)

var pauseCmd = &cobra.Command{
	Use:   "pause <token>",
	Short: "Pause all transfers (pausable tokens only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPauseState(args[0], "pause", "Pausing...", "Token Paused ✓")
	},
}

var unpauseCmd = &cobra.Command{
	Use:   "unpause <token>",
	Short: "Resume transfers on a paused token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPauseState(args[0], "unpause", "Unpausing...", "Token Unpaused ✓")
	},
}

func runPauseState(ref, fn, doing, done string) error {
	env, err := config.FromEnv()
	if err != nil {
		return err
	}
	tok, err := resolveToken(env, ref)
	if err != nil {
		return err
	}

	sender, _, err := newTokenSender(env)
	if err != nil {
		return err
	}

	fmt.Println(ui.Meta(fmt.Sprintf("%s %s at %s", fn, tok.Symbol, tok.Address)))
	return sendWithSpinner(sender, doing, done, tok.Address, fn)
}

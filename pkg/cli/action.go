package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hugo-setiawan/action-lark-bot/pkg/action"
	"github.com/hugo-setiawan/action-lark-bot/pkg/cli/internal/output"
)

var actionCmd = &cobra.Command{
	Use:   "action",
	Short: "Run as a GitHub Actions step",
	Long: `Action reads its settings from INPUT_* environment variables the way
GitHub Actions passes step inputs, runs the send pipeline, and appends
ok, status, and response_text to the file named by GITHUB_OUTPUT.

Failures are printed as ::error:: workflow annotations so they show up
inline in the run log.`,
	RunE: runAction,
}

func runAction(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	in, err := action.ReadInputs()
	if err != nil {
		action.AnnotateError(os.Stdout, err.Error())
		return err
	}

	out, runErr := action.Run(cmd.Context(), in, logger)

	// Outputs are meaningful even when the run failed; publish them
	// first so downstream steps can inspect status and response_text.
	if err := out.Write(logger); err != nil {
		output.Warn("failed to write step outputs: %v", err)
	}

	if runErr != nil {
		action.AnnotateError(os.Stdout, runErr.Error())
		return runErr
	}
	return nil
}

func init() {
	rootCmd.AddCommand(actionCmd)
}

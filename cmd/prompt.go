package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kfreiman/interviewprep/internal/prompt"
	"github.com/kfreiman/interviewprep/internal/safety"
	"github.com/kfreiman/interviewprep/internal/session"
)

var promptWelcome bool

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the system instruction for an interview configuration",
	Long: `Print the system instruction the interviewer receives for a configuration.
No model is called and no API key is needed.

Examples:
  interviewprep prompt --role ux-designer --technique few-shot
  interviewprep prompt --technique structured-json --welcome`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := interviewConfig(cmd.Flags(), session.DefaultConfig())
		if err != nil {
			return err
		}

		instruction := prompt.Resolve(cfg)
		if err := safety.CheckInstruction(instruction.Text); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, instruction.Text)
		if promptWelcome {
			fmt.Fprintf(out, "\n---\n\n%s\n", prompt.Welcome(cfg))
		}
		return nil
	},
}

func init() {
	addConfigFlags(promptCmd.Flags())
	promptCmd.Flags().BoolVar(&promptWelcome, "welcome", false, "Also print the opening message")
	rootCmd.AddCommand(promptCmd)
}

// Package cmd holds the interviewprep command tree.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kfreiman/interviewprep/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "interviewprep",
	Short: "AI mock interview assistant",
	Long: `interviewprep runs practice job interviews against an LLM interviewer.

Pick a role, seniority, industry, interviewer tone and prompt technique; the
interviewer asks questions, scores every answer out of 10 and keeps running
statistics that can be exported as JSON.

` + config.Usage(),
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kfreiman/interviewprep/internal/mcp"
	"github.com/kfreiman/interviewprep/internal/session"
)

var optionsJSON bool

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List valid roles, levels, domains, tones, techniques and models",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		opts := mcp.Options()

		if optionsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(opts)
		}

		printOptions(out, "Roles", opts.Roles)
		printOptions(out, "Levels", opts.Levels)
		printOptions(out, "Domains", opts.Domains)
		printOptions(out, "Tones", opts.Tones)
		printOptions(out, "Techniques", opts.Techniques)

		fmt.Fprintln(out, "Models ($ per 1K estimated tokens):")
		for _, m := range opts.Models {
			fmt.Fprintf(out, "  %-18s %g\n", m, session.RatePer1K(m))
		}
		return nil
	},
}

func printOptions(out io.Writer, title string, values []string) {
	fmt.Fprintf(out, "%s:\n", title)
	for _, v := range values {
		fmt.Fprintf(out, "  %-22s (%s)\n", v, session.Slug(v))
	}
	fmt.Fprintln(out)
}

func init() {
	optionsCmd.Flags().BoolVar(&optionsJSON, "json", false, "Print as JSON")
	rootCmd.AddCommand(optionsCmd)
}

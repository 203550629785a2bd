package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chime-sh/chime/pipeline"
)

var validateCmd = &cobra.Command{
	Use:   "validate <workflow.yml>",
	Short: "Check a workflow file for consistency",
	Long:  `Parses a workflow file and reports structural problems such as missing triggers, empty jobs or ambiguous steps.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		wf, err := pipeline.Load(args[0])
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Workflow %q is valid (%d job(s)).\n", wf.Name, len(wf.Jobs))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

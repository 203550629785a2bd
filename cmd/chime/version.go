package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chime-sh/chime"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of chime",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("chime version %s\n", strings.TrimSpace(chime.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/minddump"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of minddump",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("minddump v%s\n", strings.TrimSpace(minddump.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

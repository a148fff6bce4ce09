package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/curtain"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of curtain",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "curtain version %s\n", strings.TrimSpace(curtain.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Version command for the dmvault CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tablefolk/dmvault/pkg/dmvault"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the dmvault version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("dmvault", dmvault.Version)
	},
}

// TODO: refactor [RootCmd] to be a func
package main

import (
	"os"

	"github.com/spf13/cobra"

	"nbapbp.dev/enginepbp/cmd"
	"nbapbp.dev/enginepbp/internal/echo"
)

// RootCmd is the root command for the enginepbp CLI.
var RootCmd = &cobra.Command{
	Use:   "enginepbp",
	Short: "NBA play-by-play engine toolkit",
	Long: echo.HeaderStyle().Render("Play-by-Play Engine") + "\n\n" +
		"Normalizes raw play-by-play rows into canonical events, splits\n" +
		"possessions, and serves both over HTTP.",
}

func init() {
	RootCmd.AddCommand(cmd.IngestCmd())
	RootCmd.AddCommand(cmd.MigrateCmd())
	RootCmd.AddCommand(cmd.ServeCmd())
	RootCmd.AddCommand(cmd.CacheCmd())
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

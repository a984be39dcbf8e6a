package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const serviceName = "contentmaestro"

var (
	// Global flags
	logLevel string
	envFile  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "contentmaestro",
	Short: "ContentMaestro API - writer profiles and content projects",
	Long: `ContentMaestro serves the writer-profile library, the profile creation
wizard, content projects and the dashboard over a JSON API.

Configuration is read from the environment (and a .env file when present).`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load this env file before reading configuration")
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	verbose    bool
	cookieFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ypscraper",
	Short: "Download YouTube community posts as JSON",
	Long: `ypscraper collects the community posts of one or more YouTube channels
and stores them as JSON files, one file per channel.

Features:
  - No account or API key required
  - Automatic EU consent handling with a cached cookie
  - Concurrent scraping of multiple channels
  - Incremental updates that merge new posts into existing files
  - Progress tracking with an optional interactive UI`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is $HOME/.ypscraper.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&cookieFile, "cookie-file", "", "consent cookie cache file (default is $HOME/.ypscraper_cookie)")
}

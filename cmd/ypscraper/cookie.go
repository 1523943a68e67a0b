package main

import (
	"os"

	"github.com/spf13/cobra"
	"ypscraper/pkg/config"
	"ypscraper/pkg/logger"
	"ypscraper/pkg/ui"
	"ypscraper/pkg/youtube"
)

// cookieCmd groups the consent cookie cache maintenance commands
var cookieCmd = &cobra.Command{
	Use:   "cookie",
	Short: "Manage the cached consent cookie",
	Long: `Manage the consent cookie cache.

The first scrape negotiates a consent cookie and caches it in a file so
later runs can skip the consent flow. These commands reset or remove
that cache when the stored value has gone stale.`,
}

// cookieResetCmd represents the cookie reset command
var cookieResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Overwrite the cached cookie with the built-in default",
	RunE: func(cmd *cobra.Command, args []string) error {
		boot := cookieBootstrapper()
		if err := boot.ResetCache(); err != nil {
			ui.PrintError("Failed to reset cookie cache", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Cookie cache reset to built-in default")
		return nil
	},
}

// cookieDeleteCmd represents the cookie delete command
var cookieDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the cookie cache file",
	RunE: func(cmd *cobra.Command, args []string) error {
		boot := cookieBootstrapper()
		if err := boot.DeleteCache(); err != nil {
			ui.PrintError("Failed to delete cookie cache", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Cookie cache deleted")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cookieCmd)
	cookieCmd.AddCommand(cookieResetCmd)
	cookieCmd.AddCommand(cookieDeleteCmd)
}

func cookieBootstrapper() *youtube.Bootstrapper {
	flags := make(map[string]interface{})
	if cookieFile != "" {
		flags["cookie-file"] = cookieFile
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	log := logger.GetLogger()
	client := youtube.NewClient(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, log)
	return youtube.NewBootstrapper(client, cfg.Consent.CookieFile, cfg.Consent.DefaultCookie, log)
}

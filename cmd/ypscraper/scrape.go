package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"ypscraper/pkg/config"
	"ypscraper/pkg/logger"
	"ypscraper/pkg/scraper"
	"ypscraper/pkg/ui"
	"ypscraper/pkg/ui/tui"
	"ypscraper/pkg/youtube"
)

var (
	// Scrape command flags
	folderPath string
	reverse    bool
	update     bool
	limit      int
	useTUI     bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <channel-link>...",
	Short: "Download community posts from one or more channels",
	Long: `Download all community posts from the given channel links.

Each link is scraped concurrently and written to <channel>_posts.json in
the output folder. Posts are stored oldest first; pass --reverse for
newest first. With --update, new posts are merged into an existing file
and posts already on disk keep their original download metadata.`,
	Example: `  # Scrape a single channel
  ypscraper scrape https://www.youtube.com/@somechannel

  # Scrape several channels into a folder, newest posts first
  ypscraper scrape -f ./posts -r https://www.youtube.com/@one https://www.youtube.com/@two

  # Fetch only the 25 most recent posts and merge into the existing file
  ypscraper scrape -u -l 25 https://www.youtube.com/@somechannel`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runScrape(args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVarP(&folderPath, "folder-path", "f", "", "output folder for JSON files (default: current directory)")
	scrapeCmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "store posts newest first")
	scrapeCmd.Flags().BoolVarP(&update, "update", "u", false, "merge new posts into existing files")
	scrapeCmd.Flags().IntVarP(&limit, "limit", "l", 0, "stop after this many of the most recent posts (0 = all)")
	scrapeCmd.Flags().BoolVar(&useTUI, "tui", false, "use interactive terminal UI with real-time progress")
}

func runScrape(args []string) {
	links := make([]string, 0, len(args))
	for _, arg := range args {
		links = append(links, strings.TrimSpace(arg))
	}

	// Build flags map from command line
	flags := make(map[string]interface{})
	if folderPath != "" {
		flags["folder-path"] = folderPath
	}
	if reverse {
		flags["reverse"] = true
	}
	if update {
		flags["update"] = true
	}
	if limit > 0 {
		flags["limit"] = limit
	}
	if verbose {
		flags["verbose"] = true
	}
	if cookieFile != "" {
		flags["cookie-file"] = cookieFile
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logging.Verbose, cfg.Logging.File); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}
	log := logger.GetLogger()

	client := youtube.NewClient(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, log)
	boot := youtube.NewBootstrapper(client, cfg.Consent.CookieFile, cfg.Consent.DefaultCookie, log)
	client.SetConsentCookie(boot.Cookie())

	var results []scraper.Result
	if useTUI {
		board := tui.NewProgress()
		s, err := scraper.New(cfg, client, board, log)
		if err != nil {
			ui.PrintError("Failed to initialize scraper", err.Error())
			os.Exit(1)
		}
		done := make(chan struct{})
		go func() {
			defer close(done)
			results = s.Run(links)
			board.Quit()
		}()
		if err := board.Run(); err != nil {
			ui.PrintWarning("terminal UI exited: " + err.Error())
		}
		<-done
	} else {
		for _, link := range links {
			ui.PrintInfo("Target Channel", link)
		}
		s, err := scraper.New(cfg, client, ui.NewBoard(), log)
		if err != nil {
			ui.PrintError("Failed to initialize scraper", err.Error())
			os.Exit(1)
		}
		results = s.Run(links)
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			ui.PrintError(fmt.Sprintf("%s failed", res.Target.Name), res.Err.Error())
			continue
		}
		if update {
			ui.PrintSuccess(fmt.Sprintf("%s: %d posts (%d new)", res.Target.Name, len(res.Records), res.NewPosts))
		} else {
			ui.PrintSuccess(fmt.Sprintf("%s: %d posts", res.Target.Name, len(res.Records)))
		}
	}

	if failed > 0 {
		log.WithField("failed", failed).Error("some channels failed")
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pagefetch/pkg/config"
	"pagefetch/pkg/fetcher"
	"pagefetch/pkg/logger"
	"pagefetch/pkg/ui"
)

var (
	// Fetch command flags
	baseURL    string
	pagePrefix string
	startPage  int
	lastPage   int
	imageExt   string
	maxPerPage int
	outputDir  string
	delay      time.Duration
	timeout    time.Duration
	userAgent  string
	concurrent int
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch all images in the configured page range",
	Long: `Fetch images from every parent page in the configured range.

For each page N in [start, last] a directory "{prefix}_{N}" is created under
the output directory, and every image index M in [1, max-per-page] is probed
at "{base-url}/{prefix}_{N}/{M}{ext}". Images already on disk are skipped
without a network request. A 404 or other failure for one image never stops
the rest of the page; the full index range is always probed.

The process exits zero after exhausting the ranges regardless of individual
item failures; only configuration and filesystem setup errors are fatal.`,
	Example: `  # Fetch pages gallery_1 through gallery_40
  pagefetch fetch --base-url https://example.com/galleries --prefix gallery --start 1 --last 40

  # Probe up to 50 PNGs per page with a polite delay between requests
  pagefetch fetch --base-url https://example.com/g --prefix set --last 10 \
    --ext .png --max-per-page 50 --delay 200ms

  # Opt in to concurrent downloads (4 workers)
  pagefetch fetch --base-url https://example.com/g --prefix set --last 10 --concurrent 4`,
	Run: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&baseURL, "base-url", "", "base URL before the page segment (required unless configured)")
	fetchCmd.Flags().StringVar(&pagePrefix, "prefix", "", "parent page name prefix, forms prefix_1, prefix_2, ...")
	fetchCmd.Flags().IntVar(&startPage, "start", 0, "first page number (default 1)")
	fetchCmd.Flags().IntVar(&lastPage, "last", 0, "last page number")
	fetchCmd.Flags().StringVar(&imageExt, "ext", "", "image file extension including the dot (default .jpg)")
	fetchCmd.Flags().IntVar(&maxPerPage, "max-per-page", 0, "maximum image index probed per page (default 200)")
	fetchCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default ./downloads)")
	fetchCmd.Flags().DurationVar(&delay, "delay", 0, "fixed delay between requests (default 0, disabled)")
	fetchCmd.Flags().DurationVar(&timeout, "timeout", 0, "per-request timeout (default 10s)")
	fetchCmd.Flags().StringVar(&userAgent, "user-agent", "", "User-Agent header")
	fetchCmd.Flags().IntVar(&concurrent, "concurrent", 0, "number of concurrent downloads (default 1, sequential)")
}

func runFetch(cmd *cobra.Command, args []string) {
	// Build flags map from command line
	flags := make(map[string]interface{})
	if baseURL != "" {
		flags["base-url"] = baseURL
	}
	if pagePrefix != "" {
		flags["prefix"] = pagePrefix
	}
	if startPage > 0 {
		flags["start"] = startPage
	}
	if lastPage > 0 {
		flags["last"] = lastPage
	}
	if imageExt != "" {
		flags["ext"] = imageExt
	}
	if maxPerPage > 0 {
		flags["max-per-page"] = maxPerPage
	}
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if delay > 0 {
		flags["delay"] = delay
	}
	if timeout > 0 {
		flags["timeout"] = timeout
	}
	if userAgent != "" {
		flags["user-agent"] = userAgent
	}
	if concurrent > 0 {
		flags["concurrent"] = concurrent
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logging: %v", err)
		os.Exit(1)
	}
	log := logger.GetLogger()

	ui.PrintInfo("Source", fmt.Sprintf("%s/%s_{%d..%d}/{1..%d}%s",
		cfg.Source.BaseURL, cfg.Source.PagePrefix,
		cfg.Pages.StartPage, cfg.Pages.LastPage,
		cfg.Pages.MaxImagesPerPage, cfg.Source.ImageExt))
	ui.PrintInfo("Output", cfg.Output.Directory)

	f, err := fetcher.New(cfg, log)
	if err != nil {
		log.WithError(err).Error("setup failed")
		ui.PrintError("Setup failed: %v", err)
		os.Exit(1)
	}

	report, err := f.Run(cmd.Context())
	if err != nil {
		log.WithError(err).Error("fetch run aborted")
		ui.PrintError("Fetch run aborted: %v", err)
		os.Exit(1)
	}

	// Item failures are already logged; they do not affect the exit code.
	ui.PrintSuccess("Done in %s: %d pages, %d downloaded, %d skipped, %d failed",
		report.Duration.Round(time.Millisecond),
		report.Pages, report.Downloaded, report.Skipped, report.Failed)
}

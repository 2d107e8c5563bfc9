package fetcher

import (
	"bytes"
	"context"
	"sync"
	"time"

	"pagefetch/internal/downloader"
	"pagefetch/pkg/config"
	"pagefetch/pkg/gallery"
	"pagefetch/pkg/logger"
	"pagefetch/pkg/ratelimit"
	"pagefetch/pkg/storage"
	"pagefetch/pkg/ui"
)

// Fetcher walks the configured page and image ranges, downloading every
// image that is not already on disk. Per-item failures are logged and
// skipped; the run always completes after exhausting the ranges.
type Fetcher struct {
	client  ImageClient
	store   Store
	limiter ratelimit.Limiter
	cfg     *config.Config
	logger  logger.Logger
}

// Report summarizes one fetch run.
type Report struct {
	Pages      int
	Downloaded int
	Skipped    int
	Failed     int
	Duration   time.Duration
}

// New creates a Fetcher from the configuration. Setup errors (unwritable
// output root, invalid config) are returned here, before any network
// activity.
func New(cfg *config.Config, log logger.Logger) (*Fetcher, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := storage.NewManager(cfg.Output.Directory)
	if err != nil {
		return nil, err
	}

	return &Fetcher{
		client:  gallery.NewClient(cfg.Source, cfg.HTTP, log),
		store:   store,
		limiter: ratelimit.NewLimiter(cfg.HTTP.RequestDelay),
		cfg:     cfg,
		logger:  log,
	}, nil
}

// Run fetches all configured pages and returns a summary report. The only
// error it returns is context cancellation; item failures are counted in
// the report instead.
func (f *Fetcher) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	f.logger.InfoWithFields("starting fetch run", map[string]interface{}{
		"base_url":     f.cfg.Source.BaseURL,
		"page_prefix":  f.cfg.Source.PagePrefix,
		"start_page":   f.cfg.Pages.StartPage,
		"last_page":    f.cfg.Pages.LastPage,
		"max_per_page": f.cfg.Pages.MaxImagesPerPage,
		"output":       f.cfg.Output.Directory,
	})

	var report *Report
	var err error
	if f.cfg.Download.Concurrent > 1 {
		report, err = f.runConcurrent(ctx)
	} else {
		report, err = f.runSequential(ctx)
	}
	if report != nil {
		report.Duration = time.Since(start)
	}
	return report, err
}

// runSequential is the default execution mode: one request in flight at a
// time, pages and indexes visited in order.
func (f *Fetcher) runSequential(ctx context.Context) (*Report, error) {
	report := &Report{}

	for page := f.cfg.Pages.StartPage; page <= f.cfg.Pages.LastPage; page++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		segment := gallery.PageSegment(f.cfg.Source.PagePrefix, page)

		if err := f.store.EnsurePageDir(segment); err != nil {
			// The page cannot hold any files; skip it and keep going.
			f.logger.WithError(err).WithField("segment", segment).Error("failed to create page directory, skipping page")
			report.Failed += f.cfg.Pages.MaxImagesPerPage
			continue
		}
		report.Pages++

		bar := ui.NewPageBar(f.cfg.Pages.MaxImagesPerPage, segment)

		// The full index range is always probed: pages with sparse or
		// non-contiguous numbering still get every index attempted.
		for index := 1; index <= f.cfg.Pages.MaxImagesPerPage; index++ {
			if err := ctx.Err(); err != nil {
				ui.BarFinish(bar)
				return report, err
			}

			switch f.fetchItem(page, index, segment) {
			case itemDownloaded:
				report.Downloaded++
			case itemSkipped:
				report.Skipped++
			case itemFailed:
				report.Failed++
			}
			ui.BarAdd(bar, 1)
		}
		ui.BarFinish(bar)

		f.logger.DebugWithFields("page completed", map[string]interface{}{
			"segment": segment,
		})
	}

	f.logFinished(report)
	return report, nil
}

type itemOutcome int

const (
	itemDownloaded itemOutcome = iota
	itemSkipped
	itemFailed
)

// fetchItem handles one image item end to end. Every failure class is
// contained here; the caller only sees the outcome.
func (f *Fetcher) fetchItem(page, index int, segment string) itemOutcome {
	filename := gallery.ImageFilename(index, f.cfg.Source.ImageExt)

	// Existing files are never re-fetched, and never cost a request.
	if f.store.Exists(segment, filename) {
		f.logger.DebugWithFields("already downloaded, skipping", map[string]interface{}{
			"segment":  segment,
			"filename": filename,
		})
		return itemSkipped
	}

	f.limiter.Wait()

	url := f.client.ImageURL(page, index)
	data, err := f.client.FetchImage(url)
	if err != nil {
		f.logger.WarnWithFields("image fetch failed", map[string]interface{}{
			"segment":  segment,
			"filename": filename,
			"url":      url,
			"error":    err.Error(),
		})
		return itemFailed
	}

	if err := f.store.SaveImage(bytes.NewReader(data), segment, filename); err != nil {
		f.logger.ErrorWithFields("image save failed", map[string]interface{}{
			"segment":  segment,
			"filename": filename,
			"error":    err.Error(),
		})
		return itemFailed
	}

	f.logger.DebugWithFields("image downloaded", map[string]interface{}{
		"segment":  segment,
		"filename": filename,
		"size":     len(data),
	})
	return itemDownloaded
}

// runConcurrent distributes image items over a bounded worker pool. Counts
// match the sequential mode; ordering within a page does not.
func (f *Fetcher) runConcurrent(ctx context.Context) (*Report, error) {
	report := &Report{}

	pool := downloader.NewWorkerPool(
		f.cfg.Download.Concurrent,
		f.client,
		f.store,
		f.limiter,
		f.logger,
	)
	pool.Start()

	// Results are counted on a separate goroutine; the totals are merged
	// into the report only after the pool has drained.
	var downloaded, skipped, failed int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range pool.Results() {
			switch {
			case result.Skipped:
				skipped++
			case result.Success:
				downloaded++
			default:
				failed++
			}
		}
	}()

	for page := f.cfg.Pages.StartPage; page <= f.cfg.Pages.LastPage; page++ {
		if err := ctx.Err(); err != nil {
			pool.Stop()
			wg.Wait()
			report.Downloaded += downloaded
			report.Skipped += skipped
			report.Failed += failed
			return report, err
		}

		segment := gallery.PageSegment(f.cfg.Source.PagePrefix, page)

		if err := f.store.EnsurePageDir(segment); err != nil {
			f.logger.WithError(err).WithField("segment", segment).Error("failed to create page directory, skipping page")
			report.Failed += f.cfg.Pages.MaxImagesPerPage
			continue
		}
		report.Pages++

		for index := 1; index <= f.cfg.Pages.MaxImagesPerPage; index++ {
			filename := gallery.ImageFilename(index, f.cfg.Source.ImageExt)
			if f.store.Exists(segment, filename) {
				report.Skipped++
				continue
			}

			job := downloader.FetchJob{
				URL:      f.client.ImageURL(page, index),
				Segment:  segment,
				Filename: filename,
				Page:     page,
				Index:    index,
			}
			if err := pool.Submit(job); err != nil {
				f.logger.WithError(err).WithField("segment", segment).Error("failed to submit fetch job")
				report.Failed++
			}
		}
	}

	pool.Stop()
	wg.Wait()
	report.Downloaded += downloaded
	report.Skipped += skipped
	report.Failed += failed

	f.logFinished(report)
	return report, nil
}

func (f *Fetcher) logFinished(report *Report) {
	f.logger.InfoWithFields("fetch run completed", map[string]interface{}{
		"pages":      report.Pages,
		"downloaded": report.Downloaded,
		"skipped":    report.Skipped,
		"failed":     report.Failed,
	})
}

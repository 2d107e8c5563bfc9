// Package fetcher implements the sequential gallery fetch run.
//
// The Fetcher walks a configured range of parent pages and, within each
// page, probes sequential image indexes up to a per-page maximum. Each item
// maps one remote URL base/prefix_N/M.ext to one local file
// output/prefix_N/M.ext.
//
// Behavior guarantees:
//   - The per-page directory is created before any image of that page is saved.
//   - An image already present locally is never re-fetched; reruns are
//     idempotent and cost no requests for items already on disk.
//   - Per-item failures (network, HTTP status, filesystem write) are logged
//     and skipped; they never abort the page loop or the run.
//   - No retries: a failure is terminal for that single item.
//   - The full index range is always probed, so pages with sparse or
//     non-contiguous numbering are covered up to the configured maximum.
//
// The default mode is strictly sequential with at most one request in
// flight. Setting Download.Concurrent above 1 routes items through a
// bounded worker pool instead; counts are identical but ordering within a
// page is not guaranteed.
//
// Usage:
//
//	f, err := fetcher.New(cfg, logger.GetLogger())
//	if err != nil {
//	    log.Fatal(err) // setup error: bad config or unwritable output root
//	}
//	report, err := f.Run(ctx)
package fetcher

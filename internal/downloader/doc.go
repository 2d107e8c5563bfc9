// Package downloader provides a bounded worker pool for the opt-in
// concurrent download mode.
package downloader

package fetcher

import "io"

// ImageClient fetches image items from the remote gallery.
type ImageClient interface {
	// ImageURL builds the remote URL for one image item.
	ImageURL(page, index int) string
	// FetchImage downloads a single image and returns its bytes.
	FetchImage(url string) ([]byte, error)
}

// Store persists downloaded images into the per-page output tree.
type Store interface {
	EnsurePageDir(segment string) error
	Exists(segment, filename string) bool
	SaveImage(r io.Reader, segment, filename string) error
}

package ui

import (
	"github.com/schollz/progressbar/v3"
)

// NewPageBar creates a progress bar for probing one parent page. It returns
// nil in quiet mode; callers must tolerate a nil bar.
func NewPageBar(max int, description string) *progressbar.ProgressBar {
	if IsQuietMode() {
		return nil
	}
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// BarAdd advances a page bar, tolerating nil bars from quiet mode.
func BarAdd(bar *progressbar.ProgressBar, n int) {
	if bar != nil {
		_ = bar.Add(n)
	}
}

// BarFinish completes and clears a page bar.
func BarFinish(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Finish()
	}
}

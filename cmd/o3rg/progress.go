package o3rg

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// progressBar wraps a progressbar that is advanced from worker goroutines.
type progressBar struct {
	bar *progressbar.ProgressBar
}

func newProgressBar(w io.Writer, total int) *progressBar {
	return &progressBar{bar: progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Searching files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionClearOnFinish(),
	)}
}

// Add advances the bar by one file.
func (p *progressBar) Add() {
	_ = p.bar.Add(1)
}

// Finish completes the bar and clears it from the terminal.
func (p *progressBar) Finish() {
	_ = p.bar.Finish()
}

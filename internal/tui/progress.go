package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
)

// ProgressBar wraps the bubbles progress bar for static rendering.
type ProgressBar struct {
	bar   progress.Model
	width int
}

// NewProgressBar creates a progress bar. NO_COLOR gets a solid fill.
func NewProgressBar(width int) *ProgressBar {
	var bar progress.Model
	if HasColorSupport() {
		bar = progress.New(
			progress.WithWidth(width),
			progress.WithScaledGradient("#0087AF", "#00D7FF"),
		)
	} else {
		bar = progress.New(
			progress.WithWidth(width),
			progress.WithSolidFill("#808080"),
		)
	}
	return &ProgressBar{bar: bar, width: width}
}

// Render returns the bar for percent (clamped to 0.0-1.0) without animation.
func (pb *ProgressBar) Render(percent float64) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 1 {
		percent = 1
	}
	return pb.bar.ViewAs(percent)
}

// Width returns the current width of the progress bar.
func (pb *ProgressBar) Width() int {
	return pb.width
}

// FormatBytes renders n with a binary unit: "512 B", "1.5 KiB", "12.0 MiB".
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// DownloadDetail renders the download step detail. total <= 0 means the
// server sent no Content-Length, so only the running count is shown.
func DownloadDetail(pb *ProgressBar, filename string, written, total int64) string {
	if total <= 0 {
		return fmt.Sprintf("%s %s", filename, FormatBytes(written))
	}
	percent := float64(written) / float64(total)
	return fmt.Sprintf("%s %s %3.0f%%", filename, pb.Render(percent), percent*100)
}

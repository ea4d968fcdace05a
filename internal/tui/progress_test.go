package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       int64
		expected string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
		{3 * 1024 * 1024 * 1024, "3.0 GiB"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, FormatBytes(tc.in))
	}
}

func TestProgressBar_RenderClamps(t *testing.T) {
	t.Parallel()

	pb := NewProgressBar(20)
	assert.Equal(t, 20, pb.Width())
	assert.Equal(t, pb.Render(0), pb.Render(-1))
	assert.Equal(t, pb.Render(1), pb.Render(2))
	assert.NotEqual(t, pb.Render(0), pb.Render(1))
}

func TestDownloadDetail(t *testing.T) {
	t.Parallel()

	pb := NewProgressBar(10)
	assert.Equal(t, "t.zip 2.0 KiB", DownloadDetail(pb, "t.zip", 2048, 0))
	assert.Contains(t, DownloadDetail(pb, "t.zip", 50, 100), " 50%")
	assert.Contains(t, DownloadDetail(pb, "t.zip", 100, 100), "100%")
}

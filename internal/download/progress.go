package download

import "github.com/ytget/yt-downloader-api/internal/model"

// ProgressPercent computes floor(downloaded / total * 100) from a progress event.
// go-ytdlp already reports the size estimate as the total when the exact size
// is unknown. Without either the total is 1, so the stream reports 0 and then
// jumps. The result is clamped to 0..100.
func ProgressPercent(event model.ProgressEvent) int {
	total := event.TotalBytes
	if total <= 0 {
		total = 1
	}

	downloaded := event.DownloadedBytes
	if downloaded <= 0 {
		return 0
	}

	percent := downloaded * 100 / total
	if percent > 100 {
		return 100
	}
	return int(percent)
}

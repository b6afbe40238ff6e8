package model

// ProgressStatusDownloading is the progress event status emitted while bytes are transferred
const ProgressStatusDownloading = "downloading"

// ProgressEvent is one progress notification from the extraction service
type ProgressEvent struct {
	Status          string
	DownloadedBytes int64
	TotalBytes      int64 // 0 if unknown
}

// DownloadRequest describes one extraction+download+merge invocation
type DownloadRequest struct {
	URL         string
	Selector    string // format selection expression, e.g. "137+bestaudio/best"
	OutputPath  string // full output path of the merged file
	MergeFormat string // container the streams are merged into
}

package platform

// Package platform contains OS and external tooling glue: filesystem helpers for
// the download directory and the yt-dlp adapter that implements the extraction
// service contract (metadata-only extraction and download+merge with progress).

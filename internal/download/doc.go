package download

// Package download implements the job side of the service: an in-memory job
// registry with the process-wide download history, and the orchestrator that
// runs one background unit of work per download request on top of yt-dlp
// (via github.com/lrstanley/go-ytdlp), propagating progress into the registry.

package server

// Package server exposes the HTTP API:
//
//	GET  /info?url=<url>                 metadata and curated formats
//	POST /download?url=<url>&format_id=  enqueue a download, returns {job_id}
//	GET  /status/{job_id}                job status and progress
//	GET  /file/{filename}                raw bytes of a download directory entry
//	GET  /history                        completed filenames in completion order
//	GET  /healthz                        liveness
//	GET  /metrics                        Prometheus exposition, when enabled
//
// Cross-origin requests are allowed from any origin with any method and header.

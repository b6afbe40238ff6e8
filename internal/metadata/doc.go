package metadata

// Package metadata resolves a media URL into a short, client-ready list of
// formats: renditions are classified as video or audio, deduplicated, labeled
// and truncated while keeping the extraction service's ordering.

package model

// Package model defines domain data structures shared across the service:
// download jobs and their status enum, the typed job outcome, media metadata
// as returned by the extraction service, and the curated format descriptors
// returned to clients.

package model

// JobStatus represents the lifecycle state of a download job
type JobStatus string

const (
	// JobStatusDownloading means the job is registered and its background work is running
	JobStatusDownloading JobStatus = "downloading"

	// JobStatusDone means the file was downloaded and merged successfully
	JobStatusDone JobStatus = "done"

	// JobStatusError means the background work failed
	JobStatusError JobStatus = "error"

	// JobStatusNotFound is reported for identifiers the registry does not know
	JobStatusNotFound JobStatus = "not_found"
)

// String returns the string representation of JobStatus
func (js JobStatus) String() string {
	return string(js)
}

// IsActive returns true while the background work of the job is still running
func (js JobStatus) IsActive() bool {
	return js == JobStatusDownloading
}

// IsFinished returns true if the job reached a terminal state (done or error)
func (js JobStatus) IsFinished() bool {
	return js == JobStatusDone || js == JobStatusError
}

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// File extensions yt-dlp leaves behind for unfinished downloads
var (
	SkippedExtensions = []string{".part", ".ytdl"}
)

// ErrEmptyFile is returned when a download produced a zero-length file
var ErrEmptyFile = errors.New("file is empty")

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// OutputFilename returns the deterministic output filename for a job
func OutputFilename(jobID, container string) string {
	return jobID + "." + strings.TrimPrefix(container, ".")
}

// DownloadPath resolves a filename against the download directory.
// The name is not checked against completed jobs; any entry that exists is servable.
func DownloadPath(dir, filename string) string {
	return filepath.Join(dir, filename)
}

// CheckOutputFile verifies that a finished download exists and is not empty
func CheckOutputFile(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat output %s: %w", path, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("output %s is a directory", path)
	}
	if info.Size() == 0 {
		return 0, fmt.Errorf("output %s: %w", path, ErrEmptyFile)
	}
	return info.Size(), nil
}

// IsPartialFile reports whether filename is a temporary yt-dlp artifact
func IsPartialFile(filename string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

// IsServableName reports whether filename names a finished file directly
// inside the download directory. Names with separators, dot entries and
// partial downloads are rejected.
func IsServableName(filename string) bool {
	if filename == "" || filename == "." || filename == ".." {
		return false
	}
	if strings.ContainsAny(filename, `/\`) || filename != filepath.Base(filename) {
		return false
	}
	return !IsPartialFile(filename)
}

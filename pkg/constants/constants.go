// Package constants provides shared constants used throughout the stocktally codebase.
// This includes worker defaults, file permissions, and formatting values that should
// be consistent across the application.
package constants

import "time"

// Engine constants define defaults for the reconciliation pipeline
const (
	// DefaultWorkers is the number of item pipelines run concurrently
	// when no worker count is configured
	DefaultWorkers = 4

	// MaxWorkers is the upper bound for the configurable worker count
	MaxWorkers = 64

	// ChannelBufferSize is the default buffer size for channels
	ChannelBufferSize = 100
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format used in feeds and reports
	TimeFormatISO8601 = time.RFC3339

	// TimeFormatLog is the format used in log files
	TimeFormatLog = "2006-01-02 15:04:05.000"

	// TimeFormatFilename is the format used in generated filenames
	TimeFormatFilename = "20060102-150405"
)

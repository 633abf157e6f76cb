package constants_test

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sellsight/stocktally/pkg/constants"
)

// Example demonstrates using constants for common file operations
func Example() {
	dir, err := os.MkdirTemp("", "stocktally-example")
	if err != nil {
		panic(err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	// Create report file with standard permissions
	file := filepath.Join(dir, "report.json")
	data := []byte(`{"pass": true}`)
	if err := os.WriteFile(file, data, constants.FilePermissions); err != nil {
		panic(err)
	}

	fmt.Printf("Created dir with %o permissions\n", constants.DirPermissions)
	fmt.Printf("Created file with %o permissions\n", constants.FilePermissions)
	// Output:
	// Created dir with 755 permissions
	// Created file with 644 permissions
}

// Example_workers demonstrates concurrency constants
func Example_workers() {
	jobs := make(chan int, constants.ChannelBufferSize)
	results := make(chan int, constants.ChannelBufferSize)

	// Start workers up to the default limit
	for w := 0; w < constants.DefaultWorkers; w++ {
		go func() {
			for job := range jobs {
				results <- job * 2
			}
		}()
	}

	for i := 0; i < 20; i++ {
		jobs <- i
	}
	close(jobs)

	fmt.Printf("Processing with %d workers\n", constants.DefaultWorkers)
	// Output: Processing with 4 workers
}

// Example_timeFormats shows the shared time formats
func Example_timeFormats() {
	ts := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	fmt.Println(ts.Format(constants.TimeFormatISO8601))
	fmt.Println(ts.Format(constants.TimeFormatFilename))
	// Output:
	// 2025-03-14T09:30:00Z
	// 20250314-093000
}

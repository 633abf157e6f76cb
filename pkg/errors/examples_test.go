package errors_test

import (
	"fmt"

	"github.com/sellsight/stocktally/pkg/errors"
)

// Example demonstrates basic error creation and checking.
func Example() {
	// Create a not found error
	err := &errors.NotFoundError{
		Resource: "dictionary",
		ID:       "custom.yaml",
	}

	// Check error type
	if errors.IsNotFound(err) {
		fmt.Println("Resource not found")
	}

	// Output: Resource not found
}

// Example_validationError shows input validation errors.
func Example_validationError() {
	// Validate an option value
	workers := 0
	if workers < 1 {
		err := &errors.ValidationError{
			Field:   "workers",
			Value:   workers,
			Message: "worker count must be positive",
		}
		fmt.Println(err.Error())
	}

	// Output: validation failed for field workers: worker count must be positive
}

// Example_errorWrapping demonstrates error wrapping patterns.
func Example_errorWrapping() {
	// Original error
	originalErr := fmt.Errorf("no such file or directory")

	// Wrap with IO error
	ioErr := errors.WrapIO("open", "stocks.json", originalErr)

	// Wrap with reconcile stage context
	recErr := errors.WrapReconcile("load-stocks", "stocks.json", ioErr)

	fmt.Println(recErr.Error())

	// Output: reconcile failed during load-stocks (stocks.json): IO error during open of stocks.json: no such file or directory
}

// Example_errorChaining shows chained error handling.
func Example_errorChaining() {
	// Create a chain of errors
	baseErr := &errors.NotFoundError{
		Resource: "dictionary",
		ID:       "warehouses.yaml",
	}

	parseErr := &errors.ParseError{
		Format:  "yaml",
		File:    "warehouses.yaml",
		Message: "failed to load dictionary",
		Err:     baseErr,
	}

	// Check through the chain using the helper
	if errors.IsNotFound(parseErr) {
		fmt.Println("Dictionary not found in parse chain")
	}

	// Output: Dictionary not found in parse chain
}

// Example_configError demonstrates construction-time errors.
func Example_configError() {
	// A dictionary with two entries claiming the same variant
	err := errors.NewConfigError(
		"dictionary",
		`variant "tula" claimed by both Tula and Tula Hub`,
		errors.ErrAlreadyExists,
	)

	if errors.IsAlreadyExists(err) {
		fmt.Println("Conflicting dictionary entries")
	}

	// Output: Conflicting dictionary entries
}

package stocktally

import (
	"fmt"

	"github.com/sellsight/stocktally/pkg/constants"
	"github.com/sellsight/stocktally/pkg/errors"
	"github.com/sellsight/stocktally/pkg/warehouses"
)

// Option is a function that configures an Engine instance.
type Option func(*config) error

// config holds engine construction settings.
type config struct {
	dictionary *warehouses.Dictionary
	workers    int
}

func defaultConfig() *config {
	return &config{
		workers: constants.DefaultWorkers,
	}
}

// WithDictionary configures a custom warehouse dictionary instead of the
// embedded default. The dictionary is validated before being accepted.
func WithDictionary(d *warehouses.Dictionary) Option {
	return func(c *config) error {
		if d == nil {
			return errors.NewValidationError("dictionary", nil, "dictionary must not be nil")
		}
		if err := d.Validate(); err != nil {
			return err
		}
		c.dictionary = d
		return nil
	}
}

// WithWorkers configures how many item partitions are rolled up in
// parallel. The result never depends on the worker count.
func WithWorkers(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return errors.NewValidationError("workers", n, "worker count must be positive")
		}
		if n > constants.MaxWorkers {
			return errors.NewValidationError("workers", n,
				fmt.Sprintf("worker count must not exceed %d", constants.MaxWorkers))
		}
		c.workers = n
		return nil
	}
}

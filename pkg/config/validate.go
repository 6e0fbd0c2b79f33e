package config

import (
	"errors"
	"fmt"
)

// ErrInvalid marks a config whose values contradict each other.
var ErrInvalid = errors.New("invalid config")

// Validate repairs out-of-range values in place and reports what it changed.
// The returned error wraps ErrInvalid; the config is usable either way.
func (c *Config) Validate() error {
	var problems []error
	defaults := DefaultConfig()

	if c.Server.MaxLimit < 1 {
		problems = append(problems, fmt.Errorf("server.max_limit %d < 1", c.Server.MaxLimit))
		c.Server.MaxLimit = defaults.Server.MaxLimit
	}
	if c.Server.DefaultLimit < 1 || c.Server.DefaultLimit > c.Server.MaxLimit {
		problems = append(problems, fmt.Errorf("server.default_limit %d outside [1, %d]", c.Server.DefaultLimit, c.Server.MaxLimit))
		c.Server.DefaultLimit = min(defaults.Server.DefaultLimit, c.Server.MaxLimit)
	}
	if c.Server.MaxQuery < 1 {
		problems = append(problems, fmt.Errorf("server.max_query %d < 1", c.Server.MaxQuery))
		c.Server.MaxQuery = defaults.Server.MaxQuery
	}
	if c.Server.MinQuery < 0 || c.Server.MinQuery > c.Server.MaxQuery {
		problems = append(problems, fmt.Errorf("server.min_query %d outside [0, %d]", c.Server.MinQuery, c.Server.MaxQuery))
		c.Server.MinQuery = 0
	}
	if c.Index.CacheSize < 0 {
		problems = append(problems, fmt.Errorf("index.cache_size %d < 0", c.Index.CacheSize))
		c.Index.CacheSize = 0
	}
	if c.Index.MaxTitleLength < 0 {
		problems = append(problems, fmt.Errorf("index.max_title_length %d < 0", c.Index.MaxTitleLength))
		c.Index.MaxTitleLength = 0
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(problems...))
}

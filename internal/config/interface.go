package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given paths, applied in order on top
	// of base, and returns the merged model. base is not modified.
	Load(ctx context.Context, base *Model, paths ...string) (*Model, error)
}

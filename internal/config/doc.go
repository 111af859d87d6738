// Package config defines the format-agnostic configuration model of a run,
// along with the Loader interface for reading it from a source.
//
// The config.Model is the single source of truth for the app package.
// Concrete loaders, such as the HCL one, are provided in separate packages.
package config

package main

import "fmt"

// ConfigurationError reports a parameter set that cannot produce valid geometry.
type ConfigurationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s (%g): %s", e.Field, e.Value, e.Reason)
}

// DependencyUnavailableError reports that an external collaborator
// (a browser for rasterization, typically) is missing.
type DependencyUnavailableError struct {
	Dependency string
	Err        error
}

func (e *DependencyUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s is not available", e.Dependency)
	}
	return fmt.Sprintf("%s is not available: %v", e.Dependency, e.Err)
}

func (e *DependencyUnavailableError) Unwrap() error {
	return e.Err
}

package secretstore

import "fmt"

// ConfigurationError is returned when the verify token cannot be loaded.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("verify token %q unavailable: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

const errEmptySecret = constError("verify token file is empty")

type constError string

func (e constError) Error() string {
	return string(e)
}

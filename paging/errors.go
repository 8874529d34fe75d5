package paging

import (
	"errors"
	"fmt"
)

// Configuration errors. They are returned wrapped in a *ConfigError.
var (
	ErrInvalidFrameCount = errors.New("frame count must be at least 1")
	ErrNilStrategy       = errors.New("strategy must not be nil")
	ErrEmptyPage         = errors.New("reference must not be the empty page")
	ErrUnknownAlgorithm  = errors.New("unknown algorithm")
	ErrInvalidFrameRange = errors.New("invalid frame range")
)

// Strategy invariant violations. The simulator panics with these, since they
// can only be raised by a broken Strategy.
var (
	ErrNoVictim          = errors.New("no victim among resident pages")
	ErrVictimNotResident = errors.New("victim is not resident")
)

// A ConfigError reports a simulation that was rejected before it started.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError tells if err was caused by a bad simulation configuration.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

func configError(op string, err error) error {
	return &ConfigError{Op: op, Err: err}
}

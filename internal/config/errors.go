package config

import (
	"errors"
	"fmt"
)

// Sentinel errors. Load wraps every failure with one of them.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")

	// ErrUnknownDriver is an ErrInvalidConfig naming an unsupported store_driver.
	ErrUnknownDriver = fmt.Errorf("%w: unknown store_driver", ErrInvalidConfig)
)

package gitconfig

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKey indicates a config key missing section or key name.
	ErrInvalidKey = errors.New("invalid key")
	// ErrUnknownScope indicates a scope identifier that is not local, global or system.
	ErrUnknownScope = errors.New("unknown scope")
	// ErrNoPath indicates the path of a scope could not be determined
	// (e.g. no home directory for the global scope).
	ErrNoPath = errors.New("unable to resolve config path")
	// ErrParse indicates malformed config file content.
	ErrParse = errors.New("malformed config")
	// ErrCreateConfigDir indicates a config directory could not be created.
	ErrCreateConfigDir = errors.New("failed to create config directory")
	// ErrCreateConfigFile indicates an empty config file could not be created.
	ErrCreateConfigFile = errors.New("failed to create config file")
	// ErrWriteConfig indicates a config file could not be written.
	ErrWriteConfig = errors.New("failed to write config")
	// ErrKeyNotFound indicates a key that is not set in the consulted scopes.
	ErrKeyNotFound = errors.New("key not found")
	// ErrInvalidValue indicates a value that does not fit the known type of a key.
	ErrInvalidValue = errors.New("invalid value")
)

// OpenError is returned when a config store could not be opened, parsed or
// written.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to open git config: %s", e.Err)
	}

	return fmt.Sprintf("failed to open git config %s: %s", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// IoError is returned when the backing file of a store (or its parent
// directory) could not be created.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("io error: %s: %s", e.Path, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

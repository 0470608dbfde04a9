package service

import (
	"errors"
	"fmt"
)

// ErrStorageUnavailable marks failures coming from the storage layer so
// handlers can answer 503 instead of a generic 500. The underlying cause
// stays in the wrapped message for logs.
var ErrStorageUnavailable = errors.New("storage unavailable")

// ErrNotFound is returned when a requested resource does not exist
var ErrNotFound = errors.New("resource not found")

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

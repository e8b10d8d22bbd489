package service

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when a request carries no trips.
var ErrNoData = errors.New("No data provided")

// StoreWriteError reports a failed save. Nothing is considered persisted.
type StoreWriteError struct {
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("failed to save trips: %v", e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

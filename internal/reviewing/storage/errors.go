package storage

import (
	"errors"
)

// ErrNoID indicates that the passed in review has not been constructed and has no ID.
var ErrNoID = errors.New("can't store review because ID is not set")

func checkID(id string) error {
	if id == "" {
		return ErrNoID
	}

	return nil
}

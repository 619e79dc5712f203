package reviewing

import (
	"errors"
	"strings"
)

// Kind says what sort of failure a use case ran into, so callers can react differently
// to bad input, conflicts, and a broken storage.
type Kind int

const (
	KindValidationFailed Kind = iota + 1
	KindConflictExists
	KindNotFound
	KindStorageUnavailable
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidationFailed:
		return "validation_failed"
	case KindConflictExists:
		return "conflict_exists"
	case KindNotFound:
		return "not_found"
	case KindStorageUnavailable:
		return "storage_unavailable"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Failure is the only error type returned from the Service.
// Messages are meant to be shown to whoever made the request.
type Failure struct {
	Kind     Kind
	Messages []string
	Err      error
}

func (f *Failure) Error() string {
	return f.Kind.String() + ": " + strings.Join(f.Messages, ", ")
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure returns the *Failure in err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	ok := errors.As(err, &f)
	return f, ok
}

// failureFrom converts any error into a *Failure.
// Domain errors keep their messages, anything else is treated as the storage having failed.
func failureFrom(err error) *Failure {
	if f, ok := AsFailure(err); ok {
		return f
	}

	var invalid *InvalidReviewError
	if errors.As(err, &invalid) {
		return &Failure{Kind: KindValidationFailed, Messages: invalid.Messages, Err: err}
	}

	var content *ContentError
	if errors.As(err, &content) {
		return &Failure{Kind: KindValidationFailed, Messages: content.Messages, Err: err}
	}

	return &Failure{Kind: KindStorageUnavailable, Messages: []string{err.Error()}, Err: err}
}

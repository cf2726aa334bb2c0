package grades

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("record not found")
)

// ValidationError reports a numeric or label input outside its allowed domain.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports an operation on a position that holds no record.
type NotFoundError struct {
	ID  RecordID
	Len int
}

func (e *NotFoundError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("no record with id %d (store is empty)", e.ID)
	}
	return fmt.Sprintf("no record with id %d (valid ids are 0..%d)", e.ID, e.Len-1)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

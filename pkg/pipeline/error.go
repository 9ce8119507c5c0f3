package pipeline

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/openshift/loki-manifests/lib/node"
)

const (
	ReasonTransform  = "TransformError"
	ReasonValidation = "ValidationError"
	ReasonState      = "InvalidStateError"
)

// Error is a wrapper for errors that end a pipeline run.
type Error struct {
	Nested  error
	Reason  string
	Message string
	// Step names the transform or validator which failed.
	Step string
	// Resource identifies the resource being processed.
	Resource string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Cause() error {
	return e.Nested
}

func (e *Error) Unwrap() error {
	return e.Nested
}

func newStepError(reason, step string, r node.Resource, err error) *Error {
	return &Error{
		Nested:   err,
		Reason:   reason,
		Step:     step,
		Resource: r.String(),
		Message:  fmt.Sprintf("%s on %s: %s", step, r, messageForError(err)),
	}
}

// messageForError renders the underlying cause of err, dropping the
// validator prefix already carried by the wrapping Error.
func messageForError(err error) string {
	var verr *node.ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("%s: %v", verr.Object, verr.Nested)
	}
	var mismatch *node.TypeMismatchError
	if errors.As(err, &mismatch) {
		return fmt.Sprintf("rewrite returned %s where %s was expected", mismatch.Got, mismatch.Expected)
	}
	return err.Error()
}

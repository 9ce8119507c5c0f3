package node

import "fmt"

// TypeMismatchError is returned when a rewrite function replaces a node with
// a value that does not narrow back to the node's own type.
type TypeMismatchError struct {
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("unexpected node type %s, wanted %s", e.Got, e.Expected)
}

// ValidationError reports a failed check on a matched node.
type ValidationError struct {
	// Validator is the name the validator was registered with.
	Validator string
	// Object describes the node which failed.
	Object string
	Nested error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation %q failed for %s: %v", e.Validator, e.Object, e.Nested)
}

func (e *ValidationError) Cause() error {
	return e.Nested
}

func (e *ValidationError) Unwrap() error {
	return e.Nested
}

// UnsupportedResourceError is returned when an object is not one of the
// resource kinds a tree can be rooted at.
type UnsupportedResourceError struct {
	Type string
}

func (e *UnsupportedResourceError) Error() string {
	return fmt.Sprintf("unsupported resource type %s", e.Type)
}

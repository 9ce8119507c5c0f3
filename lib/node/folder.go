package node

import (
	"k8s.io/klog/v2"
)

// Lift turns a rewrite of one node type into a Func for whole trees. Nodes
// which do not narrow to A are returned unchanged. Combined with Fold this
// applies g to every A in a tree, however deeply nested.
func Lift[A Node](g func(A) (A, error)) Func {
	return func(o Object) (Object, error) {
		v, ok := Matches[A](o)
		if !ok {
			return o, nil
		}
		out, err := g(v)
		if err != nil {
			return o, err
		}
		return Wrap(out), nil
	}
}

// LiftFn is Lift for rewrites which cannot fail.
func LiftFn[A Node](g func(A) A) Func {
	return Lift(func(a A) (A, error) { return g(a), nil })
}

// Chain applies fns to the same node in order.
func Chain(fns ...Func) Func {
	return func(o Object) (Object, error) {
		var err error
		for _, fn := range fns {
			if o, err = fn(o); err != nil {
				return o, err
			}
		}
		return o, nil
	}
}

// Apply folds each of fns over x in order, one full traversal per function.
func Apply[T Node](x T, fns ...Func) (T, error) {
	var err error
	for _, fn := range fns {
		if x, err = Fold(x, fn); err != nil {
			return x, err
		}
	}
	return x, nil
}

// Validator is a read only check applied to every node of one type.
type Validator struct {
	Name string
	fn   Func
}

// NewValidator builds a validator running check against every A in a tree.
// Failures are reported as *ValidationError carrying name.
func NewValidator[A Node](name string, check func(*A) error) Validator {
	return Validator{
		Name: name,
		fn: func(o Object) (Object, error) {
			v, ok := Matches[A](o)
			if !ok {
				return o, nil
			}
			if err := check(&v); err != nil {
				return o, &ValidationError{Validator: name, Object: o.String(), Nested: err}
			}
			return o, nil
		},
	}
}

// Func returns the validator as a rewrite function which never changes a
// node.
func (v Validator) Func() Func {
	return v.fn
}

// Check runs validators against the tree rooted at x, in order. It stops at
// the first failure.
func Check[T Node](x T, validators ...Validator) error {
	for _, v := range validators {
		if v.fn == nil {
			continue
		}
		klog.V(4).Infof("running validator %q", v.Name)
		if _, err := Fold(x, v.fn); err != nil {
			return err
		}
	}
	return nil
}

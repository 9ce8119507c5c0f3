// Package node models a manifest as a tree of typed Kubernetes fragments and
// rewrites it generically.
//
// Object is a closed union over the fragment types listed by Node. Matches
// narrows an Object back to one of them. Fold walks a tree depth first,
// children before parents, handing every node to a Func. Lift turns a
// function written against a single fragment type, for instance
// corev1.Container, into a Func, so
//
//	Fold(deployment, Lift(func(c corev1.Container) (corev1.Container, error) { ... }))
//
// rewrites every container of the deployment, init containers included.
// Validators are the read only counterpart.
package node

package node

import (
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Func rewrites a single node. It is applied to every node of a tree by Fold.
type Func func(Object) (Object, error)

// Identity returns every node unchanged.
func Identity(o Object) (Object, error) { return o, nil }

// Fold applies f to every node of the tree rooted at x, children first. The
// sub-fields of each node are folded in their declared order, the node is
// rebuilt around them and then handed to f. The result of f must narrow back
// to the type of the node it was given. The first error aborts the fold.
//
// x is deep copied first, so f may mutate the values it receives without
// affecting the caller's tree.
func Fold[T Node](x T, f Func) (T, error) {
	return fold(deepCopy(x), f)
}

// FoldObject folds the tree held by o.
func FoldObject(o Object, f Func) (Object, error) {
	switch o.kind {
	case KindResource:
		return foldObjectAs[Resource](o, f)
	case KindContainer:
		return foldObjectAs[corev1.Container](o, f)
	case KindObjectMeta:
		return foldObjectAs[metav1.ObjectMeta](o, f)
	case KindPod:
		return foldObjectAs[corev1.Pod](o, f)
	case KindPodTemplateSpec:
		return foldObjectAs[corev1.PodTemplateSpec](o, f)
	case KindPodSpec:
		return foldObjectAs[corev1.PodSpec](o, f)
	case KindVolume:
		return foldObjectAs[corev1.Volume](o, f)
	case KindAffinity:
		return foldObjectAs[corev1.Affinity](o, f)
	case KindDeploymentSpec:
		return foldObjectAs[appsv1.DeploymentSpec](o, f)
	case KindStatefulSetSpec:
		return foldObjectAs[appsv1.StatefulSetSpec](o, f)
	case KindServiceSpec:
		return foldObjectAs[corev1.ServiceSpec](o, f)
	}
	return o, nil
}

// FoldResource folds the tree held by r.
func FoldResource(r Resource, f Func) (Resource, error) {
	return Fold(r, f)
}

func foldObjectAs[T Node](o Object, f Func) (Object, error) {
	v, ok := Matches[T](o)
	if !ok {
		return o, &TypeMismatchError{Expected: typeName[T](), Got: valueTypeName(o)}
	}
	out, err := Fold(v, f)
	if err != nil {
		return o, err
	}
	return Wrap(out), nil
}

func fold[T Node](x T, f Func) (T, error) {
	var zero T

	// A Resource is not a node of its own: folding it folds the held kind,
	// which is then wrapped into the Resource variant when handed to f.
	if r, ok := any(x).(Resource); ok {
		out, err := foldHeld(r, f)
		if err != nil {
			return zero, err
		}
		return any(out).(T), nil
	}

	folded, err := foldFields(any(x), f)
	if err != nil {
		return zero, err
	}
	out, err := f(Wrap(folded.(T)))
	if err != nil {
		return zero, err
	}
	v, ok := Matches[T](out)
	if !ok {
		return zero, &TypeMismatchError{Expected: typeName[T](), Got: valueTypeName(out)}
	}
	return v, nil
}

func foldHeld(r Resource, f Func) (Resource, error) {
	switch v := r.value.(type) {
	case appsv1.Deployment:
		out, err := fold(v, f)
		return NewResource(out), err
	case appsv1.StatefulSet:
		out, err := fold(v, f)
		return NewResource(out), err
	case corev1.Service:
		out, err := fold(v, f)
		return NewResource(out), err
	case corev1.ConfigMap:
		out, err := fold(v, f)
		return NewResource(out), err
	}
	return r, &UnsupportedResourceError{Type: fmt.Sprintf("%T", r.value)}
}

// field folds one declared sub-field of a P in place.
type field[P any] func(p *P, f Func) error

func foldAll[P any](p P, f Func, fields ...field[P]) (any, error) {
	for _, fl := range fields {
		if err := fl(&p, f); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// value declares a sub-field which is always present.
func value[P any, C Node](at func(*P) *C) field[P] {
	return func(p *P, f Func) error {
		ptr := at(p)
		out, err := fold(*ptr, f)
		if err != nil {
			return err
		}
		*ptr = out
		return nil
	}
}

// optional declares a pointer sub-field. A nil pointer is left alone and f
// is not called for it.
func optional[P any, C Node](at func(*P) **C) field[P] {
	return func(p *P, f Func) error {
		ptr := at(p)
		if *ptr == nil {
			return nil
		}
		out, err := fold(**ptr, f)
		if err != nil {
			return err
		}
		*ptr = &out
		return nil
	}
}

// each declares a list sub-field whose elements are folded in order. A nil
// list stays nil.
func each[P any, C Node](at func(*P) *[]C) field[P] {
	return func(p *P, f Func) error {
		ptr := at(p)
		if *ptr == nil {
			return nil
		}
		out := make([]C, 0, len(*ptr))
		for _, c := range *ptr {
			folded, err := fold(c, f)
			if err != nil {
				return err
			}
			out = append(out, folded)
		}
		*ptr = out
		return nil
	}
}

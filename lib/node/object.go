package node

import (
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Node is the closed set of manifest fragment types which participate in
// traversal. Every member has exactly one Object variant; the resource kinds
// share the Resource variant.
type Node interface {
	Resource |
		appsv1.Deployment | appsv1.StatefulSet | corev1.Service | corev1.ConfigMap |
		corev1.Container | metav1.ObjectMeta | corev1.Pod | corev1.PodTemplateSpec |
		corev1.PodSpec | corev1.Volume | corev1.Affinity |
		appsv1.DeploymentSpec | appsv1.StatefulSetSpec | corev1.ServiceSpec
}

// Kind identifies the variant held by an Object.
type Kind string

const (
	KindInvalid         Kind = ""
	KindResource        Kind = "Resource"
	KindContainer       Kind = "Container"
	KindObjectMeta      Kind = "ObjectMeta"
	KindPod             Kind = "Pod"
	KindPodTemplateSpec Kind = "PodTemplateSpec"
	KindPodSpec         Kind = "PodSpec"
	KindVolume          Kind = "Volume"
	KindAffinity        Kind = "Affinity"
	KindDeploymentSpec  Kind = "DeploymentSpec"
	KindStatefulSetSpec Kind = "StatefulSetSpec"
	KindServiceSpec     Kind = "ServiceSpec"
)

// Object is a generic node of a manifest tree. The zero Object holds nothing
// and narrows to no type.
type Object struct {
	kind  Kind
	value any
}

// Wrap lifts a concrete node into an Object. Resource kinds are wrapped into
// the Resource variant.
func Wrap[T Node](v T) Object {
	switch x := any(v).(type) {
	case Resource:
		return Object{kind: KindResource, value: x}
	case appsv1.Deployment, appsv1.StatefulSet, corev1.Service, corev1.ConfigMap:
		return Object{kind: KindResource, value: Resource{kind: resourceKindOf(x), value: x}}
	case corev1.Container:
		return Object{kind: KindContainer, value: x}
	case metav1.ObjectMeta:
		return Object{kind: KindObjectMeta, value: x}
	case corev1.Pod:
		return Object{kind: KindPod, value: x}
	case corev1.PodTemplateSpec:
		return Object{kind: KindPodTemplateSpec, value: x}
	case corev1.PodSpec:
		return Object{kind: KindPodSpec, value: x}
	case corev1.Volume:
		return Object{kind: KindVolume, value: x}
	case corev1.Affinity:
		return Object{kind: KindAffinity, value: x}
	case appsv1.DeploymentSpec:
		return Object{kind: KindDeploymentSpec, value: x}
	case appsv1.StatefulSetSpec:
		return Object{kind: KindStatefulSetSpec, value: x}
	case corev1.ServiceSpec:
		return Object{kind: KindServiceSpec, value: x}
	}
	// unreachable: the Node constraint is exhaustive over the cases above.
	panic(fmt.Sprintf("node: %T is not a node type", v))
}

// Kind returns the variant held by o.
func (o Object) Kind() Kind { return o.kind }

// String describes the variant, including the resource kind and name when o
// wraps a resource.
func (o Object) String() string {
	if r, ok := o.value.(Resource); ok {
		return r.String()
	}
	if o.kind == KindInvalid {
		return "<invalid>"
	}
	return string(o.kind)
}

// Matches narrows o to A. It returns the wrapped value when the variant held
// by o is A, or when o wraps a resource of kind A.
func Matches[A Node](o Object) (A, bool) {
	if v, ok := o.value.(A); ok {
		return v, true
	}
	if r, ok := o.value.(Resource); ok {
		if v, ok := r.value.(A); ok {
			return v, true
		}
	}
	var zero A
	return zero, false
}

// typeName is used in error messages.
func typeName[T Node]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

// valueTypeName reports the concrete type carried by o, looking through the
// Resource variant.
func valueTypeName(o Object) string {
	if r, ok := o.value.(Resource); ok && r.value != nil {
		return fmt.Sprintf("%T", r.value)
	}
	if o.value == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", o.value)
}

package node

import (
	"fmt"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// ResourceKind identifies the top level kind held by a Resource.
type ResourceKind string

const (
	ResourceInvalid     ResourceKind = ""
	ResourceDeployment  ResourceKind = "Deployment"
	ResourceStatefulSet ResourceKind = "StatefulSet"
	ResourceService     ResourceKind = "Service"
	ResourceConfigMap   ResourceKind = "ConfigMap"
)

// Resource is an independently deployable manifest: a Deployment, a
// StatefulSet, a Service or a ConfigMap. Resources are what callers submit to
// and receive from a pipeline.
type Resource struct {
	kind  ResourceKind
	value any
}

// ResourceType is the set of kinds a Resource may hold.
type ResourceType interface {
	appsv1.Deployment | appsv1.StatefulSet | corev1.Service | corev1.ConfigMap
}

// NewResource wraps a top level object.
func NewResource[T ResourceType](v T) Resource {
	return Resource{kind: resourceKindOf(any(v)), value: v}
}

// ResourceFromObject converts a decoded runtime object into a Resource. It
// fails for kinds outside the Resource union and for nil objects.
func ResourceFromObject(obj runtime.Object) (Resource, error) {
	switch o := obj.(type) {
	case *appsv1.Deployment:
		if o == nil {
			break
		}
		return NewResource(*o), nil
	case *appsv1.StatefulSet:
		if o == nil {
			break
		}
		return NewResource(*o), nil
	case *corev1.Service:
		if o == nil {
			break
		}
		return NewResource(*o), nil
	case *corev1.ConfigMap:
		if o == nil {
			break
		}
		return NewResource(*o), nil
	}
	return Resource{}, &UnsupportedResourceError{Type: fmt.Sprintf("%T", obj)}
}

func resourceKindOf(v any) ResourceKind {
	switch v.(type) {
	case appsv1.Deployment:
		return ResourceDeployment
	case appsv1.StatefulSet:
		return ResourceStatefulSet
	case corev1.Service:
		return ResourceService
	case corev1.ConfigMap:
		return ResourceConfigMap
	}
	return ResourceInvalid
}

// Kind returns the kind held by r.
func (r Resource) Kind() ResourceKind { return r.kind }

// Meta returns the object metadata of the held resource.
func (r Resource) Meta() metav1.ObjectMeta {
	switch v := r.value.(type) {
	case appsv1.Deployment:
		return v.ObjectMeta
	case appsv1.StatefulSet:
		return v.ObjectMeta
	case corev1.Service:
		return v.ObjectMeta
	case corev1.ConfigMap:
		return v.ObjectMeta
	}
	return metav1.ObjectMeta{}
}

// Object returns a pointer to a copy of the held resource with its type meta
// populated, suitable for serialization.
func (r Resource) Object() runtime.Object {
	switch v := r.value.(type) {
	case appsv1.Deployment:
		out := v.DeepCopy()
		out.TypeMeta = metav1.TypeMeta{APIVersion: appsv1.SchemeGroupVersion.String(), Kind: "Deployment"}
		return out
	case appsv1.StatefulSet:
		out := v.DeepCopy()
		out.TypeMeta = metav1.TypeMeta{APIVersion: appsv1.SchemeGroupVersion.String(), Kind: "StatefulSet"}
		return out
	case corev1.Service:
		out := v.DeepCopy()
		out.TypeMeta = metav1.TypeMeta{APIVersion: corev1.SchemeGroupVersion.String(), Kind: "Service"}
		return out
	case corev1.ConfigMap:
		out := v.DeepCopy()
		out.TypeMeta = metav1.TypeMeta{APIVersion: corev1.SchemeGroupVersion.String(), Kind: "ConfigMap"}
		return out
	}
	return nil
}

// String identifies the resource as kind "namespace/name".
func (r Resource) String() string {
	m := r.Meta()
	kind := strings.ToLower(string(r.kind))
	if len(m.Namespace) == 0 {
		return fmt.Sprintf("%s %q", kind, m.Name)
	}
	return fmt.Sprintf("%s \"%s/%s\"", kind, m.Namespace, m.Name)
}

// As narrows r to one resource kind.
func As[T ResourceType](r Resource) (T, bool) {
	v, ok := r.value.(T)
	return v, ok
}

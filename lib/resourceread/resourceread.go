// Package resourceread reads supported objects from bytes.
package resourceread

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/serializer"

	"github.com/openshift/loki-manifests/lib/node"
)

var (
	scheme  = runtime.NewScheme()
	codecs  = serializer.NewCodecFactory(scheme)
	decoder runtime.Decoder
)

func init() {
	if err := appsv1.AddToScheme(scheme); err != nil {
		panic(err)
	}
	if err := corev1.AddToScheme(scheme); err != nil {
		panic(err)
	}
	decoder = codecs.UniversalDecoder(
		appsv1.SchemeGroupVersion,
		corev1.SchemeGroupVersion,
	)
}

// Read reads an object from bytes.
func Read(objBytes []byte) (runtime.Object, error) {
	return runtime.Decode(decoder, objBytes)
}

// ReadResource reads a resource a manifest tree can be rooted at. Objects
// of other kinds, including kinds outside the apps and core groups, fail
// with *node.UnsupportedResourceError.
func ReadResource(objBytes []byte) (node.Resource, error) {
	obj, err := Read(objBytes)
	if runtime.IsNotRegisteredError(err) {
		return node.Resource{}, &node.UnsupportedResourceError{Type: err.Error()}
	} else if err != nil {
		return node.Resource{}, err
	}
	return node.ResourceFromObject(obj)
}

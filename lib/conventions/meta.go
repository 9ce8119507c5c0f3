package conventions

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

var (
	ObjectMetaLabels = NewLens(
		func(m metav1.ObjectMeta) (map[string]string, bool) { return m.Labels, m.Labels != nil },
		func(m metav1.ObjectMeta, l map[string]string) metav1.ObjectMeta {
			m.Labels = l
			return m
		},
	)

	ObjectMetaAnnotations = NewLens(
		func(m metav1.ObjectMeta) (map[string]string, bool) { return m.Annotations, m.Annotations != nil },
		func(m metav1.ObjectMeta, a map[string]string) metav1.ObjectMeta {
			m.Annotations = a
			return m
		},
	)
)

// SetAnnotation returns a copy of annotations with key set to value. The
// input map is not modified.
func SetAnnotation(annotations map[string]string, key, value string) map[string]string {
	out := make(map[string]string, len(annotations)+1)
	for k, v := range annotations {
		out[k] = v
	}
	out[key] = value
	return out
}

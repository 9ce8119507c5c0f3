package conventions

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// NameLabel is the label key mirroring an object's name. It is used to
// select the pods of a component and for anti-affinity between them.
const NameLabel = "name"

// Name identifies a component. It is written both as metadata.name and as
// the NameLabel label.
type Name string

func (n Name) String() string { return string(n) }

// ObjectMetaName reads the NameLabel label, falling back to metadata.name,
// and writes both.
var ObjectMetaName = NewLens(
	func(m metav1.ObjectMeta) (Name, bool) {
		if v, ok := m.Labels[NameLabel]; ok {
			return Name(v), true
		}
		if len(m.Name) > 0 {
			return Name(m.Name), true
		}
		return "", false
	},
	func(m metav1.ObjectMeta, n Name) metav1.ObjectMeta {
		labels := make(map[string]string, len(m.Labels)+1)
		for k, v := range m.Labels {
			labels[k] = v
		}
		labels[NameLabel] = string(n)
		m.Labels = labels
		m.Name = string(n)
		return m
	},
)

// ContainerName is the name of a container. Containers carry no labels, so
// only the name field is written. An empty name is absent: writing "" clears
// it and Get reports it missing.
var ContainerName = NewLens(
	func(c corev1.Container) (Name, bool) {
		return Name(c.Name), len(c.Name) > 0
	},
	func(c corev1.Container, n Name) corev1.Container {
		c.Name = string(n)
		return c
	},
)

// MetaFor returns object metadata carrying n as name and name label.
func MetaFor(n Name) metav1.ObjectMeta {
	return ObjectMetaName.With(metav1.ObjectMeta{}, n)
}

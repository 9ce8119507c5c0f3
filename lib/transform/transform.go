// Package transform holds the rewrites commonly applied to manifest trees.
// Every function returns a node.Func reaching all matching nodes of a tree.
package transform

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/openshift/loki-manifests/lib/conventions"
	"github.com/openshift/loki-manifests/lib/node"
	"github.com/openshift/loki-manifests/lib/resourcemerge"
)

// DefaultImage sets image on every container which has none.
func DefaultImage(image string) node.Func {
	return node.LiftFn(func(c corev1.Container) corev1.Container {
		return conventions.ContainerImage.WithOr(c, func(s string) string { return s }, image)
	})
}

// SetTarget sets the target argument of the containers called name.
func SetTarget(name conventions.Name, t conventions.Target) node.Func {
	return node.LiftFn(func(c corev1.Container) corev1.Container {
		if n, ok := conventions.ContainerName.Get(c); !ok || n != name {
			return c
		}
		return conventions.ContainerTarget.With(c, t)
	})
}

// SelfAntiAffinity spreads the pods of every named pod template across
// nodes.
func SelfAntiAffinity() node.Func {
	return node.LiftFn(func(t corev1.PodTemplateSpec) corev1.PodTemplateSpec {
		return conventions.SelfAntiAffinity(conventions.TemplateName, conventions.TemplateAffinity, t)
	})
}

// MountConfig mounts every config map volume of a pod template into each of
// its containers.
func MountConfig() node.Func {
	return node.LiftFn(func(t corev1.PodTemplateSpec) corev1.PodTemplateSpec {
		vols, ok := conventions.TemplateVolumes.Get(t)
		if !ok {
			return t
		}
		var configs []corev1.Volume
		for _, v := range vols {
			if len(conventions.ConfigMapReferences([]corev1.Volume{v})) > 0 {
				configs = append(configs, v)
			}
		}
		spec, _ := conventions.TemplatePodSpec.Get(t)
		containers := make([]corev1.Container, 0, len(spec.Containers))
		for _, c := range spec.Containers {
			containers = append(containers, conventions.MountVolumes(configs, c))
		}
		return conventions.TemplatePodSpec.With(t, conventions.PodSpecContainers.With(spec, containers))
	})
}

// CommonMetadata merges required into the metadata of every resource, and
// its labels into every pod template. required.Name is ignored.
func CommonMetadata(required metav1.ObjectMeta) node.Func {
	required.Name = ""
	ensure := func(m metav1.ObjectMeta) metav1.ObjectMeta {
		modified := false
		resourcemerge.EnsureObjectMeta(&modified, &m, required)
		return m
	}
	templateLabels := metav1.ObjectMeta{Labels: required.Labels}
	return node.Chain(
		node.LiftFn(func(d appsv1.Deployment) appsv1.Deployment {
			return conventions.DeploymentObjectMeta.WithFn(d, ensure)
		}),
		node.LiftFn(func(s appsv1.StatefulSet) appsv1.StatefulSet {
			return conventions.StatefulSetObjectMeta.WithFn(s, ensure)
		}),
		node.LiftFn(func(s corev1.Service) corev1.Service {
			return conventions.ServiceObjectMeta.WithFn(s, ensure)
		}),
		node.LiftFn(func(c corev1.ConfigMap) corev1.ConfigMap {
			return conventions.ConfigMapObjectMeta.WithFn(c, ensure)
		}),
		node.LiftFn(func(t corev1.PodTemplateSpec) corev1.PodTemplateSpec {
			return conventions.TemplateObjectMeta.WithFn(t, func(m metav1.ObjectMeta) metav1.ObjectMeta {
				modified := false
				resourcemerge.EnsureObjectMeta(&modified, &m, templateLabels)
				return m
			})
		}),
	)
}

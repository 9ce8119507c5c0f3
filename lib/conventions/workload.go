package conventions

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Lenses from top level resources.
var (
	DeploymentObjectMeta = NewLens(
		present(func(d appsv1.Deployment) metav1.ObjectMeta { return d.ObjectMeta }),
		func(d appsv1.Deployment, m metav1.ObjectMeta) appsv1.Deployment {
			d.ObjectMeta = m
			return d
		},
	)
	DeploymentTemplate = NewLens(
		present(func(d appsv1.Deployment) corev1.PodTemplateSpec { return d.Spec.Template }),
		func(d appsv1.Deployment, t corev1.PodTemplateSpec) appsv1.Deployment {
			d.Spec.Template = t
			return d
		},
	)
	StatefulSetObjectMeta = NewLens(
		present(func(s appsv1.StatefulSet) metav1.ObjectMeta { return s.ObjectMeta }),
		func(s appsv1.StatefulSet, m metav1.ObjectMeta) appsv1.StatefulSet {
			s.ObjectMeta = m
			return s
		},
	)
	StatefulSetTemplate = NewLens(
		present(func(s appsv1.StatefulSet) corev1.PodTemplateSpec { return s.Spec.Template }),
		func(s appsv1.StatefulSet, t corev1.PodTemplateSpec) appsv1.StatefulSet {
			s.Spec.Template = t
			return s
		},
	)
	ServiceObjectMeta = NewLens(
		present(func(s corev1.Service) metav1.ObjectMeta { return s.ObjectMeta }),
		func(s corev1.Service, m metav1.ObjectMeta) corev1.Service {
			s.ObjectMeta = m
			return s
		},
	)
	ServiceSpec = NewLens(
		present(func(s corev1.Service) corev1.ServiceSpec { return s.Spec }),
		func(s corev1.Service, spec corev1.ServiceSpec) corev1.Service {
			s.Spec = spec
			return s
		},
	)
	ConfigMapObjectMeta = NewLens(
		present(func(c corev1.ConfigMap) metav1.ObjectMeta { return c.ObjectMeta }),
		func(c corev1.ConfigMap, m metav1.ObjectMeta) corev1.ConfigMap {
			c.ObjectMeta = m
			return c
		},
	)
)

// Lenses within pods.
var (
	TemplateObjectMeta = NewLens(
		present(func(t corev1.PodTemplateSpec) metav1.ObjectMeta { return t.ObjectMeta }),
		func(t corev1.PodTemplateSpec, m metav1.ObjectMeta) corev1.PodTemplateSpec {
			t.ObjectMeta = m
			return t
		},
	)
	TemplatePodSpec = NewLens(
		present(func(t corev1.PodTemplateSpec) corev1.PodSpec { return t.Spec }),
		func(t corev1.PodTemplateSpec, s corev1.PodSpec) corev1.PodTemplateSpec {
			t.Spec = s
			return t
		},
	)
	PodSpecAffinity = NewLens(
		func(s corev1.PodSpec) (corev1.Affinity, bool) {
			if s.Affinity == nil {
				return corev1.Affinity{}, false
			}
			return *s.Affinity, true
		},
		func(s corev1.PodSpec, a corev1.Affinity) corev1.PodSpec {
			s.Affinity = &a
			return s
		},
	)
	PodSpecVolumes = NewLens(
		func(s corev1.PodSpec) ([]corev1.Volume, bool) { return s.Volumes, s.Volumes != nil },
		func(s corev1.PodSpec, v []corev1.Volume) corev1.PodSpec {
			s.Volumes = v
			return s
		},
	)
	PodSpecContainers = NewLens(
		present(func(s corev1.PodSpec) []corev1.Container { return s.Containers }),
		func(s corev1.PodSpec, c []corev1.Container) corev1.PodSpec {
			s.Containers = c
			return s
		},
	)
	// ContainerImage treats an empty image as absent, so writing "" clears
	// the field and Get reports it missing.
	ContainerImage = NewLens(
		func(c corev1.Container) (string, bool) { return c.Image, len(c.Image) > 0 },
		func(c corev1.Container, image string) corev1.Container {
			c.Image = image
			return c
		},
	)
	ContainerVolumeMounts = NewLens(
		func(c corev1.Container) ([]corev1.VolumeMount, bool) { return c.VolumeMounts, c.VolumeMounts != nil },
		func(c corev1.Container, m []corev1.VolumeMount) corev1.Container {
			c.VolumeMounts = m
			return c
		},
	)
)

// Derived projections.
var (
	TemplateName     = Compose(TemplateObjectMeta, ObjectMetaName)
	TemplateAffinity = Compose(TemplatePodSpec, PodSpecAffinity)
	TemplateVolumes  = Compose(TemplatePodSpec, PodSpecVolumes)

	DeploymentName        = Compose(DeploymentTemplate, TemplateName)
	DeploymentAffinity    = Compose(DeploymentTemplate, TemplateAffinity)
	DeploymentVolumes     = Compose(DeploymentTemplate, TemplateVolumes)
	DeploymentAnnotations = Compose(Compose(DeploymentTemplate, TemplateObjectMeta), ObjectMetaAnnotations)

	StatefulSetName        = Compose(StatefulSetTemplate, TemplateName)
	StatefulSetAffinity    = Compose(StatefulSetTemplate, TemplateAffinity)
	StatefulSetVolumes     = Compose(StatefulSetTemplate, TemplateVolumes)
	StatefulSetAnnotations = Compose(Compose(StatefulSetTemplate, TemplateObjectMeta), ObjectMetaAnnotations)
)

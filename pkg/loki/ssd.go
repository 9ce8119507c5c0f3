// Package loki builds the Kubernetes resources of a Loki deployment in the
// simple scalable topology: a stateless read path and a stateful write path
// sharing one runtime configuration.
package loki

import (
	"github.com/pkg/errors"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/utils/ptr"

	"github.com/openshift/loki-manifests/lib/conventions"
	"github.com/openshift/loki-manifests/lib/node"
)

const (
	ReadName  conventions.Name = "read"
	WriteName conventions.Name = "write"

	// DataVolume is the claim template backing DataDir on the write path.
	DataVolume = "data"

	DefaultImage = "grafana/loki:main"
)

// SSD describes a simple scalable deployment.
type SSD struct {
	Image         string `json:"image,omitempty"`
	ReadReplicas  int32  `json:"readReplicas,omitempty"`
	WriteReplicas int32  `json:"writeReplicas,omitempty"`
	StorageSize   string `json:"storageSize,omitempty"`
	Namespace     string `json:"namespace,omitempty"`
}

// Default returns the topology rendered when nothing is configured.
func Default() SSD {
	return SSD{
		Image:         DefaultImage,
		ReadReplicas:  3,
		WriteReplicas: 3,
		StorageSize:   "10Gi",
	}
}

// Validate reports every invalid setting of s.
func (s SSD) Validate() field.ErrorList {
	errs := field.ErrorList{}
	if len(s.Image) == 0 {
		errs = append(errs, field.Required(field.NewPath("image"), "must specify an image"))
	}
	if s.ReadReplicas <= 0 {
		errs = append(errs, field.Invalid(field.NewPath("readReplicas"), s.ReadReplicas, "must be positive"))
	}
	if s.WriteReplicas <= 0 {
		errs = append(errs, field.Invalid(field.NewPath("writeReplicas"), s.WriteReplicas, "must be positive"))
	}
	if q, err := resource.ParseQuantity(s.StorageSize); err != nil {
		errs = append(errs, field.Invalid(field.NewPath("storageSize"), s.StorageSize, err.Error()))
	} else if q.Sign() <= 0 {
		errs = append(errs, field.Invalid(field.NewPath("storageSize"), s.StorageSize, "must be positive"))
	}
	return errs
}

// Resources returns the resources of the topology in emission order. Pod
// templates carry their targets and config volume but neither images,
// mounts, anti-affinity nor config hashes: those are added by Transforms.
func (s SSD) Resources() ([]node.Resource, error) {
	if err := s.Validate().ToAggregate(); err != nil {
		return nil, errors.Wrap(err, "invalid topology")
	}
	cm, err := s.ConfigMap()
	if err != nil {
		return nil, errors.Wrap(err, "failed to render the runtime configuration")
	}
	write, err := s.WriteStatefulSet()
	if err != nil {
		return nil, err
	}
	return []node.Resource{
		node.NewResource(cm),
		node.NewResource(ClusterIP(ReadName)),
		node.NewResource(s.ReadDeployment()),
		node.NewResource(ClusterIP(WriteName)),
		node.NewResource(Discovery(WriteName)),
		node.NewResource(write),
	}, nil
}

// lokiContainer runs the component name with target t.
func lokiContainer(name conventions.Name, t conventions.Target) corev1.Container {
	c := corev1.Container{
		Args:  []string{"-config.file=" + conventions.MountPath(string(ConfigName)) + "/" + ConfigKey},
		Ports: containerPorts(),
		ReadinessProbe: &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{HTTPGet: &corev1.HTTPGetAction{
				Path: "/ready",
				Port: intstr.FromString("http-metrics"),
			}},
			InitialDelaySeconds: 15,
			TimeoutSeconds:      1,
		},
	}
	c = conventions.ContainerName.With(c, name)
	return conventions.ContainerTarget.With(c, t)
}

func podTemplate(name conventions.Name, t conventions.Target) corev1.PodTemplateSpec {
	return corev1.PodTemplateSpec{
		ObjectMeta: conventions.MetaFor(name),
		Spec: corev1.PodSpec{
			Containers: []corev1.Container{lokiContainer(name, t)},
			Volumes:    []corev1.Volume{conventions.ConfigMapVolume(string(ConfigName))},
		},
	}
}

// ReadDeployment is the stateless read path.
func (s SSD) ReadDeployment() appsv1.Deployment {
	maxUnavailable := intstr.FromString("10%")
	return appsv1.Deployment{
		ObjectMeta: conventions.MetaFor(ReadName),
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(s.ReadReplicas),
			Selector: conventions.Selector(ReadName),
			Strategy: appsv1.DeploymentStrategy{
				Type: appsv1.RollingUpdateDeploymentStrategyType,
				RollingUpdate: &appsv1.RollingUpdateDeployment{
					MaxUnavailable: &maxUnavailable,
				},
			},
			Template: podTemplate(ReadName, conventions.Target(ReadName)),
		},
	}
}

// WriteStatefulSet is the write path. Each member keeps its data on its
// own claim and is addressed through the discovery service.
func (s SSD) WriteStatefulSet() (appsv1.StatefulSet, error) {
	size, err := resource.ParseQuantity(s.StorageSize)
	if err != nil {
		return appsv1.StatefulSet{}, errors.Wrapf(err, "invalid storage size %q", s.StorageSize)
	}
	template := podTemplate(WriteName, conventions.Target(WriteName))
	template.Spec.Containers[0].VolumeMounts = []corev1.VolumeMount{{Name: DataVolume, MountPath: DataDir}}
	return appsv1.StatefulSet{
		ObjectMeta: conventions.MetaFor(WriteName),
		Spec: appsv1.StatefulSetSpec{
			Replicas:            ptr.To(s.WriteReplicas),
			Selector:            conventions.Selector(WriteName),
			ServiceName:         string(discoveryName(WriteName)),
			PodManagementPolicy: appsv1.ParallelPodManagement,
			Template:            template,
			VolumeClaimTemplates: []corev1.PersistentVolumeClaim{{
				ObjectMeta: metav1.ObjectMeta{Name: DataVolume},
				Spec: corev1.PersistentVolumeClaimSpec{
					AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
					Resources: corev1.VolumeResourceRequirements{
						Requests: corev1.ResourceList{corev1.ResourceStorage: size},
					},
				},
			}},
		},
	}, nil
}

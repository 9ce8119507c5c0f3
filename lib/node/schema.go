package node

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// foldFields folds the foldable sub-fields of x. This is the single place
// declaring which fields of each node type are descended into, and in which
// order. Types without an entry are leaves.
func foldFields(x any, f Func) (any, error) {
	switch v := x.(type) {
	case appsv1.Deployment:
		return foldAll(v, f,
			value(func(d *appsv1.Deployment) *metav1.ObjectMeta { return &d.ObjectMeta }),
			value(func(d *appsv1.Deployment) *appsv1.DeploymentSpec { return &d.Spec }),
		)
	case appsv1.StatefulSet:
		return foldAll(v, f,
			value(func(s *appsv1.StatefulSet) *metav1.ObjectMeta { return &s.ObjectMeta }),
			value(func(s *appsv1.StatefulSet) *appsv1.StatefulSetSpec { return &s.Spec }),
		)
	case corev1.Service:
		return foldAll(v, f,
			value(func(s *corev1.Service) *metav1.ObjectMeta { return &s.ObjectMeta }),
			value(func(s *corev1.Service) *corev1.ServiceSpec { return &s.Spec }),
		)
	case corev1.ConfigMap:
		return foldAll(v, f,
			value(func(c *corev1.ConfigMap) *metav1.ObjectMeta { return &c.ObjectMeta }),
		)
	case corev1.Pod:
		return foldAll(v, f,
			value(func(p *corev1.Pod) *metav1.ObjectMeta { return &p.ObjectMeta }),
			value(func(p *corev1.Pod) *corev1.PodSpec { return &p.Spec }),
		)
	case corev1.PodTemplateSpec:
		return foldAll(v, f,
			value(func(t *corev1.PodTemplateSpec) *metav1.ObjectMeta { return &t.ObjectMeta }),
			value(func(t *corev1.PodTemplateSpec) *corev1.PodSpec { return &t.Spec }),
		)
	case corev1.PodSpec:
		return foldAll(v, f,
			each(func(p *corev1.PodSpec) *[]corev1.Container { return &p.InitContainers }),
			each(func(p *corev1.PodSpec) *[]corev1.Container { return &p.Containers }),
			optional(func(p *corev1.PodSpec) **corev1.Affinity { return &p.Affinity }),
			each(func(p *corev1.PodSpec) *[]corev1.Volume { return &p.Volumes }),
		)
	case appsv1.DeploymentSpec:
		return foldAll(v, f,
			value(func(s *appsv1.DeploymentSpec) *corev1.PodTemplateSpec { return &s.Template }),
		)
	case appsv1.StatefulSetSpec:
		return foldAll(v, f,
			value(func(s *appsv1.StatefulSetSpec) *corev1.PodTemplateSpec { return &s.Template }),
		)
	}
	return x, nil
}

// deepCopy detaches x from any maps, slices or pointers shared with the
// caller.
func deepCopy[T Node](x T) T {
	var out any
	switch v := any(x).(type) {
	case Resource:
		out = v.deepCopy()
	case appsv1.Deployment:
		out = *v.DeepCopy()
	case appsv1.StatefulSet:
		out = *v.DeepCopy()
	case corev1.Service:
		out = *v.DeepCopy()
	case corev1.ConfigMap:
		out = *v.DeepCopy()
	case corev1.Container:
		out = *v.DeepCopy()
	case metav1.ObjectMeta:
		out = *v.DeepCopy()
	case corev1.Pod:
		out = *v.DeepCopy()
	case corev1.PodTemplateSpec:
		out = *v.DeepCopy()
	case corev1.PodSpec:
		out = *v.DeepCopy()
	case corev1.Volume:
		out = *v.DeepCopy()
	case corev1.Affinity:
		out = *v.DeepCopy()
	case appsv1.DeploymentSpec:
		out = *v.DeepCopy()
	case appsv1.StatefulSetSpec:
		out = *v.DeepCopy()
	case corev1.ServiceSpec:
		out = *v.DeepCopy()
	default:
		return x
	}
	return out.(T)
}

func (r Resource) deepCopy() Resource {
	switch v := r.value.(type) {
	case appsv1.Deployment:
		return NewResource(*v.DeepCopy())
	case appsv1.StatefulSet:
		return NewResource(*v.DeepCopy())
	case corev1.Service:
		return NewResource(*v.DeepCopy())
	case corev1.ConfigMap:
		return NewResource(*v.DeepCopy())
	}
	return r
}

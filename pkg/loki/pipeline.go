package loki

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/openshift/loki-manifests/lib/confighash"
	"github.com/openshift/loki-manifests/lib/transform"
	"github.com/openshift/loki-manifests/lib/validation"
	"github.com/openshift/loki-manifests/pkg/pipeline"
	"github.com/openshift/loki-manifests/pkg/version"
)

// CommonLabels are merged into the metadata of every resource and pod.
// Resources are also annotated with the generator version.
var CommonLabels = map[string]string{
	"app.kubernetes.io/name":       "loki",
	"app.kubernetes.io/managed-by": "loki-manifests",
}

// Pipeline returns a pipeline holding the resources of s, the transforms
// completing them and the built-in validators.
func (s SSD) Pipeline(proxy transform.ProxyConfig) (*pipeline.Pipeline, error) {
	rs, err := s.Resources()
	if err != nil {
		return nil, err
	}
	common := metav1.ObjectMeta{
		Namespace:   s.Namespace,
		Labels:      CommonLabels,
		Annotations: map[string]string{version.Annotation: version.Version.String()},
	}
	p := pipeline.New().
		AddTransform("default-image", transform.DefaultImage(s.Image)).
		AddTransform("mount-config", transform.MountConfig()).
		AddTransform("self-anti-affinity", transform.SelfAntiAffinity()).
		AddTransform("common-metadata", transform.CommonMetadata(common)).
		AddTransform("proxy", transform.Proxy(proxy)).
		AddTransform("config-hash", confighash.Transform(confighash.PayloadsOf(rs))).
		AddValidator(validation.Defaults()...).
		Submit(rs...)
	return p, nil
}

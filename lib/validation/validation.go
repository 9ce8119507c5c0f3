// Package validation holds the built-in read only checks run against
// manifest trees. Each check reports a field.ErrorList aggregated into a
// single error.
package validation

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/openshift/loki-manifests/lib/conventions"
	"github.com/openshift/loki-manifests/lib/node"
)

// Defaults returns every built-in validator in the order they run.
func Defaults() []node.Validator {
	return []node.Validator{
		NameRequired,
		ImageRequired,
		SingleTarget,
		DeploymentReplicasPositive,
		StatefulSetReplicasPositive,
		DeploymentSelectorMatchesTemplate,
		StatefulSetSelectorMatchesTemplate,
	}
}

var (
	NameRequired = node.NewValidator("name-required", func(r *node.Resource) error {
		return ValidateResourceName(r).ToAggregate()
	})

	ImageRequired = node.NewValidator("image-required", func(c *corev1.Container) error {
		return ValidateContainerImage(c, field.NewPath("containers").Key(c.Name)).ToAggregate()
	})

	SingleTarget = node.NewValidator("single-target", func(c *corev1.Container) error {
		return ValidateContainerTarget(c, field.NewPath("containers").Key(c.Name)).ToAggregate()
	})

	DeploymentReplicasPositive = node.NewValidator("replicas-positive", func(s *appsv1.DeploymentSpec) error {
		return ValidateReplicas(s.Replicas, field.NewPath("spec", "replicas")).ToAggregate()
	})

	StatefulSetReplicasPositive = node.NewValidator("replicas-positive", func(s *appsv1.StatefulSetSpec) error {
		return ValidateReplicas(s.Replicas, field.NewPath("spec", "replicas")).ToAggregate()
	})

	DeploymentSelectorMatchesTemplate = node.NewValidator("selector-matches-template", func(s *appsv1.DeploymentSpec) error {
		return ValidateSelector(s.Selector, s.Template, field.NewPath("spec")).ToAggregate()
	})

	StatefulSetSelectorMatchesTemplate = node.NewValidator("selector-matches-template", func(s *appsv1.StatefulSetSpec) error {
		return ValidateSelector(s.Selector, s.Template, field.NewPath("spec")).ToAggregate()
	})
)

func ValidateResourceName(r *node.Resource) field.ErrorList {
	errs := field.ErrorList{}
	if len(r.Meta().Name) == 0 {
		errs = append(errs, field.Required(field.NewPath("metadata", "name"), "must name every resource"))
	}
	return errs
}

func ValidateContainerImage(c *corev1.Container, fldPath *field.Path) field.ErrorList {
	errs := field.ErrorList{}
	if _, ok := conventions.ContainerImage.Get(*c); !ok {
		errs = append(errs, field.Required(fldPath.Child("image"), "must specify an image"))
	}
	return errs
}

func ValidateContainerTarget(c *corev1.Container, fldPath *field.Path) field.ErrorList {
	errs := field.ErrorList{}
	if n := conventions.CountTargets(*c); n > 1 {
		errs = append(errs, field.Invalid(fldPath.Child("args"), c.Args, "must carry at most one target argument"))
	}
	return errs
}

func ValidateReplicas(replicas *int32, fldPath *field.Path) field.ErrorList {
	errs := field.ErrorList{}
	if replicas != nil && *replicas <= 0 {
		errs = append(errs, field.Invalid(fldPath, *replicas, "must be positive"))
	}
	return errs
}

func ValidateSelector(selector *metav1.LabelSelector, template corev1.PodTemplateSpec, fldPath *field.Path) field.ErrorList {
	errs := field.ErrorList{}
	if selector == nil {
		errs = append(errs, field.Required(fldPath.Child("selector"), "must select the pod template"))
		return errs
	}
	s, err := metav1.LabelSelectorAsSelector(selector)
	if err != nil {
		errs = append(errs, field.Invalid(fldPath.Child("selector"), selector, err.Error()))
		return errs
	}
	if s.Empty() || !s.Matches(labels.Set(template.Labels)) {
		errs = append(errs, field.Invalid(fldPath.Child("template", "metadata", "labels"), template.Labels, "must match the selector"))
	}
	return errs
}

package conventions

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/equality"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// roundTrip asserts Get(With(c, x)) == x.
func roundTrip[C, F any](t *testing.T, l Lens[C, F], c C, x F) {
	t.Helper()
	got, ok := l.Get(l.With(c, x))
	if !ok {
		t.Fatalf("field absent after write of %v", x)
	}
	if !equality.Semantic.DeepEqual(x, got) {
		t.Fatalf("round trip mismatch:\n%s", cmp.Diff(x, got))
	}
}

func TestRoundTrip(t *testing.T) {
	meta := metav1.ObjectMeta{Name: "read", Labels: map[string]string{NameLabel: "read", "app": "loki"}}
	tpl := corev1.PodTemplateSpec{ObjectMeta: meta}
	spec := corev1.PodSpec{Containers: []corev1.Container{{Name: "loki"}}}
	container := corev1.Container{Name: "loki", Args: []string{"-config.file=/etc/loki.yaml"}}
	affinity := AntiAffinity("read")
	vols := []corev1.Volume{ConfigMapVolume("loki")}

	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{"deployment meta", func(t *testing.T) { roundTrip(t, DeploymentObjectMeta, appsv1.Deployment{}, meta) }},
		{"deployment template", func(t *testing.T) { roundTrip(t, DeploymentTemplate, appsv1.Deployment{}, tpl) }},
		{"statefulset meta", func(t *testing.T) { roundTrip(t, StatefulSetObjectMeta, appsv1.StatefulSet{}, meta) }},
		{"statefulset template", func(t *testing.T) { roundTrip(t, StatefulSetTemplate, appsv1.StatefulSet{}, tpl) }},
		{"service meta", func(t *testing.T) { roundTrip(t, ServiceObjectMeta, corev1.Service{}, meta) }},
		{"service spec", func(t *testing.T) {
			roundTrip(t, ServiceSpec, corev1.Service{}, corev1.ServiceSpec{ClusterIP: "None"})
		}},
		{"configmap meta", func(t *testing.T) { roundTrip(t, ConfigMapObjectMeta, corev1.ConfigMap{}, meta) }},
		{"template meta", func(t *testing.T) { roundTrip(t, TemplateObjectMeta, corev1.PodTemplateSpec{}, meta) }},
		{"template spec", func(t *testing.T) { roundTrip(t, TemplatePodSpec, corev1.PodTemplateSpec{}, spec) }},
		{"pod spec affinity", func(t *testing.T) { roundTrip(t, PodSpecAffinity, corev1.PodSpec{}, affinity) }},
		{"pod spec volumes", func(t *testing.T) { roundTrip(t, PodSpecVolumes, corev1.PodSpec{}, vols) }},
		{"pod spec containers", func(t *testing.T) {
			roundTrip(t, PodSpecContainers, corev1.PodSpec{}, []corev1.Container{container})
		}},
		{"meta name", func(t *testing.T) { roundTrip(t, ObjectMetaName, metav1.ObjectMeta{}, Name("write")) }},
		{"meta labels", func(t *testing.T) {
			roundTrip(t, ObjectMetaLabels, metav1.ObjectMeta{}, map[string]string{"a": "b"})
		}},
		{"meta annotations", func(t *testing.T) {
			roundTrip(t, ObjectMetaAnnotations, metav1.ObjectMeta{}, map[string]string{"a": "b"})
		}},
		{"container name", func(t *testing.T) { roundTrip(t, ContainerName, corev1.Container{}, Name("loki")) }},
		{"container image", func(t *testing.T) { roundTrip(t, ContainerImage, container, "grafana/loki:main") }},
		{"container target", func(t *testing.T) { roundTrip(t, ContainerTarget, container, Target("read")) }},
		{"container mounts", func(t *testing.T) {
			roundTrip(t, ContainerVolumeMounts, container, []corev1.VolumeMount{VolumeMount(vols[0])})
		}},
		{"template name", func(t *testing.T) { roundTrip(t, TemplateName, corev1.PodTemplateSpec{}, Name("read")) }},
		{"deployment name", func(t *testing.T) { roundTrip(t, DeploymentName, appsv1.Deployment{}, Name("read")) }},
		{"deployment affinity", func(t *testing.T) { roundTrip(t, DeploymentAffinity, appsv1.Deployment{}, affinity) }},
		{"deployment volumes", func(t *testing.T) { roundTrip(t, DeploymentVolumes, appsv1.Deployment{}, vols) }},
		{"deployment annotations", func(t *testing.T) {
			roundTrip(t, DeploymentAnnotations, appsv1.Deployment{}, map[string]string{"config_hash": "abc"})
		}},
		{"statefulset name", func(t *testing.T) { roundTrip(t, StatefulSetName, appsv1.StatefulSet{}, Name("write")) }},
		{"statefulset affinity", func(t *testing.T) {
			roundTrip(t, StatefulSetAffinity, appsv1.StatefulSet{}, affinity)
		}},
		{"statefulset volumes", func(t *testing.T) { roundTrip(t, StatefulSetVolumes, appsv1.StatefulSet{}, vols) }},
		{"statefulset annotations", func(t *testing.T) {
			roundTrip(t, StatefulSetAnnotations, appsv1.StatefulSet{}, map[string]string{"config_hash": "abc"})
		}},
	}
	for _, test := range tests {
		t.Run(test.name, test.run)
	}
}

func TestNameWritesLabelAndField(t *testing.T) {
	d := DeploymentName.With(appsv1.Deployment{}, "read")
	tpl := d.Spec.Template
	if tpl.Name != "read" {
		t.Fatalf("expected the template name to be set, got %q", tpl.Name)
	}
	if tpl.Labels[NameLabel] != "read" {
		t.Fatalf("expected the name label to be set, got %v", tpl.Labels)
	}
}

func TestNamePreservesOtherLabels(t *testing.T) {
	in := metav1.ObjectMeta{Labels: map[string]string{"app": "loki", NameLabel: "old"}}
	out := ObjectMetaName.With(in, "new")
	want := map[string]string{"app": "loki", NameLabel: "new"}
	if diff := cmp.Diff(want, out.Labels); diff != "" {
		t.Fatalf("unexpected labels (-want +got):\n%s", diff)
	}
	if in.Labels[NameLabel] != "old" {
		t.Fatal("writing a name mutated the input labels")
	}
}

func TestComposeFillsDefaults(t *testing.T) {
	d := DeploymentAffinity.With(appsv1.Deployment{}, AntiAffinity("read"))
	if d.Spec.Template.Spec.Affinity == nil {
		t.Fatal("expected the affinity to be synthesized")
	}
	if _, ok := DeploymentAffinity.Get(appsv1.Deployment{}); ok {
		t.Fatal("expected no affinity on an empty deployment")
	}
}

func TestWithFnAndWithOr(t *testing.T) {
	rename := func(Name) Name { return "boo" }

	// an absent field is left alone
	tpl := TemplateName.WithFn(corev1.PodTemplateSpec{}, rename)
	if _, ok := TemplateName.Get(tpl); ok {
		t.Fatal("expected no name after mapping an absent field")
	}

	// a default is substituted and written
	tpl = TemplateName.WithOr(tpl, func(n Name) Name { return n }, "foo")
	if n, _ := TemplateName.Get(tpl); n != "foo" {
		t.Fatalf("expected the default name, got %q", n)
	}

	// a present field is mapped
	tpl = TemplateName.WithFn(tpl, rename)
	if n, _ := TemplateName.Get(tpl); n != "boo" {
		t.Fatalf("expected the mapped name, got %q", n)
	}
}

func TestSelfAntiAffinity(t *testing.T) {
	tpl := TemplateName.With(corev1.PodTemplateSpec{}, "ingester")
	tpl = SelfAntiAffinity(TemplateName, TemplateAffinity, tpl)

	want := corev1.PodAffinityTerm{
		LabelSelector: &metav1.LabelSelector{MatchLabels: map[string]string{NameLabel: "ingester"}},
		TopologyKey:   "kubernetes.io/hostname",
	}
	terms := tpl.Spec.Affinity.PodAntiAffinity.RequiredDuringSchedulingIgnoredDuringExecution
	if diff := cmp.Diff([]corev1.PodAffinityTerm{want}, terms); diff != "" {
		t.Fatalf("unexpected anti-affinity (-want +got):\n%s", diff)
	}

	unnamed := SelfAntiAffinity(TemplateName, TemplateAffinity, corev1.PodTemplateSpec{})
	if unnamed.Spec.Affinity != nil {
		t.Fatal("expected no affinity without a name")
	}
}

func TestEmptyContainerFieldsAreAbsent(t *testing.T) {
	c := corev1.Container{Name: "loki", Image: "grafana/loki:main"}
	if _, ok := ContainerImage.Get(ContainerImage.With(c, "")); ok {
		t.Fatal("expected an empty image to read as absent")
	}
	if _, ok := ContainerName.Get(ContainerName.With(c, "")); ok {
		t.Fatal("expected an empty name to read as absent")
	}
	got := ContainerImage.WithOr(ContainerImage.With(c, ""), func(i string) string { return i }, "grafana/loki:main")
	if got.Image != "grafana/loki:main" {
		t.Fatalf("expected the default image to be filled in, got %q", got.Image)
	}
}

package node

import (
	"errors"
	"fmt"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/equality"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
)

func testPodSpec() corev1.PodSpec {
	return corev1.PodSpec{
		InitContainers: []corev1.Container{{Name: "init"}},
		Containers: []corev1.Container{
			{Name: "a"},
			{Name: "b", Image: "x"},
		},
		Affinity: &corev1.Affinity{},
		Volumes:  []corev1.Volume{{Name: "config"}},
	}
}

func testTemplate() corev1.PodTemplateSpec {
	return corev1.PodTemplateSpec{
		ObjectMeta: metav1.ObjectMeta{Labels: map[string]string{"name": "read"}},
		Spec:       testPodSpec(),
	}
}

func testDeployment() appsv1.Deployment {
	return appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: "read", Namespace: "loki"},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To[int32](3),
			Template: testTemplate(),
		},
	}
}

func testStatefulSet() appsv1.StatefulSet {
	return appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{Name: "write"},
		Spec: appsv1.StatefulSetSpec{
			ServiceName: "write-headless",
			Template:    testTemplate(),
		},
	}
}

func setImage(c corev1.Container) (corev1.Container, error) {
	if c.Image == "" {
		c.Image = "y"
	}
	return c, nil
}

func TestFoldSetsUnsetImages(t *testing.T) {
	in := corev1.PodSpec{Containers: []corev1.Container{{Name: "a"}, {Name: "b", Image: "x"}}}
	got, err := Fold(in, Lift(setImage))
	if err != nil {
		t.Fatal(err)
	}
	want := []corev1.Container{{Name: "a", Image: "y"}, {Name: "b", Image: "x"}}
	if diff := cmp.Diff(want, got.Containers); diff != "" {
		t.Fatalf("unexpected containers (-want +got):\n%s", diff)
	}
}

func TestFoldIdentity(t *testing.T) {
	tests := []struct {
		name string
		in   Resource
	}{{
		name: "deployment",
		in:   NewResource(testDeployment()),
	}, {
		name: "statefulset",
		in:   NewResource(testStatefulSet()),
	}, {
		name: "service",
		in: NewResource(corev1.Service{
			ObjectMeta: metav1.ObjectMeta{Name: "read"},
			Spec:       corev1.ServiceSpec{Selector: map[string]string{"name": "read"}, ClusterIP: "None"},
		}),
	}, {
		name: "configmap",
		in: NewResource(corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{Name: "loki"},
			Data:       map[string]string{"config.yaml": "auth_enabled: false"},
			BinaryData: map[string][]byte{"blob": {0, 1, 2}},
		}),
	}, {
		name: "empty deployment",
		in:   NewResource(appsv1.Deployment{}),
	}}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := FoldResource(test.in, Identity)
			if err != nil {
				t.Fatal(err)
			}
			if !equality.Semantic.DeepEqual(test.in.Object(), got.Object()) {
				t.Fatalf("mismatch \ngot: %s \nwant: %s", spew.Sdump(got.Object()), spew.Sdump(test.in.Object()))
			}
		})
	}
}

func TestFoldDepthIndependence(t *testing.T) {
	wantContainers := []corev1.Container{{Name: "a", Image: "y"}, {Name: "b", Image: "x"}}
	wantInit := []corev1.Container{{Name: "init", Image: "y"}}
	f := Lift(setImage)

	check := func(t *testing.T, spec corev1.PodSpec) {
		t.Helper()
		if diff := cmp.Diff(wantContainers, spec.Containers); diff != "" {
			t.Errorf("unexpected containers (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(wantInit, spec.InitContainers); diff != "" {
			t.Errorf("unexpected init containers (-want +got):\n%s", diff)
		}
	}

	t.Run("container", func(t *testing.T) {
		got, err := Fold(corev1.Container{Name: "a"}, f)
		if err != nil {
			t.Fatal(err)
		}
		if got.Image != "y" {
			t.Fatalf("expected image y, got %q", got.Image)
		}
	})
	t.Run("pod spec", func(t *testing.T) {
		got, err := Fold(testPodSpec(), f)
		if err != nil {
			t.Fatal(err)
		}
		check(t, got)
	})
	t.Run("pod template", func(t *testing.T) {
		got, err := Fold(testTemplate(), f)
		if err != nil {
			t.Fatal(err)
		}
		check(t, got.Spec)
	})
	t.Run("pod", func(t *testing.T) {
		got, err := Fold(corev1.Pod{Spec: testPodSpec()}, f)
		if err != nil {
			t.Fatal(err)
		}
		check(t, got.Spec)
	})
	t.Run("deployment", func(t *testing.T) {
		got, err := Fold(testDeployment(), f)
		if err != nil {
			t.Fatal(err)
		}
		check(t, got.Spec.Template.Spec)
	})
	t.Run("statefulset resource", func(t *testing.T) {
		got, err := FoldResource(NewResource(testStatefulSet()), f)
		if err != nil {
			t.Fatal(err)
		}
		sts, ok := As[appsv1.StatefulSet](got)
		if !ok {
			t.Fatalf("expected a statefulset, got %s", got.Kind())
		}
		check(t, sts.Spec.Template.Spec)
	})
	t.Run("object", func(t *testing.T) {
		got, err := FoldObject(Wrap(testDeployment()), f)
		if err != nil {
			t.Fatal(err)
		}
		d, ok := Matches[appsv1.Deployment](got)
		if !ok {
			t.Fatalf("expected a deployment, got %s", got)
		}
		check(t, d.Spec.Template.Spec)
	})
}

func TestFoldOrder(t *testing.T) {
	var visited []string
	record := func(o Object) (Object, error) {
		name := string(o.Kind())
		switch o.Kind() {
		case KindContainer:
			c, _ := Matches[corev1.Container](o)
			name = fmt.Sprintf("%s/%s", name, c.Name)
		case KindResource:
			name = o.String()
		}
		visited = append(visited, name)
		return o, nil
	}
	if _, err := Fold(testDeployment(), record); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"ObjectMeta",
		"ObjectMeta",
		"Container/init",
		"Container/a",
		"Container/b",
		"Affinity",
		"Volume",
		"PodSpec",
		"PodTemplateSpec",
		"DeploymentSpec",
		`deployment "loki/read"`,
	}
	if diff := cmp.Diff(want, visited); diff != "" {
		t.Fatalf("unexpected visit order (-want +got):\n%s", diff)
	}
}

func TestFoldAbsentAffinity(t *testing.T) {
	called := false
	f := Lift(func(a corev1.Affinity) (corev1.Affinity, error) {
		called = true
		return a, nil
	})
	spec := testPodSpec()
	spec.Affinity = nil
	got, err := Fold(spec, f)
	if err != nil {
		t.Fatal(err)
	}
	if called {
		t.Fatal("rewrite called for an absent affinity")
	}
	if got.Affinity != nil {
		t.Fatalf("expected nil affinity, got %v", got.Affinity)
	}
}

func TestFoldTypeMismatch(t *testing.T) {
	f := func(o Object) (Object, error) {
		if o.Kind() == KindContainer {
			return Wrap(corev1.Volume{Name: "oops"}), nil
		}
		return o, nil
	}
	_, err := Fold(testTemplate(), f)
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected a type mismatch, got %v", err)
	}
	if mismatch.Expected != "v1.Container" {
		t.Fatalf("expected v1.Container, got %q", mismatch.Expected)
	}
	if mismatch.Got != "v1.Volume" {
		t.Fatalf("expected v1.Volume, got %q", mismatch.Got)
	}
}

func TestFoldResourceKindMismatch(t *testing.T) {
	f := Lift(func(d appsv1.Deployment) (appsv1.Deployment, error) { return d, nil })
	swap := func(o Object) (Object, error) {
		if _, ok := Matches[appsv1.Deployment](o); ok {
			return Wrap(corev1.Service{}), nil
		}
		return o, nil
	}
	if _, err := FoldResource(NewResource(testDeployment()), Chain(f, swap)); err == nil {
		t.Fatal("expected an error when a deployment is replaced by a service")
	}
}

func TestFoldFailFast(t *testing.T) {
	var seen []string
	boom := errors.New("boom")
	f := Lift(func(c corev1.Container) (corev1.Container, error) {
		seen = append(seen, c.Name)
		if c.Name == "init" {
			return c, boom
		}
		return c, nil
	})
	_, err := Fold(testDeployment(), f)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if diff := cmp.Diff([]string{"init"}, seen); diff != "" {
		t.Fatalf("siblings folded after a failure (-want +got):\n%s", diff)
	}
}

func TestFoldDoesNotMutateInput(t *testing.T) {
	in := testDeployment()
	f := LiftFn(func(m metav1.ObjectMeta) metav1.ObjectMeta {
		if m.Labels == nil {
			m.Labels = map[string]string{}
		}
		m.Labels["touched"] = "true"
		return m
	})
	got, err := Fold(in, f)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := in.Spec.Template.Labels["touched"]; ok {
		t.Fatal("fold mutated the input tree")
	}
	if got.Spec.Template.Labels["touched"] != "true" || got.Labels["touched"] != "true" {
		t.Fatalf("expected every object meta to be labelled, got %s", spew.Sdump(got))
	}
}

func TestApply(t *testing.T) {
	got, err := Apply(testDeployment(),
		Lift(setImage),
		LiftFn(func(c corev1.Container) corev1.Container {
			c.Args = append(c.Args, "-image="+c.Image)
			return c
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"-image=y"}
	if diff := cmp.Diff(want, got.Spec.Template.Spec.Containers[0].Args); diff != "" {
		t.Fatalf("transforms not applied in order (-want +got):\n%s", diff)
	}
}

package transform

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	corev1 "k8s.io/api/core/v1"

	"github.com/openshift/loki-manifests/lib/conventions"
	"github.com/openshift/loki-manifests/lib/node"
)

func TestProxy(t *testing.T) {
	tests := []struct {
		name   string
		config ProxyConfig
		in     []corev1.EnvVar
		want   map[string][]corev1.EnvVar
	}{{
		name:   "disabled",
		config: ProxyConfig{},
		in:     []corev1.EnvVar{{Name: "A", Value: "a"}},
		want: map[string][]corev1.EnvVar{
			"loki":    {{Name: "A", Value: "a"}},
			"sidecar": {{Name: "A", Value: "a"}},
		},
	}, {
		name:   "all containers",
		config: ProxyConfig{HTTPProxy: "http://proxy:3128", NoProxy: ".svc"},
		want: map[string][]corev1.EnvVar{
			"loki": {
				{Name: "HTTP_PROXY", Value: "http://proxy:3128"},
				{Name: "HTTPS_PROXY"},
				{Name: "NO_PROXY", Value: ".svc"},
			},
			"sidecar": {
				{Name: "HTTP_PROXY", Value: "http://proxy:3128"},
				{Name: "HTTPS_PROXY"},
				{Name: "NO_PROXY", Value: ".svc"},
			},
		},
	}, {
		name: "selected containers replace existing values",
		config: ProxyConfig{
			HTTPSProxy: "https://proxy:3129",
			Containers: []conventions.Name{"loki"},
		},
		in: []corev1.EnvVar{
			{Name: "HTTPS_PROXY", ValueFrom: &corev1.EnvVarSource{FieldRef: &corev1.ObjectFieldSelector{FieldPath: "x"}}},
			{Name: "A", Value: "a"},
		},
		want: map[string][]corev1.EnvVar{
			"loki": {
				{Name: "HTTPS_PROXY", Value: "https://proxy:3129"},
				{Name: "A", Value: "a"},
				{Name: "HTTP_PROXY"},
				{Name: "NO_PROXY"},
			},
			"sidecar": {
				{Name: "HTTPS_PROXY", ValueFrom: &corev1.EnvVarSource{FieldRef: &corev1.ObjectFieldSelector{FieldPath: "x"}}},
				{Name: "A", Value: "a"},
			},
		},
	}}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			spec := corev1.PodSpec{Containers: []corev1.Container{
				{Name: "loki", Env: test.in},
				{Name: "sidecar", Env: test.in},
			}}
			got, err := node.Fold(spec, Proxy(test.config))
			if err != nil {
				t.Fatal(err)
			}
			for _, c := range got.Containers {
				if diff := cmp.Diff(test.want[c.Name], c.Env); diff != "" {
					t.Errorf("unexpected env for %s (-want +got):\n%s", c.Name, diff)
				}
			}
		})
	}
}

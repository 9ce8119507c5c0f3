package transform

import (
	corev1 "k8s.io/api/core/v1"

	"github.com/openshift/loki-manifests/lib/conventions"
	"github.com/openshift/loki-manifests/lib/node"
)

// ProxyConfig carries the proxy settings injected into containers.
type ProxyConfig struct {
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string

	// Containers restricts the injection to the named containers. All
	// containers are updated when it is empty.
	Containers []conventions.Name
}

func (p ProxyConfig) enabled() bool {
	return len(p.HTTPProxy) > 0 || len(p.HTTPSProxy) > 0 || len(p.NoProxy) > 0
}

func (p ProxyConfig) selects(c corev1.Container) bool {
	if len(p.Containers) == 0 {
		return true
	}
	name, _ := conventions.ContainerName.Get(c)
	for _, n := range p.Containers {
		if n == name {
			return true
		}
	}
	return false
}

// Proxy sets the HTTP_PROXY, HTTPS_PROXY and NO_PROXY variables on the
// selected containers. It is a no-op when no proxy is configured.
func Proxy(p ProxyConfig) node.Func {
	if !p.enabled() {
		return node.Identity
	}
	return node.LiftFn(func(c corev1.Container) corev1.Container {
		if !p.selects(c) {
			return c
		}
		c.Env = setEnvValue(c.Env, "HTTP_PROXY", p.HTTPProxy)
		c.Env = setEnvValue(c.Env, "HTTPS_PROXY", p.HTTPSProxy)
		c.Env = setEnvValue(c.Env, "NO_PROXY", p.NoProxy)
		return c
	})
}

// setEnvValue replaces the value of name if it is present and adds it if it
// is not.
func setEnvValue(in []corev1.EnvVar, name, value string) []corev1.EnvVar {
	ret := make([]corev1.EnvVar, 0, len(in)+1)
	found := false
	for j := range in {
		ret = append(ret, *in[j].DeepCopy())
		if ret[j].Name == name {
			found = true
			ret[j].Value = value
			ret[j].ValueFrom = nil
		}
	}
	if !found {
		ret = append(ret, corev1.EnvVar{Name: name, Value: value})
	}
	return ret
}

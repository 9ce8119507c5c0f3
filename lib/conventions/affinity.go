package conventions

import (
	corev1 "k8s.io/api/core/v1"
)

// AntiAffinity requires pods labelled with n to be scheduled on distinct
// nodes.
func AntiAffinity(n Name) corev1.Affinity {
	return corev1.Affinity{
		PodAntiAffinity: &corev1.PodAntiAffinity{
			RequiredDuringSchedulingIgnoredDuringExecution: []corev1.PodAffinityTerm{{
				LabelSelector: Selector(n),
				TopologyKey:   corev1.LabelHostname,
			}},
		},
	}
}

// SelfAntiAffinity spreads the pods of c across nodes, keyed on the name c
// carries. It is a no-op when c has no name.
func SelfAntiAffinity[C any](names Lens[C, Name], affinity Lens[C, corev1.Affinity], c C) C {
	n, ok := names.Get(c)
	if !ok {
		return c
	}
	return affinity.With(c, AntiAffinity(n))
}

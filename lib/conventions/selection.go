package conventions

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// SelectorLabels are the labels selecting the pods of component n.
func SelectorLabels(n Name) map[string]string {
	return map[string]string{NameLabel: string(n)}
}

// Selector matches the pods of component n.
func Selector(n Name) *metav1.LabelSelector {
	return &metav1.LabelSelector{MatchLabels: SelectorLabels(n)}
}

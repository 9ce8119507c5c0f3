// Package confighash stamps pod templates with a digest of the configuration
// they mount, so that a change in referenced configuration rolls the pods.
package confighash

import (
	"bytes"

	"github.com/opencontainers/go-digest"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog/v2"

	"github.com/openshift/loki-manifests/lib/conventions"
	"github.com/openshift/loki-manifests/lib/node"
)

// Annotation is the pod template annotation holding the digest.
const Annotation = "config_hash"

// Sum returns the hex encoded digest of the payloads referenced by vols.
// Payloads which are not referenced do not contribute, and neither the order
// of payloads nor the order of their entries changes the result.
func Sum(vols []corev1.Volume, payloads []corev1.ConfigMap) string {
	referenced := sets.New[string](conventions.ConfigMapReferences(vols)...)

	// Per payload digests form a set, so duplicates collapse and the
	// aggregate is taken over them in sorted order.
	digests := sets.New[string]()
	for _, cm := range payloads {
		if referenced.Has(cm.Name) {
			digests.Insert(payloadDigest(cm))
		}
	}
	var joined bytes.Buffer
	for _, d := range sets.List(digests) {
		joined.WriteString(d)
	}
	return digest.FromBytes(joined.Bytes()).Encoded()
}

// payloadDigest hashes the name of cm and its text and binary entries in
// key order. The two sections are kept apart so moving an entry between them
// changes the digest.
func payloadDigest(cm corev1.ConfigMap) string {
	var raw bytes.Buffer
	raw.WriteString(cm.Name)
	raw.WriteByte(0)
	raw.WriteString("data")
	raw.WriteByte(0)
	for _, k := range sets.List(sets.KeySet(cm.Data)) {
		raw.WriteString(k)
		raw.WriteByte(0)
		raw.WriteString(cm.Data[k])
		raw.WriteByte(0)
	}
	raw.WriteString("binaryData")
	raw.WriteByte(0)
	for _, k := range sets.List(sets.KeySet(cm.BinaryData)) {
		raw.WriteString(k)
		raw.WriteByte(0)
		raw.Write(cm.BinaryData[k])
		raw.WriteByte(0)
	}
	return digest.FromBytes(raw.Bytes()).Encoded()
}

// AnnotateTemplate writes the digest of the payloads mounted by t into its
// annotations. Other annotations are preserved.
func AnnotateTemplate(t corev1.PodTemplateSpec, payloads []corev1.ConfigMap) corev1.PodTemplateSpec {
	vols, _ := conventions.TemplateVolumes.Get(t)
	sum := Sum(vols, payloads)
	meta, _ := conventions.TemplateObjectMeta.Get(t)
	annotations, _ := conventions.ObjectMetaAnnotations.Get(meta)
	klog.V(4).Infof("setting %s=%s on pod template %q", Annotation, sum, meta.Name)
	meta = conventions.ObjectMetaAnnotations.With(meta, conventions.SetAnnotation(annotations, Annotation, sum))
	return conventions.TemplateObjectMeta.With(t, meta)
}

// Transform annotates every pod template of a tree.
func Transform(payloads []corev1.ConfigMap) node.Func {
	return node.LiftFn(func(t corev1.PodTemplateSpec) corev1.PodTemplateSpec {
		return AnnotateTemplate(t, payloads)
	})
}

// PayloadsOf collects the config maps among rs.
func PayloadsOf(rs []node.Resource) []corev1.ConfigMap {
	var out []corev1.ConfigMap
	for _, r := range rs {
		if cm, ok := node.As[corev1.ConfigMap](r); ok {
			out = append(out, cm)
		}
	}
	return out
}

// Package manifest loads Kubernetes manifests from disk and turns the
// supported ones into manifest trees.
package manifest

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/yaml"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/klog/v2"

	"github.com/openshift/loki-manifests/lib/node"
	"github.com/openshift/loki-manifests/lib/resourceread"
)

// Manifest stores Kubernetes object in Raw from a file.
// It stores the GroupVersionKind for the manifest.
type Manifest struct {
	Raw []byte
	GVK schema.GroupVersionKind

	obj *unstructured.Unstructured
}

// UnmarshalJSON unmarshals bytes of single kubernetes object to Manifest.
func (m *Manifest) UnmarshalJSON(in []byte) error {
	if m == nil {
		return errors.New("Manifest: UnmarshalJSON on nil pointer")
	}

	// an empty document between two separators
	if bytes.Equal(in, []byte("null")) {
		m.Raw = nil
		return nil
	}

	m.Raw = append(m.Raw[0:0], in...)
	udi, _, err := scheme.Codecs.UniversalDecoder().Decode(in, nil, &unstructured.Unstructured{})
	if err != nil {
		return errors.Wrap(err, "unable to decode manifest")
	}
	ud, ok := udi.(*unstructured.Unstructured)
	if !ok {
		return errors.Errorf("expected manifest to decode into *unstructured.Unstructured, got %T", udi)
	}

	m.GVK = ud.GroupVersionKind()
	m.obj = ud.DeepCopy()
	return nil
}

// Object returns underlying metav1.Object
func (m *Manifest) Object() metav1.Object { return m.obj }

// String identifies the manifest by kind, namespace and name.
func (m *Manifest) String() string {
	if m.obj == nil {
		return m.GVK.String()
	}
	if ns := m.obj.GetNamespace(); len(ns) > 0 {
		return m.GVK.Kind + " " + ns + "/" + m.obj.GetName()
	}
	return m.GVK.Kind + " " + m.obj.GetName()
}

// Resource decodes the manifest into a typed resource.
func (m *Manifest) Resource() (node.Resource, error) {
	return resourceread.ReadResource(m.Raw)
}

const (
	// rootDirKey is used as key for the manifest files in root dir
	// passed to LoadManifests
	// It is set to `000` to give it more priority if the actor sorts
	// based on keys.
	rootDirKey = "000"
)

// LoadManifests loads manifest from disk.
//
//	root/
//	    manifest0
//	    manifest1
//	    00_subdir0/
//	        manifest0
//	        manifest1
//	    01_subdir1/
//	        manifest0
//	        manifest1
//
// LoadManifests(<abs path to>/root) returns the map
//
//	000: [manifest0, manifest1]
//	00_subdir0: [manifest0, manifest1]
//	01_subdir1: [manifest0, manifest1]
//
// It skips dirs that have not files.
// It only reads dir `p` and its direct subdirs.
func LoadManifests(p string) (map[string][]Manifest, error) {
	var out = make(map[string][]Manifest)

	fs, err := os.ReadDir(p)
	if err != nil {
		return nil, err
	}

	// We want to accumulate all the errors, not returning at the
	// first error encountered when reading subdirs.
	var errs []error

	ms, err := loadManifestsFromDir(p)
	if err != nil {
		errs = append(errs, errors.Wrapf(err, "error loading from dir %s", p))
	}
	if len(ms) > 0 {
		out[rootDirKey] = ms
	}

	for _, f := range fs {
		if !f.IsDir() {
			continue
		}
		path := filepath.Join(p, f.Name())
		ms, err := loadManifestsFromDir(path)
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "error loading from dir %s", path))
			continue
		}
		if len(ms) > 0 {
			out[f.Name()] = ms
		}
	}

	if agg := utilerrors.NewAggregate(errs); agg != nil {
		return nil, agg
	}
	return out, nil
}

// loadManifestsFromDir only returns files. not subdirs are traversed.
// returns manifests in increasing order of their filename.
func loadManifestsFromDir(dir string) ([]Manifest, error) {
	var manifests []Manifest
	fs, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, f := range fs {
		if f.IsDir() {
			continue
		}
		path := filepath.Join(dir, f.Name())
		ms, err := loadManifestsFromFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		manifests = append(manifests, ms...)
	}

	if agg := utilerrors.NewAggregate(errs); agg != nil {
		return nil, errors.Wrapf(agg, "error loading manifests from %q", dir)
	}
	return manifests, nil
}

func loadManifestsFromFile(path string) ([]Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening %s", path)
	}
	defer file.Close()

	ms, err := ParseManifests(file)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing %s", path)
	}
	return ms, nil
}

// ParseManifests parses a YAML or JSON document that may contain one or more
// kubernetes resources.
func ParseManifests(r io.Reader) ([]Manifest, error) {
	d := yaml.NewYAMLOrJSONDecoder(r, 1024)
	var manifests []Manifest
	for {
		m := Manifest{}
		if err := d.Decode(&m); err != nil {
			if err == io.EOF {
				return manifests, nil
			}
			return manifests, errors.Wrap(err, "error parsing")
		}
		m.Raw = bytes.TrimSpace(m.Raw)
		if len(m.Raw) == 0 || bytes.Equal(m.Raw, []byte("null")) {
			continue
		}
		manifests = append(manifests, m)
	}
}

// LoadResources reads the resources under path, which is either a single
// manifest file or a directory laid out as LoadManifests expects. Resources
// keep the order of their directory keys and file names. Manifests of kinds
// a tree cannot be rooted at are skipped.
func LoadResources(path string) ([]node.Resource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var manifests []Manifest
	if info.IsDir() {
		byDir, err := LoadManifests(path)
		if err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(byDir))
		for k := range byDir {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			manifests = append(manifests, byDir[k]...)
		}
	} else {
		if manifests, err = loadManifestsFromFile(path); err != nil {
			return nil, err
		}
	}
	return Resources(manifests)
}

// Resources decodes every supported manifest. Decoding failures are
// collected and returned together.
func Resources(manifests []Manifest) ([]node.Resource, error) {
	var out []node.Resource
	var errs []error
	for i := range manifests {
		m := &manifests[i]
		r, err := m.Resource()
		if err != nil {
			var unsupported *node.UnsupportedResourceError
			if errors.As(err, &unsupported) {
				klog.V(2).Infof("Skipping unsupported manifest %s", m)
				continue
			}
			errs = append(errs, errors.Wrapf(err, "error decoding %s", m))
			continue
		}
		out = append(out, r)
	}
	if agg := utilerrors.NewAggregate(errs); agg != nil {
		return nil, agg
	}
	return out, nil
}

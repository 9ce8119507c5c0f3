// Package render serializes resources into YAML documents.
package render

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/klog/v2"

	"github.com/openshift/loki-manifests/lib/node"
)

const separator = "---\n"

// Marshal renders r as a single YAML document carrying its apiVersion and
// kind.
func Marshal(r node.Resource) ([]byte, error) {
	raw, err := yaml.Marshal(r.Object())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal %s", r)
	}
	return raw, nil
}

// Stream writes every resource to W as one YAML document stream.
type Stream struct {
	W io.Writer
}

func (s Stream) Emit(rs []node.Resource) error {
	buf := new(bytes.Buffer)
	for i, r := range rs {
		raw, err := Marshal(r)
		if err != nil {
			return err
		}
		if i > 0 {
			buf.WriteString(separator)
		}
		buf.Write(raw)
	}
	_, err := s.W.Write(buf.Bytes())
	return err
}

// Dir writes one file per resource into Path, which is created when
// missing. File names are prefixed with the resource position so that
// reading the directory back preserves the order.
type Dir struct {
	Path string
}

func (d Dir) Emit(rs []node.Resource) error {
	if err := os.MkdirAll(d.Path, 0755); err != nil {
		return err
	}
	var errs []error
	for i, r := range rs {
		raw, err := Marshal(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		opath := filepath.Join(d.Path, FileName(i, r))
		if err := os.WriteFile(opath, raw, 0644); err != nil {
			errs = append(errs, err)
			continue
		}
		klog.V(4).Infof("Wrote %s to %s", r, opath)
	}

	agg := utilerrors.NewAggregate(errs)
	if agg != nil {
		return errors.Wrap(agg, "error rendering manifests")
	}
	return nil
}

// FileName is the name Dir gives the resource at position i.
func FileName(i int, r node.Resource) string {
	return fmt.Sprintf("%02d_%s_%s.yaml", i, strings.ToLower(string(r.Kind())), r.Meta().Name)
}

// Package start holds the options shared by the loki-manifests commands and
// runs them.
package start

import (
	"io"
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/klog/v2"

	"github.com/openshift/loki-manifests/lib/manifest"
	"github.com/openshift/loki-manifests/lib/transform"
	"github.com/openshift/loki-manifests/lib/validation"
	"github.com/openshift/loki-manifests/pkg/loki"
	"github.com/openshift/loki-manifests/pkg/pipeline"
	"github.com/openshift/loki-manifests/pkg/render"
)

// Options are the valid inputs to the loki-manifests commands.
type Options struct {
	// ConfigFile is an optional YAML file describing the topology. Its
	// values replace the defaults; flags set explicitly replace both.
	ConfigFile string
	// OutputDir receives one file per resource. Resources are written to
	// the command output when it is empty.
	OutputDir string
	// MetricsFile receives the pipeline metrics in the Prometheus text
	// format when set.
	MetricsFile string

	SSD   loki.SSD
	Proxy transform.ProxyConfig
}

func defaultEnv(name, defaultValue string) string {
	env, ok := os.LookupEnv(name)
	if !ok {
		return defaultValue
	}
	return env
}

// NewOptions creates the default options and loads any environment
// variable overrides.
func NewOptions() *Options {
	ssd := loki.Default()
	ssd.Image = defaultEnv("LOKI_IMAGE", ssd.Image)
	ssd.Namespace = os.Getenv("LOKI_NAMESPACE")
	return &Options{
		ConfigFile:  os.Getenv("LOKI_MANIFESTS_CONFIG"),
		MetricsFile: os.Getenv("LOKI_MANIFESTS_METRICS_FILE"),
		SSD:         ssd,
		Proxy: transform.ProxyConfig{
			HTTPProxy:  os.Getenv("HTTP_PROXY"),
			HTTPSProxy: os.Getenv("HTTPS_PROXY"),
			NoProxy:    os.Getenv("NO_PROXY"),
		},
	}
}

// Complete loads ConfigFile, keeping the values of the flags changed
// reports as explicitly set.
func (o *Options) Complete(changed func(flag string) bool) error {
	if len(o.ConfigFile) == 0 {
		return nil
	}
	raw, err := os.ReadFile(o.ConfigFile)
	if err != nil {
		return errors.Wrap(err, "failed to read the config file")
	}
	fromFile := o.SSD
	if err := yaml.Unmarshal(raw, &fromFile); err != nil {
		return errors.Wrapf(err, "failed to parse %s", o.ConfigFile)
	}
	explicit := map[string]func(){
		"image":          func() { fromFile.Image = o.SSD.Image },
		"read-replicas":  func() { fromFile.ReadReplicas = o.SSD.ReadReplicas },
		"write-replicas": func() { fromFile.WriteReplicas = o.SSD.WriteReplicas },
		"storage-size":   func() { fromFile.StorageSize = o.SSD.StorageSize },
		"namespace":      func() { fromFile.Namespace = o.SSD.Namespace },
	}
	for flag, keep := range explicit {
		if changed(flag) {
			keep()
		}
	}
	o.SSD = fromFile
	klog.V(2).Infof("Loaded topology from %s: %+v", o.ConfigFile, o.SSD)
	return nil
}

// Render builds the topology, runs it through the pipeline and writes the
// result to OutputDir, or to out when no directory is set.
func (o *Options) Render(out io.Writer) error {
	defer o.writeMetrics()

	p, err := o.SSD.Pipeline(o.Proxy)
	if err != nil {
		return err
	}
	rs, err := p.Run()
	if err != nil {
		return err
	}
	klog.V(2).Infof("Rendering %d resources", len(rs))

	var e pipeline.Emitter = render.Stream{W: out}
	if len(o.OutputDir) > 0 {
		e = render.Dir{Path: o.OutputDir}
	}
	return p.Emit(e)
}

// Validate checks the manifests under every path with the built-in
// validators. Every path is checked; failures are returned together.
func (o *Options) Validate(paths ...string) error {
	defer o.writeMetrics()

	var errs []error
	for _, path := range paths {
		rs, err := manifest.LoadResources(path)
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "failed to load %s", path))
			continue
		}
		if _, err := pipeline.New().AddValidator(validation.Defaults()...).Submit(rs...).Run(); err != nil {
			errs = append(errs, errors.Wrap(err, path))
			continue
		}
		klog.V(2).Infof("Validated %d resources from %s", len(rs), path)
	}
	return utilerrors.NewAggregate(errs)
}

func (o *Options) writeMetrics() {
	if len(o.MetricsFile) == 0 {
		return
	}
	if err := prometheus.WriteToTextfile(o.MetricsFile, prometheus.DefaultGatherer); err != nil {
		klog.Errorf("Failed to write metrics to %s: %v", o.MetricsFile, err)
	}
}

package main

import (
	"flag"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/openshift/loki-manifests/pkg/start"
)

var (
	rootCmd = &cobra.Command{
		Use:   "loki-manifests",
		Short: "Generate Kubernetes manifests for Loki",
		Long:  "",
	}

	opts = start.NewOptions()
)

func init() {
	klog.InitFlags(flag.CommandLine)
	_ = flag.CommandLine.Set("alsologtostderr", "true")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	rootCmd.PersistentFlags().StringVar(&opts.MetricsFile, "metrics-file", opts.MetricsFile, "Write pipeline metrics in the Prometheus text format to this file.")
}

func main() {
	defer klog.Flush()
	if err := rootCmd.Execute(); err != nil {
		klog.Exitf("Error executing: %v", err)
	}
}

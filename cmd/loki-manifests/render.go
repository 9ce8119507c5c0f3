package main

import (
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var (
	renderCmd = &cobra.Command{
		Use:   "render",
		Short: "Renders the Loki simple scalable deployment.",
		Long:  "",
		Run:   runRenderCmd,
	}
)

func init() {
	rootCmd.AddCommand(renderCmd)
	flags := renderCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigFile, "config", opts.ConfigFile, "YAML file describing the topology. Flags set explicitly take precedence.")
	flags.StringVar(&opts.OutputDir, "output-dir", opts.OutputDir, "The output directory where the manifests will be rendered. Manifests are written to stdout when empty.")
	flags.StringVar(&opts.SSD.Image, "image", opts.SSD.Image, "The Loki image.")
	flags.Int32Var(&opts.SSD.ReadReplicas, "read-replicas", opts.SSD.ReadReplicas, "Replicas of the read path.")
	flags.Int32Var(&opts.SSD.WriteReplicas, "write-replicas", opts.SSD.WriteReplicas, "Replicas of the write path.")
	flags.StringVar(&opts.SSD.StorageSize, "storage-size", opts.SSD.StorageSize, "Size of the volume claimed by each write replica.")
	flags.StringVar(&opts.SSD.Namespace, "namespace", opts.SSD.Namespace, "Namespace of the rendered resources.")
	flags.StringVar(&opts.Proxy.HTTPProxy, "http-proxy", opts.Proxy.HTTPProxy, "HTTP proxy injected into the Loki containers.")
	flags.StringVar(&opts.Proxy.HTTPSProxy, "https-proxy", opts.Proxy.HTTPSProxy, "HTTPS proxy injected into the Loki containers.")
	flags.StringVar(&opts.Proxy.NoProxy, "no-proxy", opts.Proxy.NoProxy, "Hosts excluded from proxying.")
}

func runRenderCmd(cmd *cobra.Command, args []string) {
	if err := opts.Complete(cmd.Flags().Changed); err != nil {
		klog.Fatalf("Render command failed: %v", err)
	}
	if err := opts.Render(cmd.OutOrStdout()); err != nil {
		klog.Fatalf("Render command failed: %v", err)
	}
}

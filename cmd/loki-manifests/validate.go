package main

import (
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var (
	validateCmd = &cobra.Command{
		Use:   "validate PATH...",
		Short: "Checks manifest files or directories with the built-in validators.",
		Long:  "",
		Args:  cobra.MinimumNArgs(1),
		Run:   runValidateCmd,
	}
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidateCmd(cmd *cobra.Command, args []string) {
	if err := opts.Validate(args...); err != nil {
		klog.Fatalf("Validate command failed: %v", err)
	}
	klog.V(2).Infof("All manifests are valid")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openshift/loki-manifests/pkg/version"
)

var (
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of loki-manifests",
		Long:  `All software has versions. This is loki-manifests'.`,
		Run:   runVersionCmd,
	}
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersionCmd(cmd *cobra.Command, args []string) {
	fmt.Println(version.String)
}

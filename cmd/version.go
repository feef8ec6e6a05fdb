package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build metadata, injected at release time via:
//
//	go build -ldflags "-X github.com/BangRocket/mypalclara/cmd.AppVersion=v1.2.3"
var (
	AppVersion = "development"
	BuildTime  = "unknown"
	GitCommit  = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		runVersion()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion() {
	fmt.Printf("mypalclara %s\n", AppVersion)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}

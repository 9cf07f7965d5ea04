package commands

import (
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			out := cmd.OutOrStdout()
			titleColor := color.New(color.FgCyan, color.Bold)

			titleColor.Fprint(out, "jsonapi-view version: ")
			color.New(color.FgWhite).Fprintln(out, Version)
			titleColor.Fprint(out, "Git commit: ")
			color.New(color.FgWhite).Fprintln(out, GitCommit)
			titleColor.Fprint(out, "Build date: ")
			color.New(color.FgWhite).Fprintln(out, BuildDate)
			titleColor.Fprint(out, "Go version: ")
			color.New(color.FgWhite).Fprintln(out, goVer)
		},
	}
}

// Package commands implements the jsonapi-view command line.
package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var configFile string

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jsonapi-view",
		Short: "Serve a blog object graph as JSON:API documents",
		Long: color.CyanString(`jsonapi-view - JSON:API document server

Loads authors, posts and comments from SQLite or PostgreSQL and renders them
as JSON:API documents. Related resources are embedded on request with the
"included" query parameter:

  GET /posts/1?included=author,comments.post`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ./jsonapi-view.yaml)")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewRenderCommand())
	rootCmd.AddCommand(NewRoutesCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

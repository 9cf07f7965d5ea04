package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/jsonapi-view/internal/cli/config"
)

// NewRoutesCommand creates the routes command
func NewRoutesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the served routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			// Routes do not depend on data
			cfg.Database.Seed = false
			cfg.Cache.Enabled = false

			app, err := NewApp(cmd.Context(), cfg, zap.NewNop())
			if err != nil {
				return err
			}
			defer app.Close()

			_, err = fmt.Fprint(cmd.OutOrStdout(), app.Router.RouteList())
			return err
		},
	}
}

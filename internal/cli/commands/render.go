package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/jsonapi-view/internal/cli/config"
	"github.com/conduit-lang/jsonapi-view/internal/jsonapi"
	"github.com/conduit-lang/jsonapi-view/internal/web/view"
)

var (
	renderInclude []string
	renderFields  []string
	renderCompact bool
)

// NewRenderCommand creates the render command
func NewRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <resource> [id]",
		Short: "Print the JSON:API document of a resource",
		Long: `Assemble a document without starting the server.

Examples:
  jsonapi-view render posts
  jsonapi-view render posts 1 --include author,comments
  jsonapi-view render authors 1 --include posts.comments --fields post=title`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runRender,
	}

	cmd.Flags().StringSliceVarP(&renderInclude, "include", "i", nil, "Relationship paths to include (comma separated)")
	cmd.Flags().StringSliceVar(&renderFields, "fields", nil, "Sparse fieldsets as type=field (repeatable)")
	cmd.Flags().BoolVar(&renderCompact, "compact", false, "Print the document without indentation")

	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	var id *int64
	if len(args) == 2 {
		parsed, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q: must be an integer", args[1])
		}
		id = &parsed
	}

	fieldsets, err := parseFieldsets(renderFields)
	if err != nil {
		return err
	}

	app, err := NewApp(cmd.Context(), cfg, zap.NewNop())
	if err != nil {
		return err
	}
	defer app.Close()

	data, err := view.FindBlogResource(cmd.Context(), app.Store, args[0], id)
	if err != nil {
		return err
	}

	body, err := app.Handler.Document(data, jsonapi.ParseIncludePaths(renderInclude), fieldsets)
	if err != nil {
		return err
	}

	if !renderCompact {
		var indented bytes.Buffer
		if err := json.Indent(&indented, body, "", "  "); err != nil {
			return err
		}
		body = indented.Bytes()
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(body))
	return err
}

// parseFieldsets turns ["post=title", "post=body", "author=name"] into a fieldset map
func parseFieldsets(values []string) (map[string][]string, error) {
	fieldsets := make(map[string][]string)
	for _, value := range values {
		typ, field, ok := strings.Cut(value, "=")
		if !ok || typ == "" || field == "" {
			return nil, fmt.Errorf("invalid fieldset %q: expected type=field", value)
		}
		fieldsets[typ] = append(fieldsets[typ], field)
	}
	return fieldsets, nil
}

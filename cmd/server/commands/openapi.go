package commands

import (
	"encoding/json"
	"fmt"

	"github.com/benvon/content-api/api/openapi"
	"github.com/spf13/cobra"
)

// NewOpenAPICmd creates the openapi command
func NewOpenAPICmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the API document",
		Long:  "Print the OpenAPI document served at /api-docs",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch format {
			case "yaml":
				_, err := out.Write(openapi.YAML())
				return err
			case "json":
				doc, err := openapi.Document()
				if err != nil {
					return err
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			default:
				return fmt.Errorf("unknown format %q (want yaml or json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	return cmd
}

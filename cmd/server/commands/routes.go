package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/benvon/content-api/internal/config"
	"github.com/benvon/content-api/internal/ratelimit"
	"github.com/benvon/content-api/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// NewRoutesCmd creates the routes command
func NewRoutesCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List registered routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			srv := server.New(cfg, zap.NewNop(), ratelimit.NewFromRate(cfg.Rate))
			routes, err := srv.Routes()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, r := range routes {
				fmt.Fprintf(tw, "%s\t%s\n", r.Method, r.Path)
			}
			return tw.Flush()
		},
	}
}

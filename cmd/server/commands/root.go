// Package commands holds the content-api command line.
package commands

import (
	"github.com/benvon/content-api/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd creates the root command. Running it without a subcommand
// starts the server.
func NewRootCmd() *cobra.Command {
	v := config.NewViper()

	cmd := &cobra.Command{
		Use:           "content-api",
		Short:         "Jokes, quotes and facts over HTTP",
		Long:          "HTTP content service with per-client fixed-window rate limiting",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v)
		},
	}

	flags := cmd.PersistentFlags()
	flags.Int("port", 3000, "listening port (PORT)")
	flags.String("log-level", "info", "debug, info, warn or error (LOG_LEVEL)")
	flags.String("rate-limit", "100-M", "requests per window, e.g. 100-M (RATE_LIMIT)")
	bindFlag(v, cmd, "port", "port")
	bindFlag(v, cmd, "log_level", "log-level")
	bindFlag(v, cmd, "rate_limit", "rate-limit")

	cmd.AddCommand(NewServeCmd(v))
	cmd.AddCommand(NewOpenAPICmd())
	cmd.AddCommand(NewRoutesCmd(v))
	return cmd
}

// bindFlag only panics on a programming error (unknown flag name)
func bindFlag(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

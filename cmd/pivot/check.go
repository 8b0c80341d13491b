package main

import (
	"context"
	"fmt"
	"io"

	"pivot/internal/config"
	"pivot/internal/repository/file"
	"pivot/internal/service"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and route file without serving",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return check(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
}

// check loads the route table the same way serve does and reports its size.
func check(ctx context.Context, out io.Writer, cfg *config.Config) error {
	routes := service.NewRouteService(file.NewRouteRepository(cfg.Store.DataLocation))
	if err := routes.Load(ctx); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "%s: %d routes\n", cfg.Store.DataLocation, len(routes.List(ctx)))
	return err
}

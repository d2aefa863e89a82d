package main

import (
	"github.com/spf13/cobra"

	"github.com/sgea/academic-events/internal/infrastructure/config"
	"github.com/sgea/academic-events/pkg/logger"
)

func newRootCmd() *cobra.Command {
	a := &app{}
	var envFiles []string

	root := &cobra.Command{
		Use:          "sgea",
		Short:        "Academic event management service",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context(), envFiles...)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.Init(logger.Options{
				Level:   cfg.LogLevel,
				Pretty:  !cfg.IsProduction(),
				Service: "sgea",
			})
			return nil
		},
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load before reading the environment (default .env)")

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newCertificatesCmd(a),
	)
	return root
}

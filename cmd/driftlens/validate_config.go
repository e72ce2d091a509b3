package main

import (
	"fmt"

	"github.com/brennhill/driftlens/internal/config"
	"github.com/spf13/cobra"
)

func newValidateConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate-config [path]",
		Short: "Check that a .driftlens.yml file parses and validates",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ".driftlens.yml"
			if len(args) > 0 {
				path = args[0]
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			fmt.Printf("%s is valid: %d strategies, %d user rules configured\n",
				path, len(cfg.Strategies), len(cfg.UserRules))
			return nil
		},
	}
	return cmd
}

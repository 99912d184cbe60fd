package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/okian/swingscore/internal/config"
	"github.com/okian/swingscore/internal/domain/anomaly"
	"github.com/okian/swingscore/internal/domain/bands"
)

// effectiveConfig is the scoring part of the configuration, in the layout
// the config file accepts.
type effectiveConfig struct {
	Anomaly  anomaly.Thresholds `yaml:"anomaly"`
	Profiles bands.Profiles     `yaml:"profiles"`
}

func newProfilesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "Print the effective band profiles and anomaly thresholds as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := config.LoadFrom(ctx, *configPath)
			if err != nil {
				return err
			}
			if _, err := bands.NewScorer(cfg.Profiles); err != nil {
				return fmt.Errorf("profiles are invalid: %w", err)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(effectiveConfig{Anomaly: cfg.Anomaly, Profiles: cfg.Profiles}); err != nil {
				return fmt.Errorf("encode profiles: %w", err)
			}
			return enc.Close()
		},
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/brennhill/driftlens/internal/config"
	"github.com/brennhill/driftlens/internal/fetch"
	"github.com/brennhill/driftlens/internal/orchestrator"
	"github.com/brennhill/driftlens/internal/plugins"
	"github.com/brennhill/driftlens/internal/report"
	"github.com/brennhill/driftlens/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newScanCmd() *cobra.Command {
	var (
		repoDir    string
		baseRef    string
		headRef    string
		outputJSON bool
		noColor    bool
		pluginPaths []string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the diff between two revisions for cross-layer drift",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			v.SetEnvPrefix("DRIFTLENS")
			v.AutomaticEnv()
			_ = v.BindPFlag("repo", cmd.Flags().Lookup("repo"))
			_ = v.BindPFlag("base", cmd.Flags().Lookup("base"))
			_ = v.BindPFlag("head", cmd.Flags().Lookup("head"))

			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			registry, err := newRegistryWithPlugins(pluginPaths)
			if err != nil {
				return fmt.Errorf("loading plugins: %w", err)
			}

			ctx := context.Background()
			dir := v.GetString("repo")
			cs, err := fetch.DiffChangeSet(ctx, dir, v.GetString("base"), v.GetString("head"))
			if err != nil {
				return fmt.Errorf("building change set: %w", err)
			}
			if len(cs.Files) == 0 {
				fmt.Fprintln(os.Stderr, "no changed files between the given revisions")
			}

			fetcher := fetch.NewGitFetcher(dir)
			log := telemetry.NewLogrus()
			metrics := telemetry.NewMetrics(prometheus.NewRegistry())

			o := orchestrator.New(fetcher, cfg, log, metrics, registry)
			result, err := o.Run(ctx, cs)
			if err != nil {
				return err
			}

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
				if result.Summary.Blocked {
					os.Exit(1)
				}
				return nil
			}

			renderer := &report.TextRenderer{NoColor: noColor}
			out, err := renderer.Render(result)
			if err != nil {
				return err
			}
			fmt.Println(out)

			if result.Summary.Blocked {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "path to the git repository to scan")
	cmd.Flags().StringVar(&baseRef, "base", "HEAD~1", "base revision")
	cmd.Flags().StringVar(&headRef, "head", "HEAD", "head revision")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "emit the report as JSON instead of text")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored text output")
	cmd.Flags().StringSliceVar(&pluginPaths, "plugin", nil, "path to a plugin analyzer (.yml/.yaml or .so), repeatable")
	return cmd
}

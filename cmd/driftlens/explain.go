package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/brennhill/driftlens/internal/config"
	"github.com/spf13/cobra"
)

// strategyDescriptions mirrors the six correlation strategies registered in
// internal/correlate/strategy, for human-readable explain output.
var strategyDescriptions = map[string]string{
	"entity":         "matches findings touching the same named entity (table, endpoint, service) across layers",
	"operation":      "matches findings whose changed operations (CRUD verbs, HTTP methods) line up",
	"infrastructure": "matches findings referencing the same infrastructure resource (IaC <-> config/app layer)",
	"dependency":     "matches findings connected through a package/library dependency edge",
	"temporal":       "weak signal: two findings whose files share a directory",
	"code":           "matches findings via the file-scoped call graph (handler <-> DB table usage)",
}

func newExplainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain [strategy]",
		Short: "Describe the correlation strategies driftlens runs, or one by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				name := args[0]
				sc, ok := cfg.Strategies[name]
				if !ok {
					return fmt.Errorf("unknown strategy %q (run 'driftlens explain' to list them)", name)
				}
				fmt.Printf("%s\n\n%s\n\n", name, strategyDescriptions[name])
				fmt.Printf("weight:    %.2f\n", sc.Weight)
				fmt.Printf("enabled:   %v\n", sc.Enabled)
				fmt.Printf("threshold: %.2f\n", sc.Threshold)
				fmt.Printf("budget:    low=%d medium=%d high=%d\n", sc.Budget.Low, sc.Budget.Medium, sc.Budget.High)
				return nil
			}

			names := cfg.StrategyNames()
			sort.Strings(names)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STRATEGY\tWEIGHT\tENABLED\tDESCRIPTION")
			for _, name := range names {
				sc := cfg.Strategies[name]
				fmt.Fprintf(w, "%s\t%.2f\t%v\t%s\n", name, sc.Weight, sc.Enabled, strategyDescriptions[name])
			}
			return w.Flush()
		},
	}
	return cmd
}

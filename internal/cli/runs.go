package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/automind-ai/automind/graph"
	"github.com/automind-ai/automind/store"
)

// withRunStore opens the configured run store for the duration of fn.
func withRunStore(cmd *cobra.Command, load configLoader, fn func(store.RunStore) error) error {
	cfg, err := load()
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	runs, err := a.runStore(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to open run store: %w", err)
	}
	if cfg.Store.Type == "memory" {
		fmt.Fprintln(cmd.ErrOrStderr(), mutedStyle.Render("run store is in memory; configure store.type to keep runs"))
	}
	return fn(runs)
}

// Fill colours of a run's tasks in its Mermaid chart.
const (
	failedFill  = "#FF6B6B"
	skippedFill = "#D3D3D3"
)

// runMermaid redraws the plan of a recorded run, marking the failed task and
// the skipped ones.
func runMermaid(r *store.RunRecord) (string, error) {
	g := graph.New()
	for _, name := range r.Order {
		g.AddNode(name, nil)
	}
	for _, name := range r.Order {
		for _, dep := range r.Dependencies[name] {
			if err := g.AddEdge(dep, name, nil); err != nil {
				return "", err
			}
		}
	}

	highlight := make(map[string]string, len(r.Skipped)+1)
	for _, name := range r.Skipped {
		highlight[name] = skippedFill
	}
	if r.FailedTask != "" {
		highlight[r.FailedTask] = failedFill
	}
	return g.DrawMermaidWithOptions(graph.MermaidOptions{Direction: "TD", Highlight: highlight}), nil
}

func newRunsCommand(load configLoader) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded plan runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunStore(cmd, load, func(runs store.RunStore) error {
				records, err := runs.List(cmd.Context(), limit)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, mutedStyle.Render("No runs recorded."))
					return nil
				}
				for _, r := range records {
					line := fmt.Sprintf("%s  %s  %s  %v",
						r.ID,
						stateStyle(r.State).Render(fmt.Sprintf("%-9s", r.State)),
						r.StartedAt.Local().Format(time.DateTime),
						r.Duration().Round(time.Millisecond),
					)
					if r.FailedTask != "" {
						line += errorStyle.Render("  failed at " + r.FailedTask)
					}
					fmt.Fprintln(out, line)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of runs to list (0 for all)")

	var mermaid bool
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a run record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunStore(cmd, load, func(runs store.RunStore) error {
				r, err := runs.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if mermaid {
					chart, err := runMermaid(r)
					if err != nil {
						return err
					}
					fmt.Fprint(cmd.OutOrStdout(), chart)
					return nil
				}
				data, err := json.MarshalIndent(r, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			})
		},
	}
	show.Flags().BoolVar(&mermaid, "mermaid", false, "print the run's plan as a Mermaid flowchart, failed task in red")
	cmd.AddCommand(show)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a run record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunStore(cmd, load, func(runs store.RunStore) error {
				return runs.Delete(cmd.Context(), args[0])
			})
		},
	})

	return cmd
}

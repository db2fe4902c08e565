package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/automind-ai/automind/assistant"
)

func newAskCommand(load configLoader) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question from the data directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if workers > 0 {
				cfg.Planner.Workers = workers
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
			asst, err := a.assistant(runs)
			if err != nil {
				return err
			}

			answer, err := asst.Ask(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			printAnswer(cmd.OutOrStdout(), answer)
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of tasks to run in parallel")
	return cmd
}

func printAnswer(w io.Writer, answer *assistant.Answer) {
	fmt.Fprintln(w, boxStyle.Render(answer.Text))

	if len(answer.Sources) > 0 {
		fmt.Fprintln(w, labelStyle.Render("Sources:"))
		for _, src := range answer.Sources {
			fmt.Fprintf(w, "  - %s\n", src)
		}
	}
	if len(answer.URLs) > 0 {
		fmt.Fprintln(w, labelStyle.Render("Web:"))
		for _, u := range answer.URLs {
			fmt.Fprintf(w, "  - %s\n", u)
		}
	}
	fmt.Fprintln(w, mutedStyle.Render("Run: "+answer.RunID))
}

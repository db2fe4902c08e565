package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPlanCommand(load configLoader) *cobra.Command {
	var mermaid bool

	cmd := &cobra.Command{
		Use:   "plan [question]",
		Short: "Show the task plan without executing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			asst, err := a.assistant(nil)
			if err != nil {
				return err
			}

			question := strings.Join(args, " ")
			if question == "" {
				question = "<question>"
			}
			p, err := asst.Plan(question)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if mermaid {
				fmt.Fprint(out, p.Graph().DrawMermaid())
				return nil
			}

			levels, err := p.Graph().Levels()
			if err != nil {
				return err
			}

			fmt.Fprintln(out, titleStyle.Render("Plan for: "+question))
			for i, level := range levels {
				fmt.Fprintln(out, labelStyle.Render(fmt.Sprintf("Stage %d", i+1)))
				for _, name := range level {
					line := "  " + taskStyle.Render(name)
					if desc := asst.Registry().Description(name); desc != "" {
						line += " " + mutedStyle.Render(desc)
					}
					if deps, _ := p.Graph().Predecessors(name); len(deps) > 0 {
						line += mutedStyle.Render(" (after " + strings.Join(deps, ", ") + ")")
					}
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&mermaid, "mermaid", false, "print the plan as a Mermaid flowchart")
	return cmd
}

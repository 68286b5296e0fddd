package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpgo/payoff-planner/internal/config"
	"github.com/rpgo/payoff-planner/internal/output"
)

func newScenarioCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Save, inspect and compare against scenario snapshots",
	}
	cmd.AddCommand(
		newScenarioSaveCmd(a),
		newScenarioListCmd(a),
		newScenarioShowCmd(a),
		newScenarioDeleteCmd(a),
		newScenarioCompareCmd(a),
	)
	return cmd
}

func newScenarioSaveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <plan.yaml>",
		Short: "Snapshot a plan into the scenario store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := a.loadPlan(args[0], "")
			if err != nil {
				return err
			}
			c, err := a.scenarios(cmd.Context())
			if err != nil {
				return err
			}
			name, _ := cmd.Flags().GetString("name")
			id, err := c.SaveScenario(cmd.Context(), name, params)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().String("name", "", "display name (defaults to the generated id)")
	return cmd
}

func newScenarioListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.scenarios(cmd.Context())
			if err != nil {
				return err
			}
			ids, err := c.ListScenarios(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, id := range ids {
				s, err := c.Store.Load(cmd.Context(), id)
				if err != nil {
					fmt.Fprintf(out, "%s\t(unreadable: %v)\n", id, err)
					continue
				}
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", s.ID, s.Params.Kind, s.CreatedAt.Format("2006-01-02 15:04"), s.Name)
			}
			return nil
		},
	}
}

func newScenarioShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved scenario as a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.scenarios(cmd.Context())
			if err != nil {
				return err
			}
			params, err := c.LoadScenario(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := config.MarshalPlan(params)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newScenarioDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a saved scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.scenarios(cmd.Context())
			if err != nil {
				return err
			}
			return c.DeleteScenario(cmd.Context(), args[0])
		},
	}
}

func newScenarioCompareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <plan.yaml> [id...]",
		Short: "Measure a plan against saved scenarios",
		Long: `With one id, report the saved scenario as baseline and the plan as
candidate. With several ids (or --all), rank the saved scenarios by total
interest and show each one's delta to the plan.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			active, err := a.loadPlan(args[0], "")
			if err != nil {
				return err
			}
			c, err := a.scenarios(cmd.Context())
			if err != nil {
				return err
			}
			ids := args[1:]
			if all, _ := cmd.Flags().GetBool("all"); all {
				if ids, err = c.ListScenarios(cmd.Context()); err != nil {
					return err
				}
			}
			summary, _ := cmd.Flags().GetBool("summary")

			switch len(ids) {
			case 0:
				return fmt.Errorf("no saved scenarios to compare against")
			case 1:
				sc, err := c.CompareWithSaved(cmd.Context(), ids[0], active)
				if err != nil {
					// the active result stands on its own
					if sc.Active.Params.Kind != "" {
						if rerr := a.render(cmd, &output.Report{Run: &sc.Active, SummaryOnly: summary}); rerr != nil {
							return rerr
						}
					}
					return err
				}
				return a.render(cmd, &output.Report{Comparison: sc.Comparison, SummaryOnly: summary})
			}
			ranking, err := c.RankSaved(cmd.Context(), active, ids)
			if err != nil {
				return err
			}
			return a.render(cmd, &output.Report{Ranking: ranking, SummaryOnly: summary})
		},
	}
	cmd.Flags().Bool("all", false, "compare against every saved scenario")
	cmd.Flags().Bool("summary", true, "omit the monthly ledgers")
	return cmd
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rpgo/payoff-planner/internal/calculation"
	"github.com/rpgo/payoff-planner/internal/config"
	"github.com/rpgo/payoff-planner/internal/domain"
	"github.com/rpgo/payoff-planner/internal/output"
)

func newEMICmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emi",
		Short: "Compute the fixed monthly installment for a loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			principal, err := decimalFlag(cmd, "principal")
			if err != nil {
				return err
			}
			rate, err := decimalFlag(cmd, "rate")
			if err != nil {
				return err
			}
			years, _ := cmd.Flags().GetInt("years")

			b := calculation.SummarizeInstallment(principal, rate, years)
			out := cmd.OutOrStdout()
			if output.NormalizeFormatName(a.settings.Output.Format) == "json" {
				data, err := json.MarshalIndent(b, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}
			if b.Installment.IsZero() {
				fmt.Fprintln(out, "Installment not computable for these inputs")
				return nil
			}
			fmt.Fprintf(out, "Monthly installment: %s\n", output.FormatCurrency(b.Installment))
			fmt.Fprintf(out, "Installments:        %d\n", b.TenureMonths)
			fmt.Fprintf(out, "Total payable:       %s\n", output.FormatCurrency(b.TotalPayable))
			fmt.Fprintf(out, "Total interest:      %s\n", output.FormatCurrency(b.TotalInterest))
			return nil
		},
	}
	cmd.Flags().String("principal", "", "amount borrowed")
	cmd.Flags().String("rate", "0", "annual interest rate in percent")
	cmd.Flags().Int("years", 0, "tenure in years")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("years")
	return cmd
}

func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, raw, err)
	}
	return v, nil
}

func newAmortizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "amortize <plan.yaml>",
		Short: "Simulate a loan month by month, applying its prepayments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := a.loadPlan(args[0], domain.LoanScenario)
			if err != nil {
				return err
			}
			result, err := a.engine.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			summary, _ := cmd.Flags().GetBool("summary")
			return a.render(cmd, &output.Report{Run: &result, SummaryOnly: summary})
		},
	}
	cmd.Flags().Bool("summary", false, "omit the monthly ledger")
	return cmd
}

func newPayoffCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payoff <plan.yaml>",
		Short: "Schedule paying off several debts under one monthly budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := a.loadPlan(args[0], domain.PayoffScenario)
			if err != nil {
				return err
			}
			if s, _ := cmd.Flags().GetString("strategy"); s != "" {
				strategy, err := domain.ParseStrategy(s)
				if err != nil {
					return err
				}
				params.Payoff.Strategy = strategy
			}
			summary, _ := cmd.Flags().GetBool("summary")

			if both, _ := cmd.Flags().GetBool("compare-strategies"); both {
				cmp := calculation.CompareStrategies(*params.Payoff)
				return a.render(cmd, &output.Report{Strategies: &cmp, SummaryOnly: summary})
			}
			result, err := a.engine.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			return a.render(cmd, &output.Report{Run: &result, SummaryOnly: summary})
		},
	}
	cmd.Flags().String("strategy", "", "override the plan's strategy (avalanche or snowball)")
	cmd.Flags().Bool("compare-strategies", false, "run both strategies and report the difference")
	cmd.Flags().Bool("summary", false, "omit the monthly timeline")
	return cmd
}

func newCompareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <baseline.yaml> <candidate.yaml>",
		Short: "Compare two plans; deltas are candidate minus baseline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseline, err := a.loadPlan(args[0], "")
			if err != nil {
				return err
			}
			candidate, err := a.loadPlan(args[1], "")
			if err != nil {
				return err
			}
			cmp, err := a.engine.Compare(cmd.Context(), baseline, candidate)
			if err != nil {
				return err
			}
			summary, _ := cmd.Flags().GetBool("summary")
			return a.render(cmd, &output.Report{Comparison: &cmp, SummaryOnly: summary})
		},
	}
	cmd.Flags().Bool("summary", true, "omit the monthly ledgers")
	return cmd
}

func newInitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write an example plan file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, _ := cmd.Flags().GetString("kind")
			var params domain.ScenarioParams
			switch domain.ScenarioKind(kind) {
			case domain.LoanScenario:
				params = a.parser.CreateExampleLoanPlan()
			case domain.PayoffScenario:
				params = a.parser.CreateExamplePayoffPlan()
			default:
				return fmt.Errorf("unknown plan kind %q (want loan or payoff)", kind)
			}
			data, err := config.MarshalPlan(params)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example %s plan written to %s\n", kind, args[0])
			return nil
		},
	}
	cmd.Flags().String("kind", string(domain.LoanScenario), "plan kind: loan or payoff")
	return cmd
}

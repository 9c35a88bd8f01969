package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/alexupport/alexupport/internal/cost"
	"github.com/alexupport/alexupport/internal/usage"
)

var usageSince string

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Summarize recorded token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := usage.NewSQLiteRecorder(cfg.Usage.DBPath)
		if err != nil {
			return err
		}
		defer rec.Close()

		var since time.Time
		if usageSince != "" {
			since, err = time.Parse("2006-01-02", usageSince)
			if err != nil {
				return eris.Wrapf(err, "parse --since %q", usageSince)
			}
		}

		summaries, err := rec.Summarize(cmd.Context(), since)
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Println("no usage recorded")
			return nil
		}

		calc := cost.NewCalculator(cost.DefaultRates())
		var total float64
		fmt.Printf("%-30s %-24s %8s %12s %12s %10s\n", "MODEL", "OPERATION", "CALLS", "INPUT", "OUTPUT", "COST")
		for _, s := range summaries {
			c := calc.Tokens(s.Model, s.InputTokens, s.OutputTokens)
			total += c
			priced := fmt.Sprintf("$%.4f", c)
			if !calc.Known(s.Model) {
				priced = "unpriced"
			}
			fmt.Printf("%-30s %-24s %8d %12d %12d %10s\n", s.Model, s.Op, s.Calls, s.InputTokens, s.OutputTokens, priced)
		}
		fmt.Printf("estimated total: $%.4f\n", total)
		return nil
	},
}

func init() {
	usageCmd.Flags().StringVar(&usageSince, "since", "", "only include records on or after this date (YYYY-MM-DD)")
	rootCmd.AddCommand(usageCmd)
}

package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/roboquant/market"
)

func newExchangesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exchanges",
		Short: "List the registered exchanges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tZONE\tCURRENCY")
			for _, e := range market.Exchanges() {
				code := e.Code()
				if code == "" {
					code = "(default)"
				}
				cur := "-"
				if e.Currency() != nil {
					cur = e.Currency().Code()
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", code, e.Location(), cur)
			}
			return w.Flush()
		},
	}
}

func newCalendarCmd() *cobra.Command {
	var next string

	cmd := &cobra.Command{
		Use:   "calendar <exchange> <from> [to]",
		Short: "Show the trading sessions of an exchange",
		Long: `List each local date from..to (inclusive) with its session, or
"closed" on weekends and holidays. With --next, print the first opening
at or after the given time instead.

Examples:
  roboquant calendar XNYS 2024-07-01 2024-07-08
  roboquant calendar XLON --next 2024-12-24T17:00:00Z`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := market.GetExchange(args[0])
			out := cmd.OutOrStdout()

			if next != "" {
				t, err := market.ParseTime(next)
				if err != nil {
					return err
				}
				open, err := e.NextOpen(t)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s next open %s\n", e.Code(), open.Format(time.RFC3339))
				return nil
			}

			if len(args) < 2 {
				return fmt.Errorf("calendar needs a from date or --next")
			}
			last := args[1]
			if len(args) == 3 {
				last = args[2]
			}
			tf, err := market.ParseTimeframe(args[1], last, true)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for d := tf.Start(); !d.After(tf.End()); d = d.AddDate(0, 0, 1) {
				s, err := e.Session(d)
				if err != nil {
					fmt.Fprintf(w, "%s\t%s\tclosed\n", d.Format("2006-01-02"), d.Weekday().String()[:3])
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s-%s\t%s\n", d.Format("2006-01-02"), d.Weekday().String()[:3],
					s.Start().In(e.Location()).Format("15:04"), s.End().In(e.Location()).Format("15:04"), e.Location())
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&next, "next", "", "print the next opening at or after this time")
	return cmd
}

func newTimeframeCmd() *cobra.Command {
	tfCmd := &cobra.Command{
		Use:   "timeframe",
		Short: "Split timeframes for walk-forward and train/test runs",
	}

	var (
		period    string
		overlap   string
		remaining bool
		inclusive bool
	)
	splitCmd := &cobra.Command{
		Use:   "split <from> <to>",
		Short: "Cut a timeframe into consecutive chunks",
		Example: `  roboquant timeframe split 2020-01-01 2024-01-01 --period 1Y
  roboquant timeframe split 2024-01-01 2024-03-01 --period 30D --overlap 5D --remaining`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, err := market.ParseTimeframe(args[0], args[1], inclusive)
			if err != nil {
				return err
			}
			p, err := market.ParsePeriod(period)
			if err != nil {
				return err
			}
			var ov market.Period
			if overlap != "" {
				if ov, err = market.ParsePeriod(overlap); err != nil {
					return err
				}
			}
			chunks, err := tf.Split(p, ov, remaining)
			if err != nil {
				return err
			}
			for _, c := range chunks {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
	splitCmd.Flags().StringVarP(&period, "period", "p", "1Y", "chunk length, e.g. 1Y, 6M, 30D or 4h")
	splitCmd.Flags().StringVar(&overlap, "overlap", "", "overlap between chunks")
	splitCmd.Flags().BoolVar(&remaining, "remaining", false, "keep a last chunk shorter than the period")
	splitCmd.Flags().BoolVar(&inclusive, "inclusive", false, "include the end time")

	var test float64
	trainTestCmd := &cobra.Command{
		Use:   "traintest <from> <to>",
		Short: "Split a timeframe into a train and a test part",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, err := market.ParseTimeframe(args[0], args[1], false)
			if err != nil {
				return err
			}
			train, testTf, err := tf.SplitTrainTest(test)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "train %s\ntest  %s\n", train, testTf)
			return nil
		},
	}
	trainTestCmd.Flags().Float64Var(&test, "test", 0.25, "fraction of the timeframe used for testing")

	tfCmd.AddCommand(splitCmd, trainTestCmd)
	return tfCmd
}

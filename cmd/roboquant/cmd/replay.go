package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/roboquant/broker"
	"github.com/rustyeddy/roboquant/journal"
	"github.com/rustyeddy/roboquant/money"
	"github.com/rustyeddy/roboquant/pricing"
	"github.com/rustyeddy/roboquant/rates"
)

func newReplayCmd(root *rootOptions) *cobra.Command {
	var (
		record    bool
		feedRates bool
	)

	cmd := &cobra.Command{
		Use:   "replay <trades.csv>",
		Short: "Rebuild an account from a trades file",
		Long: `Replay applies every trade of a CSV trades file to a fresh account
funded with the configured initial cash. Positions are marked at the last
traded price and the account is valued in the base currency with the
configured rates, or with --feed-rates at the last traded forex prices.

With --record the trades and the final equity snapshot are written to the
configured journal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg

			recs, err := journal.ReadTradesFile(args[0])
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				return fmt.Errorf("%s: no trades", args[0])
			}
			fixed, err := cfg.Converter()
			if err != nil {
				return err
			}

			acc := broker.NewAccount(cfg.BaseCurrency(), cfg.InitialCash().Amounts()...)
			if record {
				j, err := journal.Open(cfg.Journal.Type, cfg.Journal.Path)
				if err != nil {
					return err
				}
				defer j.Close()
				acc.Journal = j
			}

			prices := pricing.NewQuoteStore()
			for _, r := range recs {
				if _, err := acc.Apply(broker.Trade{
					ID:      r.TradeID,
					OrderID: r.OrderID,
					Asset:   r.Asset,
					Time:    r.Time,
					Size:    r.Size,
					Price:   r.Price,
				}); err != nil {
					return err
				}
				prices.Set(pricing.Quote{Asset: r.Asset, Time: r.Time, Bid: r.Price, Ask: r.Price})
			}

			var conv money.Converter = fixed
			if feedRates {
				conv = rates.NewFeedRates(prices, cfg.BaseCurrency())
			}

			last := acc.LastUpdate
			acc.Mark(prices, last)
			snap, err := acc.Snapshot(conv, last)
			if err != nil {
				return err
			}
			log.Info().Int("trades", len(recs)).Stringer("equity", snap.Equity).Msg("replay done")

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ASSET\tSIZE\tAVG\tLAST\tUNREALIZED")
			for _, a := range acc.Assets() {
				p := acc.Position(a)
				fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%s\n", a.Symbol(), p.Size, p.AvgPrice, p.MktPrice, p.UnrealizedPNL(a))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "cash       %s\n", acc.Cash)
			fmt.Fprintf(out, "realized   %s\n", acc.RealizedPNL())
			fmt.Fprintf(out, "equity     %s (cash %s, positions %s)\n",
				snap.Equity, snap.Cash.Format(), snap.Positions.Format())
			return nil
		},
	}
	cmd.Flags().BoolVar(&feedRates, "feed-rates", false, "convert with the replayed forex prices instead of the rate table")
	cmd.Flags().BoolVar(&record, "record", false, "write trades and equity to the configured journal")
	return cmd
}

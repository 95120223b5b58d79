package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/roboquant/journal"
	"github.com/rustyeddy/roboquant/market"
	"github.com/rustyeddy/roboquant/money"
)

type journalOptions struct {
	root *rootOptions
	kind string
	path string
	from string
	to   string
	org  bool
}

func (o *journalOptions) source() (kind, path string) {
	kind, path = o.kind, o.path
	if kind == "" {
		kind = o.root.cfg.Journal.Type
	}
	if path == "" {
		path = o.root.cfg.Journal.Path
	}
	return strings.ToLower(kind), path
}

func (o *journalOptions) timeframe() (market.Timeframe, error) {
	start, end := market.MinTime, market.MaxTime
	var err error
	if o.from != "" {
		if start, err = market.ParseTime(o.from); err != nil {
			return market.Timeframe{}, err
		}
	}
	if o.to == "" {
		return market.NewTimeframe(start, end, true)
	}
	if end, err = market.ParseTime(o.to); err != nil {
		return market.Timeframe{}, err
	}
	// a bare date covers the whole day
	if len(o.to) == len("2006-01-02") {
		return market.NewTimeframe(start, end.AddDate(0, 0, 1), false)
	}
	return market.NewTimeframe(start, end, true)
}

func (o *journalOptions) sqlite() (*journal.SQLite, error) {
	kind, path := o.source()
	if kind != "sqlite" && kind != "sqlite3" {
		return nil, fmt.Errorf("%q needs a sqlite journal: %w", kind, journal.ErrUnknownJournal)
	}
	return journal.NewSQLite(path)
}

// trades loads the trades within tf from either journal type.
func (o *journalOptions) trades(tf market.Timeframe) ([]journal.TradeRecord, error) {
	kind, path := o.source()
	switch kind {
	case "csv":
		all, err := journal.ReadTradesFile(filepath.Join(path, "trades.csv"))
		if err != nil {
			return nil, err
		}
		out := all[:0]
		for _, tr := range all {
			if tf.Contains(tr.Time) {
				out = append(out, tr)
			}
		}
		return out, nil
	case "sqlite", "sqlite3":
		j, err := journal.NewSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		defer j.Close()
		return j.ListTradesBetween(tf)
	}
	return nil, fmt.Errorf("journal %q: %w", kind, journal.ErrUnknownJournal)
}

func newJournalCmd(root *rootOptions) *cobra.Command {
	o := &journalOptions{root: root}

	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Query trade journal data",
		Long: `Query trades recorded in a CSV or SQLite journal. The journal
defaults to the one in the config file.

Examples:
  roboquant journal trades --type sqlite --path roboquant.db --from 2024-01-01
  roboquant journal trade 01HV3K5Z8Q9R7T2W4X6Y8Z0A1B --type sqlite --path roboquant.db
  roboquant journal summary --type csv --path ./journal`,
	}
	journalCmd.PersistentFlags().StringVar(&o.kind, "type", "", "journal type: csv or sqlite")
	journalCmd.PersistentFlags().StringVarP(&o.path, "path", "d", "", "csv directory or sqlite file")
	journalCmd.PersistentFlags().StringVar(&o.from, "from", "", "first date or time")
	journalCmd.PersistentFlags().StringVar(&o.to, "to", "", "last date or time (inclusive)")

	tradesCmd := &cobra.Command{
		Use:   "trades",
		Short: "List trades",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, err := o.timeframe()
			if err != nil {
				return err
			}
			recs, err := o.trades(tf)
			if err != nil {
				return err
			}
			if o.org {
				fmt.Fprint(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
				return nil
			}
			return printTrades(cmd.OutOrStdout(), recs)
		},
	}
	tradesCmd.Flags().BoolVar(&o.org, "org", false, "print Org-mode entries")

	tradeCmd := &cobra.Command{
		Use:   "trade <trade-id>",
		Short: "Show one trade from a sqlite journal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := o.sqlite()
			if err != nil {
				return err
			}
			defer j.Close()

			rec, err := j.GetTrade(args[0])
			if err != nil {
				return fmt.Errorf("get trade: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
			return nil
		},
	}

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Sum the realized PNL per currency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, err := o.timeframe()
			if err != nil {
				return err
			}
			recs, err := o.trades(tf)
			if err != nil {
				return err
			}
			pnl := money.NewWallet()
			for _, r := range recs {
				pnl.Deposit(r.PNL)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d trades, realized PNL %s\n", len(recs), pnl)
			return nil
		},
	}

	journalCmd.AddCommand(tradesCmd, tradeCmd, summaryCmd)
	return journalCmd
}

func printTrades(out io.Writer, recs []journal.TradeRecord) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTRADE\tASSET\tSIZE\tPRICE\tPNL")
	for _, r := range recs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%s\n",
			r.Time.UTC().Format("2006-01-02T15:04:05Z"), r.TradeID, r.Asset.Symbol(), r.Size, r.Price, r.PNL)
	}
	return w.Flush()
}

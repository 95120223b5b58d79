package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/roboquant/money"
	"github.com/rustyeddy/roboquant/risk"
)

func newSizeCmd(root *rootOptions) *cobra.Command {
	var (
		af         assetFlags
		entry      float64
		stop       float64
		takeProfit float64
		riskPct    float64
		fractional bool
	)

	cmd := &cobra.Command{
		Use:   "size <symbol>",
		Short: "Size a trade by the equity put at risk",
		Long: `Size computes the position that loses risk-pct of the configured
initial cash when stopped out, then checks it against the risk policy.

Examples:
  roboquant size AAPL --entry 100 --stop 95 --tp 110
  roboquant size -t forex EUR/USD --entry 1.0850 --stop 1.0800 --risk 0.01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			asset, err := af.asset(args[0])
			if err != nil {
				return err
			}
			conv, err := cfg.Converter()
			if err != nil {
				return err
			}

			now := time.Now()
			equity, err := cfg.InitialCash().Convert(conv, cfg.BaseCurrency(), now)
			if err != nil {
				return err
			}
			policy := cfg.Policy()
			if riskPct == 0 {
				riskPct = policy.DefaultRiskPct
			}

			size, err := risk.Size(asset, equity, riskPct, entry, stop, fractional, conv, now)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s entry %g stop %g: size %s\n", asset.Type(), asset.Symbol(), entry, stop, size)
			if size.IsZero() {
				return nil
			}

			d := risk.Evaluate(policy, risk.Intent{
				Time: now, Asset: asset, Size: size, Entry: entry, Stop: stop, TakeProfit: takeProfit,
			}, risk.Exposure{Equity: equity, DayRealized: money.Zero(equity.Currency)}, conv)
			fmt.Fprintf(out, "risk %s (%.2f%% of %s)", d.PlannedRisk, 100*d.PlannedRiskPct, equity)
			if d.PlannedRR > 0 {
				fmt.Fprintf(out, ", RR %.2f", d.PlannedRR)
			}
			fmt.Fprintln(out)
			for _, v := range d.Violations {
				fmt.Fprintf(out, "  %s: %s\n", v.Code, v.Msg)
			}
			return nil
		},
	}
	af.register(cmd)
	cmd.Flags().Float64Var(&entry, "entry", 0, "entry price")
	cmd.Flags().Float64Var(&stop, "stop", 0, "stop price")
	cmd.Flags().Float64Var(&takeProfit, "tp", 0, "take profit price")
	cmd.Flags().Float64Var(&riskPct, "risk", 0, "fraction of equity to risk (default: risk.default_risk_pct)")
	cmd.Flags().BoolVar(&fractional, "fractional", false, "allow fractional sizes")
	_ = cmd.MarkFlagRequired("entry")
	_ = cmd.MarkFlagRequired("stop")
	return cmd
}

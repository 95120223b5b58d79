package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/roboquant/market"
	"github.com/rustyeddy/roboquant/money"
)

type assetFlags struct {
	kind       string
	currency   string
	exchange   string
	multiplier float64
}

func (f *assetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.kind, "type", "t", "stock", "asset type: stock, option, future, forex or crypto")
	cmd.Flags().StringVar(&f.currency, "currency", "USD", "asset currency (ignored for forex)")
	cmd.Flags().StringVarP(&f.exchange, "exchange", "e", "", "exchange code for stocks")
	cmd.Flags().Float64Var(&f.multiplier, "multiplier", 0, "contract multiplier for options and futures")
}

func (f *assetFlags) asset(symbol string) (market.Asset, error) {
	c := money.GetCurrency(f.currency)
	switch strings.ToLower(f.kind) {
	case "stock":
		return market.NewStock(symbol, c, market.GetExchange(f.exchange))
	case "option":
		return market.NewOption(symbol, c, f.multiplier)
	case "future":
		return market.NewFuture(symbol, c, f.multiplier)
	case "forex":
		return market.NewForex(symbol)
	case "crypto":
		return market.NewCrypto(symbol, c)
	}
	return nil, fmt.Errorf("asset type %q: %w", f.kind, market.ErrUnknownAssetType)
}

func newValueCmd(root *rootOptions) *cobra.Command {
	var (
		af assetFlags
		to string
	)

	cmd := &cobra.Command{
		Use:   "value <symbol> <size> <price>",
		Short: "Value a position in an asset",
		Long: `Compute size × multiplier × price in the asset currency.

Examples:
  roboquant value AAPL 10 150.25
  roboquant value -t forex EUR/USD 100000 1.0931 --to EUR
  roboquant value -t future ES 2 5200 --multiplier 50`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			asset, err := af.asset(args[0])
			if err != nil {
				return err
			}
			size, err := market.ParseSize(args[1])
			if err != nil {
				return err
			}
			price, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("price %q: %w", args[2], err)
			}

			v := asset.Value(size, price)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s %s @ %s = %s\n", asset.Type(), asset.Symbol(), size, args[2], v)
			if to == "" {
				return nil
			}

			conv, err := root.cfg.Converter()
			if err != nil {
				return err
			}
			converted, err := v.Convert(conv, money.GetCurrency(to), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  = %s\n", converted)
			return nil
		},
	}
	af.register(cmd)
	cmd.Flags().StringVar(&to, "to", "", "also convert the value to this currency")
	return cmd
}

func newConvertCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <amount> <from> <to>",
		Short: "Convert an amount with the configured rates",
		Example: `  roboquant convert 100 EUR USD
  roboquant -c roboquant.yaml convert 2500 GBP JPY`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("amount %q: %w", args[0], err)
			}
			conv, err := root.cfg.Converter()
			if err != nil {
				return err
			}

			a := money.NewAmount(money.GetCurrency(args[1]), v)
			got, err := a.Convert(conv, money.GetCurrency(args[2]), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", a, got)
			return nil
		},
	}
}

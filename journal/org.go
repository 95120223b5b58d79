package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTradeOrg renders a TradeRecord as an Org-mode entry for a trading
// diary. The facts go in a PROPERTIES drawer; the Notes heading is left for
// the reader.
func FormatTradeOrg(t TradeRecord) string {
	symbol, kind, exchange := "?", "?", ""
	if t.Asset != nil {
		symbol, kind, exchange = t.Asset.Symbol(), t.Asset.Type(), t.Asset.Exchange().Code()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "** Trade: %s (%s)\n", symbol, shortID(t.TradeID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %s\n", t.TradeID)
	fmt.Fprintf(&b, ":ORDER_ID: %s\n", t.OrderID)
	fmt.Fprintf(&b, ":ASSET: %s\n", symbol)
	fmt.Fprintf(&b, ":TYPE: %s\n", kind)
	if exchange != "" {
		fmt.Fprintf(&b, ":EXCHANGE: %s\n", exchange)
	}
	fmt.Fprintf(&b, ":SIZE: %s\n", t.Size)
	fmt.Fprintf(&b, ":PRICE: %s\n", f(t.Price))
	fmt.Fprintf(&b, ":TIME: %s\n", t.Time.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":PNL: %s\n", t.PNL)
	b.WriteString(":END:\n\n")
	b.WriteString("*** Notes\n- \n")
	return b.String()
}

// FormatTradesOrg renders multiple trades separated by a blank line.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}

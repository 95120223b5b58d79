package journal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	tr := testTrades(t)[2]
	tr.TradeID = "01HV3K5Z8Q9R7T2W4X6Y8Z0A1B"

	result := FormatTradeOrg(tr)

	assert.True(t, strings.HasPrefix(result, "** Trade: AAPL (01HV3K5Z)\n"))
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":TRADE_ID: 01HV3K5Z8Q9R7T2W4X6Y8Z0A1B")
	assert.Contains(t, result, ":ORDER_ID: O3")
	assert.Contains(t, result, ":TYPE: Stock")
	assert.Contains(t, result, ":EXCHANGE: XNAS")
	assert.Contains(t, result, ":SIZE: -10")
	assert.Contains(t, result, ":PRICE: 190.25")
	assert.Contains(t, result, ":TIME: 2024-01-03T03:04:05Z")
	assert.Contains(t, result, ":PNL: USD 50.00")
	assert.Contains(t, result, ":END:")
	assert.Contains(t, result, "*** Notes")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FormatTradesOrg(nil))

	out := FormatTradesOrg(testTrades(t))
	assert.Equal(t, 3, strings.Count(out, "** Trade: "))
	assert.Contains(t, out, "** Trade: EUR/USD (T2)")
	assert.Contains(t, out, ":SIZE: -1000.5")
}

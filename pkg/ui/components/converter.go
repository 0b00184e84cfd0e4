package components

import (
	"strings"

	"github.com/fd1az/optrack/business/valuation/domain"
)

// ConverterView renders the MOTO denomination rate and what op20 units are
// worth at priceUSD each.
func ConverterView(op20, priceUSD float64) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("CONVERTER"))
	b.WriteString("\n\n")
	b.WriteString(kv("Rate", "1 CBRC20 = "+domain.FormatNumber(domain.CBRCToOP20Ratio, 3)+" OP20"))
	b.WriteString(kv("CBRC20 supply", domain.FormatNumber(domain.CBRCSupply, 0)))
	b.WriteString(kv("OP20 supply", domain.FormatNumber(domain.OP20Supply, 0)+" (max)"))
	b.WriteString(rule(40))
	b.WriteString(kv("Value", goldStyle.Render(domain.FormatUSD(op20*priceUSD))))

	return b.String()
}

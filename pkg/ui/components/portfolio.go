package components

import (
	"fmt"
	"strings"

	"github.com/fd1az/optrack/business/valuation/app"
	"github.com/fd1az/optrack/business/valuation/domain"
)

// PortfolioView renders per-position value and PNL plus totals.
func PortfolioView(s app.Snapshot) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("HOLDINGS"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %-10s %16s %12s %14s %14s %10s\n",
		"Asset", "Quantity", "Price", "Value", "PNL", "PNL %"))
	b.WriteString(rule(80))

	for _, pos := range s.Portfolio.Positions {
		v := pos.Valuate()
		price := domain.FormatPrice(pos.UnitPrice)
		if pos.UnitPrice == 0 {
			price = domain.NotApplicable
		}
		pnl, pct := domain.NotApplicable, domain.NotApplicable
		if v.Invested > 0 {
			st := signed(v.PNL)
			pnl = st.Render(domain.FormatUSD(v.PNL))
			pct = st.Render(domain.FormatPercent(v.PNLPercent))
		}
		b.WriteString(fmt.Sprintf("  %-10s %16s %12s %14s %s %s\n",
			pos.Name,
			domain.FormatNumber(pos.Quantity, 2),
			price,
			domain.FormatUSD(v.Value),
			padLeft(pnl, 14),
			padLeft(pct, 10),
		))
	}

	b.WriteString(rule(80))
	t := s.Totals
	b.WriteString(fmt.Sprintf("  %-10s %16s %12s %14s %s %s\n",
		"Total", "", "",
		valueStyle.Render(domain.FormatUSD(t.Value)),
		padLeft(signed(t.PNL).Render(domain.FormatUSD(t.PNL)), 14),
		padLeft(signed(t.PNL).Render(domain.FormatPercent(t.PNLPercent)), 10),
	))

	b.WriteString("\n")
	b.WriteString(kv("MOTO (OP20 equiv.)", domain.FormatNumber(s.Portfolio.OP20Equivalent(), 2)))
	b.WriteString(kv("CBRC-20 value", domain.FormatUSD(s.Portfolio.CBRCValue())))
	b.WriteString(kv("OP20 value", domain.FormatUSD(s.Portfolio.OP20Value())))
	b.WriteString(kv("OP20 price", domain.FormatPrice(s.Portfolio.OP20UnitPrice)))
	b.WriteString(kv("Invested", domain.FormatUSD(t.Invested)))

	return b.String()
}

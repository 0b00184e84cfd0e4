package components

import (
	"fmt"
	"strings"

	"github.com/fd1az/optrack/business/valuation/app"
	"github.com/fd1az/optrack/business/valuation/domain"
)

// ScenariosView renders every market cap scenario for the snapshot's tier,
// with the current market cap first.
func ScenariosView(s app.Snapshot) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("SCENARIOS (%s supply, %s circulating)",
		s.Tier, domain.FormatNumber(s.Tier.Circulating(), 0))))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %-8s %-13s %12s %14s %14s %10s\n",
		"MCap", "Tier", "MOTO", "Value", "PNL", "PNL %"))
	b.WriteString(rule(76))

	row := func(r domain.ScenarioRow, label string) {
		pnl := r.PNL.Format(domain.FormatUSD)
		pct := r.PNLPercent.Format(domain.FormatPercent)
		if r.PNL.Applicable {
			st := signed(r.PNL.Value)
			pnl, pct = st.Render(pnl), st.Render(pct)
		}
		b.WriteString(fmt.Sprintf("  %-8s %-13s %12s %14s %s %s\n",
			label,
			r.Tier,
			domain.FormatPrice(r.ImpliedPrice),
			domain.FormatUSD(r.Value),
			padLeft(pnl, 14),
			padLeft(pct, 10),
		))
	}

	row(s.Current, domain.FormatUSD(s.Current.MarketCap))
	b.WriteString(rule(76))
	for _, r := range s.Scenarios {
		row(r, r.Label)
	}

	return b.String()
}

package components

import (
	"strings"

	"github.com/fd1az/optrack/business/valuation/domain"
)

// AirdropView renders the Motocats holding and its MOTO allocation.
func AirdropView(a domain.Airdrop) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("MOTOCATS"))
	b.WriteString("\n\n")
	b.WriteString(kv("Floor", domain.FormatUSD(a.FloorUSD)))
	b.WriteString(kv("NFT value", domain.FormatUSD(a.NFTValue)))
	b.WriteString(kv("MOTO per cat", domain.FormatNumber(a.PerCat, 2)))
	b.WriteString(kv("Your allocation", domain.FormatNumber(a.Allocation, 2)+" MOTO"))
	b.WriteString(kv("Airdrop value", domain.FormatUSD(a.AirdropValue)))
	b.WriteString(rule(40))
	b.WriteString(kv("Total", goldStyle.Render(domain.FormatUSD(a.Total))))

	return b.String()
}

package domain

// Airdrop defaults.
const (
	DefaultAirdropPool   = 50_000_000
	DefaultTotalMotocats = 550
	DefaultFloorBTC      = 0.015
)

// AirdropInput is the raw text of the Motocats calculator.
type AirdropInput struct {
	CatsOwned string
	FloorBTC  string
	BTCUSD    string
	Pool      string
	TotalCats string
	MOTOPrice string
}

// Airdrop is the value of a Motocats holding plus its MOTO airdrop.
type Airdrop struct {
	FloorUSD     float64
	NFTValue     float64
	PerCat       float64 // MOTO per cat
	Allocation   float64 // MOTO for the holding
	AirdropValue float64 // USD
	Total        float64
}

// CalculateAirdrop parses the input and values the holding. A total cat
// count of zero falls back to 1.
func CalculateAirdrop(in AirdropInput) Airdrop {
	cats := ParseOrZero(in.CatsOwned)
	total := ParseOrZero(in.TotalCats)
	if total <= 0 {
		total = 1
	}

	floorUSD := ParseOrZero(in.FloorBTC) * ParseOrZero(in.BTCUSD)
	perCat := ParseOrZero(in.Pool) / total
	allocation := cats * perCat
	airdropValue := allocation * ParseOrZero(in.MOTOPrice)
	nftValue := cats * floorUSD

	return Airdrop{
		FloorUSD:     floorUSD,
		NFTValue:     nftValue,
		PerCat:       perCat,
		Allocation:   allocation,
		AirdropValue: airdropValue,
		Total:        nftValue + airdropValue,
	}
}

package domain

import (
	"math"
	"math/big"
	"testing"
)

const eps = 1e-9

func approx(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= eps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func e18(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func TestConvertRoundTrip(t *testing.T) {
	amounts := []float64{0, 1, 0.000001, 12345.6789, 21_000_000, 1e15}
	ratios := []float64{CBRCToOP20Ratio, 1, 0.5, 3.3333333, 1e-6, 1e8}

	for _, x := range amounts {
		for _, r := range ratios {
			got := ConvertBack(Convert(x, r), r)
			if !approx(got, x) {
				t.Errorf("ConvertBack(Convert(%v, %v)) = %v", x, r, got)
			}
		}
	}

	if ConvertBack(10, 0) != 0 {
		t.Error("zero ratio must yield 0")
	}
}

func TestCBRCToOP20(t *testing.T) {
	// 21M CBRC maps onto the 1B OP20 supply.
	got := CBRCToOP20(CBRCSupply)
	if math.Abs(got-OP20Supply) > 1 {
		t.Errorf("CBRCToOP20(21M) = %v", got)
	}
	if !approx(OP20ToCBRC(got), CBRCSupply) {
		t.Errorf("OP20ToCBRC = %v", OP20ToCBRC(got))
	}
}

func TestSats(t *testing.T) {
	if SatsToBTC(50_000_000) != 0.5 {
		t.Error("SatsToBTC")
	}
	if !approx(SatsToUSD(1000, 100_000), 1) {
		t.Errorf("SatsToUSD = %v", SatsToUSD(1000, 100_000))
	}
	if got := BTCToSats(0.00344); got != 344_000 {
		t.Errorf("BTCToSats = %d", got)
	}
}

func TestPriceFromMarketCap(t *testing.T) {
	tests := []struct {
		name    string
		mcap    float64
		supply  float64
		want    float64
		wantNaN bool
	}{
		{"one_dollar", 1_000_000_000, 1_000_000_000, 1, false},
		{"zero_mcap", 0, 550_000_000, 0, false},
		{"zero_supply_sentinel", 1_000_000, 0, 0, true},
		{"negative_supply_sentinel", 1_000_000, -1, 0, true},
		{"inf_mcap_sentinel", math.Inf(1), 1, 0, true},
		{"nan_supply_sentinel", 1, math.NaN(), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceFromMarketCap(tt.mcap, tt.supply)
			if math.IsInf(got, 0) {
				t.Fatalf("got Inf")
			}
			if tt.wantNaN {
				if !math.IsNaN(got) || IsPriced(got) {
					t.Errorf("got %v, want NaN sentinel", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriceFromPoolReserves(t *testing.T) {
	tests := []struct {
		name     string
		asset    *big.Int
		quote    *big.Int
		assetDec uint8
		want     float64
		wantOK   bool
	}{
		{"both_18", e18(1000), e18(2), 18, 0.002, true},
		{"asset_6_decimals", big.NewInt(1_000_000), e18(3), 6, 3, true},
		{"zero_asset_reserve", big.NewInt(0), e18(1), 18, 0, false},
		{"nil_reserve", nil, e18(1), 18, 0, false},
		{"zero_quote", e18(5), big.NewInt(0), 18, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PriceFromPoolReserves(tt.asset, tt.quote, tt.assetDec, MotoSwapQuoteDecimals)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !approx(got, tt.want) {
				t.Errorf("price = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolvePoolPrice(t *testing.T) {
	const moto = "0x0a6732489a31e6de07917a28ff7df311fc5f98f6e1664943ac1c3fe7893bdab5"
	const btc = "0x00000000000000000000000000000000000000000000000000000000000000b7"

	tests := []struct {
		name   string
		sides  [2]PoolSide
		want   float64
		wantOK bool
	}{
		{
			name:   "asset_is_token0",
			sides:  [2]PoolSide{{moto, e18(1000)}, {btc, e18(4)}},
			want:   0.004,
			wantOK: true,
		},
		{
			name:   "asset_is_token1_upper_case",
			sides:  [2]PoolSide{{btc, e18(4)}, {"0X0A6732489A31E6DE07917A28FF7DF311FC5F98F6E1664943AC1C3FE7893BDAB5", e18(2000)}},
			want:   0.002,
			wantOK: true,
		},
		{
			name:   "neither_side_matches",
			sides:  [2]PoolSide{{btc, e18(4)}, {btc, e18(2000)}},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolvePoolPrice(tt.sides, moto, 18)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !approx(got, tt.want) {
				t.Errorf("price = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMirror(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"cbrc", MirrorCBRC("1"), "47,62"},
		{"cbrc_grouped", MirrorCBRC("1.000"), "47619,05"},
		{"op20", MirrorOP20("4761,9047619"), "100,0000"},
		{"op20_zero", MirrorOP20("0"), "0,0000"},
		{"empty_clears", MirrorCBRC(""), ""},
		{"invalid_clears", MirrorOP20("abc"), ""},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

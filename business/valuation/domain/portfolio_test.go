package domain

import "testing"

func TestPNLPercentZeroWhenNothingInvested(t *testing.T) {
	for _, value := range []float64{0, 1, 1e9} {
		v := NewValuation(value, 0)
		if v.PNLPercent != 0 {
			t.Errorf("value %v: PNLPercent = %v, want 0", value, v.PNLPercent)
		}
		if v.PNL != value {
			t.Errorf("value %v: PNL = %v", value, v.PNL)
		}
	}
}

func testHoldings() HoldingsInput {
	return HoldingsInput{
		CBRCAmount:       "10",
		OP20Amount:       "0",
		MotocatsCount:    "2",
		PillsAmount:      "1.000",
		CBRCPriceSats:    "1.000",
		InvestedMotocats: "500",
		InvestedPills:    "50",
	}
}

func TestBuildPortfolio(t *testing.T) {
	p := BuildPortfolio(testHoldings(), DefaultMarket())

	if !approx(p.CBRCUnitPrice, 1) {
		t.Errorf("CBRC price = %v, want $1", p.CBRCUnitPrice)
	}
	if !approx(p.OP20UnitPrice, 1/CBRCToOP20Ratio) {
		t.Errorf("OP20 price = %v", p.OP20UnitPrice)
	}
	if !approx(p.MotocatsFloor, 344) {
		t.Errorf("floor = %v, want $344", p.MotocatsFloor)
	}

	tests := []struct {
		name      string
		wantValue float64
		wantPNL   float64
		wantPct   float64
	}{
		{PositionMOTO, 10, 10, 0},
		{PositionMotocats, 688, 188, 37.6},
		{PositionPills, 0, -50, -100},
	}
	for _, tt := range tests {
		pos, ok := p.Position(tt.name)
		if !ok {
			t.Fatalf("missing position %s", tt.name)
		}
		v := pos.Valuate()
		if !approx(v.Value, tt.wantValue) || !approx(v.PNL, tt.wantPNL) || !approx(v.PNLPercent, tt.wantPct) {
			t.Errorf("%s = %+v", tt.name, v)
		}
	}

	if !approx(p.CBRCValue()+p.OP20Value(), 10) {
		t.Errorf("MOTO breakdown = %v + %v", p.CBRCValue(), p.OP20Value())
	}

	totals := p.Totals()
	if !approx(totals.Value, 698) || !approx(totals.Invested, 550) || !approx(totals.PNL, 148) {
		t.Errorf("totals = %+v", totals)
	}
}

func TestBuildPortfolio_EmptyInput(t *testing.T) {
	p := BuildPortfolio(HoldingsInput{}, DefaultMarket())

	if p.CBRCUnitPrice != 0 || p.OP20UnitPrice != 0 {
		t.Errorf("prices = %v / %v, want 0", p.CBRCUnitPrice, p.OP20UnitPrice)
	}
	totals := p.Totals()
	if totals.Value != 0 || totals.PNL != 0 || totals.PNLPercent != 0 {
		t.Errorf("totals = %+v", totals)
	}
}

func TestBuildPortfolio_ClearedCBRCPriceIsZero(t *testing.T) {
	for _, price := range []string{"", "0", "abc"} {
		p := BuildPortfolio(HoldingsInput{CBRCAmount: "100", CBRCPriceSats: price}, DefaultMarket())
		if v := p.Totals().Value; v != 0 {
			t.Errorf("price %q: total value = %v, want 0", price, v)
		}
	}
}

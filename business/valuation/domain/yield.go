package domain

import "math"

// Compounding is how often staking rewards are reinvested.
type Compounding int

const (
	CompoundDaily Compounding = iota
	CompoundWeekly
	CompoundMonthly
)

// PerYear returns the number of compounding periods in a year.
func (c Compounding) PerYear() float64 {
	switch c {
	case CompoundWeekly:
		return 52
	case CompoundMonthly:
		return 12
	default:
		return 365
	}
}

func (c Compounding) String() string {
	switch c {
	case CompoundWeekly:
		return "weekly"
	case CompoundMonthly:
		return "monthly"
	default:
		return "daily"
	}
}

// Next cycles daily -> weekly -> monthly -> daily.
func (c Compounding) Next() Compounding {
	return (c + 1) % 3
}

// Yield calculator defaults.
const (
	DefaultDailyVolume   = 30_000_000
	DefaultFeePercent    = 0.2
	DefaultTotalStaked   = 500_000_000
	DefaultAssetPrice    = 0.33
	DefaultHorizonMonths = 12
)

// YieldParams are the staking calculator inputs. Negative values are not
// rejected; they flow through the guarded formulas.
type YieldParams struct {
	DailyVolume   float64
	FeePercent    float64
	TotalStaked   float64
	UserStaked    float64
	AssetPrice    float64
	Compounding   Compounding
	HorizonMonths float64
}

// DefaultYieldParams returns the calculator defaults with nothing staked.
func DefaultYieldParams() YieldParams {
	return YieldParams{
		DailyVolume:   DefaultDailyVolume,
		FeePercent:    DefaultFeePercent,
		TotalStaked:   DefaultTotalStaked,
		AssetPrice:    DefaultAssetPrice,
		Compounding:   CompoundDaily,
		HorizonMonths: DefaultHorizonMonths,
	}
}

// YieldInput is the raw text of the calculator fields.
type YieldInput struct {
	DailyVolume   string
	FeePercent    string
	TotalStaked   string
	UserStaked    string
	AssetPrice    string
	HorizonMonths string
	Compounding   Compounding
}

// Params parses the input. An empty or zero horizon falls back to 12 months.
func (in YieldInput) Params() YieldParams {
	horizon := ParseOrZero(in.HorizonMonths)
	if horizon == 0 {
		horizon = DefaultHorizonMonths
	}
	return YieldParams{
		DailyVolume:   ParseOrZero(in.DailyVolume),
		FeePercent:    ParseOrZero(in.FeePercent),
		TotalStaked:   ParseOrZero(in.TotalStaked),
		UserStaked:    ParseOrZero(in.UserStaked),
		AssetPrice:    ParseOrZero(in.AssetPrice),
		Compounding:   in.Compounding,
		HorizonMonths: horizon,
	}
}

// Rewards are simple (not compounded) reward rollups.
type Rewards struct {
	Daily   float64
	Weekly  float64
	Monthly float64
	Yearly  float64
}

func rollup(daily float64) Rewards {
	return Rewards{
		Daily:   daily,
		Weekly:  daily * 7,
		Monthly: daily * 30,
		Yearly:  daily * 365,
	}
}

// CompoundProjection is the staked position after reinvesting at the simple APY.
type CompoundProjection struct {
	Principal   float64
	FinalValue  float64
	Gain        float64
	GainPercent float64
}

// YieldResult is the calculator output.
type YieldResult struct {
	DailyFees        float64
	FeePerStakedUnit float64
	Quote            Rewards // in quote currency
	Asset            Rewards // in staked asset units
	SimpleAPY        float64 // percent
	PoolShare        float64 // percent of total staked
	Compound         CompoundProjection
}

// CalculateYield computes rewards, simple APY and the compound projection.
// Every division is guarded to 0.
func CalculateYield(p YieldParams) YieldResult {
	dailyFees := p.DailyVolume * p.FeePercent / 100

	var perUnit float64
	if p.TotalStaked > 0 {
		perUnit = dailyFees / p.TotalStaked
	}

	dailyQuote := p.UserStaked * perUnit
	var dailyAsset float64
	if p.AssetPrice != 0 {
		dailyAsset = dailyQuote / p.AssetPrice
	}

	quote := rollup(dailyQuote)
	principal := p.UserStaked * p.AssetPrice

	var apy float64
	if p.UserStaked > 0 && principal != 0 {
		apy = quote.Yearly / principal * 100
	}

	var share float64
	if p.TotalStaked > 0 {
		share = p.UserStaked / p.TotalStaked * 100
	}

	return YieldResult{
		DailyFees:        dailyFees,
		FeePerStakedUnit: perUnit,
		Quote:            quote,
		Asset:            rollup(dailyAsset),
		SimpleAPY:        apy,
		PoolShare:        share,
		Compound:         ProjectCompound(principal, apy, p.Compounding, p.HorizonMonths/12),
	}
}

// Compound applies discrete compounding:
// principal * (1 + apy/100/n)^(n*years).
func Compound(principal, apyPercent float64, c Compounding, years float64) float64 {
	n := c.PerYear()
	return principal * math.Pow(1+apyPercent/100/n, n*years)
}

// ProjectCompound compounds principal over years and reports the gain.
func ProjectCompound(principal, apyPercent float64, c Compounding, years float64) CompoundProjection {
	final := Compound(principal, apyPercent, c, years)
	gain := final - principal

	var pct float64
	if principal > 0 {
		pct = gain / principal * 100
	}
	return CompoundProjection{
		Principal:   principal,
		FinalValue:  final,
		Gain:        gain,
		GainPercent: pct,
	}
}

// VolumePreset is a daily volume reference for a DEX in one market condition.
type VolumePreset struct {
	DEX       string
	Condition string
	Volume    float64
}

// Market conditions for volume presets.
const (
	ConditionBear    = "bear"
	ConditionNeutral = "neutral"
	ConditionBull    = "bull"
)

var volumePresets = [...]VolumePreset{
	{"uniswap", ConditionBear, 300_000_000},
	{"uniswap", ConditionNeutral, 1_000_000_000},
	{"uniswap", ConditionBull, 3_000_000_000},
	{"pancakeswap", ConditionBear, 200_000_000},
	{"pancakeswap", ConditionNeutral, 800_000_000},
	{"pancakeswap", ConditionBull, 2_200_000_000},
	{"sushiswap", ConditionBear, 10_000_000},
	{"sushiswap", ConditionNeutral, 30_000_000},
	{"sushiswap", ConditionBull, 100_000_000},
}

// VolumePresets returns the DEX volume references.
func VolumePresets() []VolumePreset {
	out := make([]VolumePreset, len(volumePresets))
	copy(out, volumePresets[:])
	return out
}

// LookupVolume returns the preset volume for a DEX and condition.
func LookupVolume(dex, condition string) (float64, bool) {
	for _, p := range volumePresets {
		if p.DEX == dex && p.Condition == condition {
			return p.Volume, true
		}
	}
	return 0, false
}

// StakingPreset is a reference total staked amount.
type StakingPreset struct {
	Name    string
	Percent float64 // of OP20 supply
	Amount  float64
}

var stakingPresets = [...]StakingPreset{
	{"veryLow", 10, 100_000_000},
	{"low", 25, 250_000_000},
	{"medium", 50, 500_000_000},
	{"high", 65, 650_000_000},
	{"veryHigh", 80, 800_000_000},
}

// StakingPresets returns the total staked references, ascending.
func StakingPresets() []StakingPreset {
	out := make([]StakingPreset, len(stakingPresets))
	copy(out, stakingPresets[:])
	return out
}

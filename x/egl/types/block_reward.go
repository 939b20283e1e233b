package types

import "cosmossdk.io/math"

// BlockRewardTier pays Percent of the base reward when the distance between
// the block gas limit and the desired value is at most MaxDelta.
type BlockRewardTier struct {
	MaxDelta uint64
	Percent  math.LegacyDec
}

// BlockRewardTiers are ordered by MaxDelta. A distance above the last tier
// earns nothing.
var BlockRewardTiers = []BlockRewardTier{
	{MaxDelta: 0, Percent: math.LegacyNewDec(100)},
	{MaxDelta: 100_000, Percent: math.LegacyNewDecWithPrec(925, 1)},
	{MaxDelta: 500_000, Percent: math.LegacyNewDecWithPrec(625, 1)},
	{MaxDelta: 900_000, Percent: math.LegacyNewDecWithPrec(325, 1)},
	{MaxDelta: 1_000_000, Percent: math.LegacyNewDec(25)},
}

// BlockReward is the proximity reward for one block.
type BlockReward struct {
	GasLimit   uint64
	DesiredEgl uint64
	Delta      uint64
	Percentage math.LegacyDec
	Amount     math.Int
}

// GasLimitDelta returns |a - b|.
func GasLimitDelta(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

// BlockRewardPercentage returns the reward percentage for a distance from the
// desired gas limit. It is symmetric for limits above and below the target.
func BlockRewardPercentage(delta uint64) math.LegacyDec {
	for _, tier := range BlockRewardTiers {
		if delta <= tier.MaxDelta {
			return tier.Percent
		}
	}
	return math.LegacyZeroDec()
}

// CalculateBlockReward returns the proximity reward of a block whose gas limit
// is actualGasLimit, paid out of base.
func CalculateBlockReward(actualGasLimit, desiredEgl uint64, base math.Int) BlockReward {
	delta := GasLimitDelta(actualGasLimit, desiredEgl)
	pct := BlockRewardPercentage(delta)
	return BlockReward{
		GasLimit:   actualGasLimit,
		DesiredEgl: desiredEgl,
		Delta:      delta,
		Percentage: pct,
		Amount:     pct.MulInt(base).QuoInt64(100).TruncateInt(),
	}
}

package types

import "cosmossdk.io/math"

const (
	// BasisPoints is 100%.
	BasisPoints uint64 = 10_000

	// InitialThresholdBasisPoints is the participation required during the
	// first half year.
	InitialThresholdBasisPoints uint64 = 500

	// ThresholdRampStartEpoch is the last epoch using the initial threshold.
	ThresholdRampStartEpoch uint64 = 26

	// ThresholdIncreasePerYear is added to the threshold every 52 epochs
	// after the ramp starts, pro rata per epoch.
	ThresholdIncreasePerYear uint64 = 1_000

	// EpochsPerYear is the number of weekly epochs in a year.
	EpochsPerYear uint64 = 52

	// MaxThresholdBasisPoints caps the participation threshold.
	MaxThresholdBasisPoints uint64 = 5_000
)

// VotingThresholdBasisPoints returns the share of tokens in circulation that
// must take part in an epoch's vote for the tally to pass.
func VotingThresholdBasisPoints(epoch uint64) uint64 {
	if epoch <= ThresholdRampStartEpoch {
		return InitialThresholdBasisPoints
	}
	bp := InitialThresholdBasisPoints + (epoch-ThresholdRampStartEpoch)*ThresholdIncreasePerYear/EpochsPerYear
	return min(bp, MaxThresholdBasisPoints)
}

// ThresholdMet reports whether votesTotal is at least thresholdBp of
// circulation, compared without rounding.
func ThresholdMet(votesTotal, circulation math.Int, thresholdBp uint64) bool {
	if !circulation.IsPositive() {
		return false
	}
	return votesTotal.Mul(math.NewIntFromUint64(BasisPoints)).GTE(circulation.Mul(math.NewIntFromUint64(thresholdBp)))
}

// VotePercentage returns votesTotal / circulation as a percentage.
func VotePercentage(votesTotal, circulation math.Int) math.LegacyDec {
	if !circulation.IsPositive() {
		return math.LegacyZeroDec()
	}
	return math.LegacyNewDecFromInt(votesTotal).MulInt64(100).QuoInt(circulation)
}

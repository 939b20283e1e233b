package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// EpochRange is the half open range of epochs [Start, End).
type EpochRange struct {
	Start uint64
	End   uint64
}

// NewEpochRange returns the range of n epochs beginning at start.
func NewEpochRange(start, n uint64) EpochRange {
	return EpochRange{Start: start, End: start + n}
}

// Len returns the number of epochs in the range.
func (r EpochRange) Len() uint64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Clip returns the part of r that lies within [lo, hi).
func (r EpochRange) Clip(lo, hi uint64) EpochRange {
	start, end := max(r.Start, lo), min(r.End, hi)
	if end < start {
		end = start
	}
	return EpochRange{Start: start, End: end}
}

func (r EpochRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// WindowContribution is what a single vote adds to every epoch of its window.
type WindowContribution struct {
	VoteWeight        math.Int
	GasTargetWeighted math.Int
	Votes             math.Int
	Reward            math.Int
}

// EpochWindow holds the vote sums of one epoch. It lives in a ring slot
// selected by WindowSlot and is tagged with the epoch it belongs to, so a slot
// still holding an older epoch reads as empty.
type EpochWindow struct {
	Epoch          uint64   `json:"epoch"`
	VoteWeightSum  math.Int `json:"vote_weight_sum"`
	GasTargetSum   math.Int `json:"gas_target_sum"`
	VotesTotal     math.Int `json:"votes_total"`
	VoterRewardSum math.Int `json:"voter_reward_sum"`
}

// NewEpochWindow returns an empty window for the epoch.
func NewEpochWindow(epoch uint64) EpochWindow {
	return EpochWindow{
		Epoch:          epoch,
		VoteWeightSum:  math.ZeroInt(),
		GasTargetSum:   math.ZeroInt(),
		VotesTotal:     math.ZeroInt(),
		VoterRewardSum: math.ZeroInt(),
	}
}

// Add returns the window with the contribution added.
func (w EpochWindow) Add(c WindowContribution) EpochWindow {
	w.VoteWeightSum = w.VoteWeightSum.Add(c.VoteWeight)
	w.GasTargetSum = w.GasTargetSum.Add(c.GasTargetWeighted)
	w.VotesTotal = w.VotesTotal.Add(c.Votes)
	w.VoterRewardSum = w.VoterRewardSum.Add(c.Reward)
	return w
}

// Sub returns the window with the contribution removed. Removing more than
// the window holds means the bookkeeping is broken and is reported as
// ErrWindowUnderflow instead of saturating.
func (w EpochWindow) Sub(c WindowContribution) (EpochWindow, error) {
	if w.VoteWeightSum.LT(c.VoteWeight) || w.GasTargetSum.LT(c.GasTargetWeighted) ||
		w.VotesTotal.LT(c.Votes) || w.VoterRewardSum.LT(c.Reward) {
		return w, errorsmod.Wrapf(ErrWindowUnderflow, "epoch %d", w.Epoch)
	}
	w.VoteWeightSum = w.VoteWeightSum.Sub(c.VoteWeight)
	w.GasTargetSum = w.GasTargetSum.Sub(c.GasTargetWeighted)
	w.VotesTotal = w.VotesTotal.Sub(c.Votes)
	w.VoterRewardSum = w.VoterRewardSum.Sub(c.Reward)
	return w, nil
}

// IsEmpty reports whether nothing is counted in the window.
func (w EpochWindow) IsEmpty() bool {
	return w.VoteWeightSum.IsZero() && w.GasTargetSum.IsZero() && w.VotesTotal.IsZero() && w.VoterRewardSum.IsZero()
}

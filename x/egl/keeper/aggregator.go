package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/eglgov/egl-app/x/egl/types"
)

// epochWindow returns the sums of an epoch. A ring slot tagged with another
// epoch reads as empty.
func (k *Keeper) epochWindow(ctx context.Context, epoch uint64) (types.EpochWindow, error) {
	w, err := k.windows.Get(ctx, types.WindowSlot(epoch))
	if errors.Is(err, collections.ErrNotFound) {
		return types.NewEpochWindow(epoch), nil
	}
	if err != nil {
		return types.EpochWindow{}, errorsmod.Wrapf(err, "loading window of epoch %d", epoch)
	}
	if w.Epoch != epoch {
		return types.NewEpochWindow(epoch), nil
	}
	return w, nil
}

// checkWindowRange rejects writes outside the epochs the ring can hold,
// which are the current epoch and the seven after it.
func checkWindowRange(currentEpoch uint64, r types.EpochRange) error {
	if r.Len() == 0 {
		return nil
	}
	if r.Start < currentEpoch || r.End > currentEpoch+types.EpochWindowSlots {
		return errorsmod.Wrapf(types.ErrWindowOutOfRange, "%s with current epoch %d", r, currentEpoch)
	}
	return nil
}

// addToWindow adds c to every epoch of r and to the voter reward log of the
// rewarded epochs.
func (k *Keeper) addToWindow(ctx context.Context, state types.GlobalState, params types.Params, r types.EpochRange, c types.WindowContribution) error {
	if err := checkWindowRange(state.CurrentEpoch, r); err != nil {
		return err
	}
	for epoch := r.Start; epoch < r.End; epoch++ {
		w, err := k.epochWindow(ctx, epoch)
		if err != nil {
			return err
		}
		if err := k.windows.Set(ctx, types.WindowSlot(epoch), w.Add(c)); err != nil {
			return err
		}
		if epoch >= params.RewardEpochs {
			continue
		}
		sum, err := k.voterRewardSum(ctx, epoch)
		if err != nil {
			return err
		}
		if err := k.voterRewardSums.Set(ctx, epoch, sum.Add(c.Reward)); err != nil {
			return err
		}
	}
	return nil
}

// removeFromWindow takes c away from every epoch of r. Removing from an epoch
// that does not hold the contribution is ErrWindowUnderflow.
func (k *Keeper) removeFromWindow(ctx context.Context, state types.GlobalState, params types.Params, r types.EpochRange, c types.WindowContribution) error {
	if err := checkWindowRange(state.CurrentEpoch, r); err != nil {
		return err
	}
	for epoch := r.Start; epoch < r.End; epoch++ {
		w, err := k.epochWindow(ctx, epoch)
		if err != nil {
			return err
		}
		w, err = w.Sub(c)
		if err != nil {
			return err
		}
		if err := k.windows.Set(ctx, types.WindowSlot(epoch), w); err != nil {
			return err
		}
		if epoch >= params.RewardEpochs {
			continue
		}
		sum, err := k.voterRewardSum(ctx, epoch)
		if err != nil {
			return err
		}
		if sum.LT(c.Reward) {
			return errorsmod.Wrapf(types.ErrWindowUnderflow, "voter reward sum of epoch %d", epoch)
		}
		if err := k.voterRewardSums.Set(ctx, epoch, sum.Sub(c.Reward)); err != nil {
			return err
		}
	}
	return nil
}

func (k *Keeper) voterRewardSum(ctx context.Context, epoch uint64) (math.Int, error) {
	sum, err := k.voterRewardSums.Get(ctx, epoch)
	if errors.Is(err, collections.ErrNotFound) {
		return math.ZeroInt(), nil
	}
	if err != nil {
		return math.Int{}, errorsmod.Wrapf(err, "loading voter reward sum of epoch %d", epoch)
	}
	return sum, nil
}

// remainingWindow is the part of the vote window that has not been tallied.
func remainingWindow(record types.VoterRecord, currentEpoch uint64) types.EpochRange {
	w := record.Window()
	return w.Clip(currentEpoch, w.End)
}

// consumedWindow is the part of the vote window that has been tallied and
// still pays voter rewards.
func consumedWindow(record types.VoterRecord, currentEpoch, rewardEpochs uint64) types.EpochRange {
	w := record.Window()
	return w.Clip(w.Start, min(currentEpoch, rewardEpochs))
}

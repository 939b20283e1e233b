package keeper

import (
	"context"
	"errors"
	"time"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/eglgov/egl-app/x/egl/types"
)

// Voter returns the active vote of addr.
func (k *Keeper) Voter(ctx context.Context, addr sdk.AccAddress) (types.VoterRecord, error) {
	record, found, err := k.getVoter(ctx, addr)
	if err != nil {
		return types.VoterRecord{}, err
	}
	if !found {
		return types.VoterRecord{}, errorsmod.Wrapf(types.ErrNotVoted, "%s", addr)
	}
	return record, nil
}

// GetEpochWindow returns all sums of an epoch.
func (k *Keeper) GetEpochWindow(ctx context.Context, epoch uint64) (types.EpochWindow, error) {
	return k.epochWindow(ctx, epoch)
}

// VoteWeightsSum returns the summed vote weight of an epoch.
func (k *Keeper) VoteWeightsSum(ctx context.Context, epoch uint64) (math.Int, error) {
	w, err := k.epochWindow(ctx, epoch)
	return w.VoteWeightSum, err
}

// GasTargetSum returns the weight times gas target sum of an epoch.
func (k *Keeper) GasTargetSum(ctx context.Context, epoch uint64) (math.Int, error) {
	w, err := k.epochWindow(ctx, epoch)
	return w.GasTargetSum, err
}

// VotesTotal returns the tokens voting in an epoch.
func (k *Keeper) VotesTotal(ctx context.Context, epoch uint64) (math.Int, error) {
	w, err := k.epochWindow(ctx, epoch)
	return w.VotesTotal, err
}

// VoterRewardSums returns the reward eligible weight of an epoch. Unlike the
// other sums it stays readable after the epoch has been tallied.
func (k *Keeper) VoterRewardSums(ctx context.Context, epoch uint64) (math.Int, error) {
	return k.voterRewardSum(ctx, epoch)
}

// GlobalState returns the global scalars.
func (k *Keeper) GlobalState(ctx context.Context) (types.GlobalState, error) {
	return k.getState(ctx)
}

// DaoCandidates returns the live treasury candidates.
func (k *Keeper) DaoCandidates(ctx context.Context) (types.CandidateRegistry, error) {
	return k.getRegistry(ctx, types.RegistryDao)
}

// UpgradeCandidates returns the live upgrade candidates.
func (k *Keeper) UpgradeCandidates(ctx context.Context) (types.CandidateRegistry, error) {
	return k.getRegistry(ctx, types.RegistryUpgrade)
}

// PendingDaoCandidate returns the treasury candidate awaiting confirmation.
func (k *Keeper) PendingDaoCandidate(ctx context.Context) (types.PendingDaoCandidate, bool, error) {
	pending, err := k.pendingDao.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.PendingDaoCandidate{}, false, nil
	}
	return pending, err == nil, err
}

// ApprovedUpgrade returns the latest approved upgrade address.
func (k *Keeper) ApprovedUpgrade(ctx context.Context) (types.ApprovedUpgrade, bool, error) {
	approved, err := k.approvedUpgrade.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.ApprovedUpgrade{}, false, nil
	}
	return approved, err == nil, err
}

// EpochAt returns the epoch containing t according to the module clock.
func (k *Keeper) EpochAt(ctx context.Context, t time.Time) (uint64, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return 0, err
	}
	return params.Clock().EpochAt(t), nil
}

// EstimateVoterReward returns the voter reward addr would receive if it
// withdrew now.
func (k *Keeper) EstimateVoterReward(ctx context.Context, addr sdk.AccAddress) (math.Int, error) {
	record, err := k.Voter(ctx, addr)
	if err != nil {
		return math.Int{}, err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, err
	}
	state, err := k.getState(ctx)
	if err != nil {
		return math.Int{}, err
	}
	earned, err := k.voterReward(ctx, record, state, params)
	if err != nil {
		return math.Int{}, err
	}
	return record.AccruedReward.Add(earned), nil
}

// EpochEnded reports whether the current epoch can be tallied at the block
// time of ctx.
func (k *Keeper) EpochEnded(ctx context.Context) (bool, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return false, err
	}
	state, err := k.getState(ctx)
	if err != nil {
		return false, err
	}
	return !sdk.UnwrapSDKContext(ctx).BlockTime().Before(state.CurrentEpochEndDate(params.EpochLength)), nil
}

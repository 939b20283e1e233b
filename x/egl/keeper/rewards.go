package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/eglgov/egl-app/x/egl/types"
)

// IssueCreatorRewards pays the creator reward of the current epoch.
func (k *Keeper) IssueCreatorRewards(ctx context.Context) (paid math.Int, err error) {
	err = k.atomic(ctx, func(ctx sdk.Context) error {
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		state, err := k.getState(ctx)
		if err != nil {
			return err
		}
		if state.CurrentEpoch < params.CreatorRewardStartEpoch {
			return errorsmod.Wrapf(types.ErrCreatorRewardsNotBegun, "epoch %d, rewards start at epoch %d", state.CurrentEpoch, params.CreatorRewardStartEpoch)
		}
		if state.CreatorRewardIssuedThisEpoch() {
			return errorsmod.Wrapf(types.ErrCreatorRewardsIssued, "epoch %d", state.CurrentEpoch)
		}
		paid, err = k.issueCreatorRewards(ctx, &state, params)
		if err != nil {
			return err
		}
		return k.state.Set(ctx, state)
	})
	return paid, err
}

// issueCreatorRewards pays one epoch share to the creator. Once less than a
// share remains, the remainder is paid and the schedule ends.
func (k *Keeper) issueCreatorRewards(ctx sdk.Context, state *types.GlobalState, params types.Params) (math.Int, error) {
	if !state.CreatorRewardRemaining.IsPositive() {
		return math.ZeroInt(), nil
	}
	if params.CreatorAddress.Empty() {
		return math.ZeroInt(), errorsmod.Wrap(types.ErrInvalidAddress, "creator address is not set")
	}

	share := params.CreatorRewardShare()
	amount := share
	if share.IsZero() || state.CreatorRewardRemaining.LT(share) {
		amount = state.CreatorRewardRemaining
	}

	state.CreatorRewardRemaining = state.CreatorRewardRemaining.Sub(amount)
	state.TokensInCirculation = state.TokensInCirculation.Add(amount)
	state.CreatorRewardPayouts++
	state.LastCreatorRewardEpoch = state.CurrentEpoch

	if err := k.ledger.Transfer(ctx, types.ModuleAddress, params.CreatorAddress, amount); err != nil {
		return math.ZeroInt(), errorsmod.Wrap(err, "paying creator reward")
	}

	k.Logger(ctx).Info("creator reward issued",
		"epoch", state.CurrentEpoch,
		"amount", amount.String(),
		"remaining", state.CreatorRewardRemaining.String(),
	)
	emitCreatorRewardsClaimed(ctx, params.CreatorAddress, amount, state.CreatorRewardRemaining, state.CurrentEpoch)
	return amount, nil
}

// voterReward is the reward earned on the tallied epochs of the record's
// window. Each epoch pays its share of the epoch pool pro rata to vote
// weight, truncated per epoch.
func (k *Keeper) voterReward(ctx context.Context, record types.VoterRecord, state types.GlobalState, params types.Params) (math.Int, error) {
	reward := math.ZeroInt()
	weight := record.VoteWeight()
	consumed := consumedWindow(record, state.CurrentEpoch, params.RewardEpochs)
	for epoch := consumed.Start; epoch < consumed.End; epoch++ {
		sum, err := k.voterRewardSum(ctx, epoch)
		if err != nil {
			return math.Int{}, err
		}
		if !sum.IsPositive() {
			continue
		}
		reward = reward.Add(params.VoterRewardForEpoch(epoch).Mul(weight).Quo(sum))
	}
	return reward, nil
}

// CalculateBlockReward returns the proximity reward of a block with the given
// gas limit, measured against the current desired gas limit.
func (k *Keeper) CalculateBlockReward(ctx context.Context, gasLimit uint64) (types.BlockReward, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.BlockReward{}, err
	}
	state, err := k.getState(ctx)
	if err != nil {
		return types.BlockReward{}, err
	}

	reward := types.CalculateBlockReward(gasLimit, state.DesiredEgl, params.BlockRewardBase)
	emitBlockRewardCalculated(sdk.UnwrapSDKContext(ctx), reward)
	return reward, nil
}

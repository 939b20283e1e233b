package keeper

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/hashicorp/go-metrics"

	"github.com/eglgov/egl-app/x/egl/types"
)

// TallyVotes closes the current epoch. It decides whether enough tokens took
// part, moves the desired gas limit accordingly, pays the creator reward,
// evaluates both candidate registries and advances to the next epoch.
func (k *Keeper) TallyVotes(ctx context.Context) (res types.TallyResult, err error) {
	defer telemetry.ModuleMeasureSince(types.ModuleName, time.Now(), "tally")

	err = k.atomic(ctx, func(ctx sdk.Context) error {
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		state, err := k.getState(ctx)
		if err != nil {
			return err
		}
		if end := state.CurrentEpochEndDate(params.EpochLength); ctx.BlockTime().Before(end) {
			return errorsmod.Wrapf(types.ErrVoteNotEnded, "epoch %d ends at %s", state.CurrentEpoch, end.Format(time.RFC3339))
		}

		res, err = k.tally(ctx, &state, params)
		if err != nil {
			return err
		}
		return k.state.Set(ctx, state)
	})
	if err != nil {
		return types.TallyResult{}, err
	}

	outcome := types.EventTypeVoteThresholdFailed
	if res.ThresholdMet {
		outcome = types.EventTypeVoteThresholdMet
	}
	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "tally"},
		1,
		[]metrics.Label{telemetry.NewLabel("outcome", outcome)},
	)
	return res, nil
}

func (k *Keeper) tally(ctx sdk.Context, state *types.GlobalState, params types.Params) (types.TallyResult, error) {
	epoch := state.CurrentEpoch
	window, err := k.epochWindow(ctx, epoch)
	if err != nil {
		return types.TallyResult{}, err
	}

	state.VotingThresholdBasisPoints = types.VotingThresholdBasisPoints(epoch)
	res := types.TallyResult{
		Epoch:                epoch,
		VotesTotal:           window.VotesTotal,
		TokensInCirculation:  state.TokensInCirculation,
		ActualVotePercentage: types.VotePercentage(window.VotesTotal, state.TokensInCirculation),
		ThresholdBasisPoints: state.VotingThresholdBasisPoints,
		CreatorReward:        math.ZeroInt(),
	}

	res.ThresholdMet = window.VoteWeightSum.IsPositive() &&
		types.ThresholdMet(window.VotesTotal, state.TokensInCirculation, state.VotingThresholdBasisPoints)
	if res.ThresholdMet {
		average := window.GasTargetSum.Quo(window.VoteWeightSum)
		res.AverageGasTarget = average.Uint64()
		state.DesiredEgl = stepToward(state.BaselineEgl, average, params.MaxEglStep)
		state.BaselineEgl = state.DesiredEgl
		state.LastThresholdPassEpoch = epoch
	} else {
		res.InGracePeriod = epoch-state.LastThresholdPassEpoch <= params.GracePeriodEpochs
		if !res.InGracePeriod {
			state.DesiredEgl = decayToward(state.DesiredEgl, state.InitialEgl, params.DecayPercent)
		}
	}
	res.DesiredEgl = state.DesiredEgl
	res.BaselineEgl = state.BaselineEgl
	emitThresholdOutcome(ctx, res)

	// Networks without a creator address never pay creator rewards.
	if epoch >= params.CreatorRewardStartEpoch && !params.CreatorAddress.Empty() && !state.CreatorRewardIssuedThisEpoch() {
		res.CreatorReward, err = k.issueCreatorRewards(ctx, state, params)
		if err != nil {
			return types.TallyResult{}, err
		}
	}

	if res.Dao, err = k.evaluateDaoVote(ctx, state, params); err != nil {
		return types.TallyResult{}, err
	}
	if res.Upgrade, err = k.evaluateUpgradeVote(ctx, *state, params); err != nil {
		return types.TallyResult{}, err
	}

	if err := k.windows.Remove(ctx, types.WindowSlot(epoch)); err != nil {
		return types.TallyResult{}, err
	}
	state.CurrentEpoch++
	state.CurrentEpochStartDate = state.CurrentEpochStartDate.Add(params.EpochLength)

	emitVotesTallied(ctx, res, *state)
	k.Logger(ctx).Info("votes tallied",
		"epoch", epoch,
		"threshold_met", res.ThresholdMet,
		"vote_percentage", res.ActualVotePercentage.String(),
		"desired_egl", state.DesiredEgl,
		"baseline_egl", state.BaselineEgl,
	)
	return res, nil
}

// stepToward moves from baseline toward target by at most maxStep.
func stepToward(baseline uint64, target math.Int, maxStep uint64) uint64 {
	base := math.NewIntFromUint64(baseline)
	step := math.NewIntFromUint64(maxStep)
	delta := target.Sub(base)
	switch {
	case delta.GT(step):
		delta = step
	case delta.LT(step.Neg()):
		delta = step.Neg()
	}
	desired := base.Add(delta)
	if desired.IsNegative() {
		return 0
	}
	return desired.Uint64()
}

// decayToward moves desired toward initial by percent of the distance,
// truncated toward zero.
func decayToward(desired, initial, percent uint64) uint64 {
	d := math.NewIntFromUint64(desired)
	delta := math.NewIntFromUint64(initial).Sub(d).Mul(math.NewIntFromUint64(percent)).QuoRaw(100)
	return d.Add(delta).Uint64()
}

package keeper

import (
	"strconv"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/eglgov/egl-app/x/egl/types"
)

func uintAttr(key string, v uint64) sdk.Attribute {
	return sdk.NewAttribute(key, strconv.FormatUint(v, 10))
}

func emitVote(ctx sdk.Context, eventType string, voter sdk.AccAddress, record types.VoterRecord) {
	attrs := []sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeyVoter, voter.String()),
		uintAttr(types.AttributeKeyGasTarget, record.GasTarget),
		sdk.NewAttribute(types.AttributeKeyTokensLocked, record.TokensLocked.String()),
		uintAttr(types.AttributeKeyLockupDuration, record.LockupDuration),
		sdk.NewAttribute(types.AttributeKeyVoteWeight, record.VoteWeight().String()),
		uintAttr(types.AttributeKeyVoteEpoch, record.VoteEpoch),
		sdk.NewAttribute(types.AttributeKeyReleaseDate, record.ReleaseDate.UTC().Format(time.RFC3339)),
	}
	if record.HasDaoVote() {
		attrs = append(attrs,
			sdk.NewAttribute(types.AttributeKeyRecipient, record.DaoRecipient.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, record.DaoAmount.String()),
		)
	}
	if record.HasUpgradeVote() {
		attrs = append(attrs, sdk.NewAttribute(types.AttributeKeyUpgradeAddress, record.UpgradeAddress.String()))
	}
	ctx.EventManager().EmitEvent(sdk.NewEvent(eventType, attrs...))
}

func emitWithdraw(ctx sdk.Context, voter sdk.AccAddress, tokens, reward math.Int) {
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeWithdraw,
		sdk.NewAttribute(types.AttributeKeyVoter, voter.String()),
		sdk.NewAttribute(types.AttributeKeyTokensLocked, tokens.String()),
		sdk.NewAttribute(types.AttributeKeyReward, reward.String()),
	))
}

func emitThresholdOutcome(ctx sdk.Context, res types.TallyResult) {
	if res.ThresholdMet {
		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeVoteThresholdMet,
			uintAttr(types.AttributeKeyEpoch, res.Epoch),
			sdk.NewAttribute(types.AttributeKeyVotePercentage, res.ActualVotePercentage.String()),
			uintAttr(types.AttributeKeyAverageGasTarget, res.AverageGasTarget),
			uintAttr(types.AttributeKeyDesiredEgl, res.DesiredEgl),
		))
		return
	}
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeVoteThresholdFailed,
		uintAttr(types.AttributeKeyEpoch, res.Epoch),
		sdk.NewAttribute(types.AttributeKeyVotePercentage, res.ActualVotePercentage.String()),
		uintAttr(types.AttributeKeyThresholdBasisPts, res.ThresholdBasisPoints),
		uintAttr(types.AttributeKeyDesiredEgl, res.DesiredEgl),
		sdk.NewAttribute(types.AttributeKeyGracePeriod, strconv.FormatBool(res.InGracePeriod)),
	))
}

func emitVotesTallied(ctx sdk.Context, res types.TallyResult, state types.GlobalState) {
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeVotesTallied,
		uintAttr(types.AttributeKeyEpoch, res.Epoch),
		sdk.NewAttribute(types.AttributeKeyVotesTotal, res.VotesTotal.String()),
		sdk.NewAttribute(types.AttributeKeyCirculation, res.TokensInCirculation.String()),
		sdk.NewAttribute(types.AttributeKeyVotePercentage, res.ActualVotePercentage.String()),
		uintAttr(types.AttributeKeyThresholdBasisPts, res.ThresholdBasisPoints),
		uintAttr(types.AttributeKeyDesiredEgl, state.DesiredEgl),
		uintAttr(types.AttributeKeyBaselineEgl, state.BaselineEgl),
	))
}

func emitCreatorRewardsClaimed(ctx sdk.Context, creator sdk.AccAddress, amount, remaining math.Int, epoch uint64) {
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeCreatorRewardsClaimed,
		sdk.NewAttribute(types.AttributeKeyCreator, creator.String()),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(types.AttributeKeyRemaining, remaining.String()),
		uintAttr(types.AttributeKeyEpoch, epoch),
	))
}

func emitCandidateVoteAdded(ctx sdk.Context, kind types.RegistryKind, res types.CandidateAddResult) {
	attrs := []sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeyRegistry, string(kind)),
		sdk.NewAttribute(types.AttributeKeyCandidate, res.Entry.Address.String()),
		sdk.NewAttribute(types.AttributeKeyVoteCount, res.Entry.VoteCount.String()),
		sdk.NewAttribute(types.AttributeKeyAmount, res.Entry.Amount.String()),
		sdk.NewAttribute(types.AttributeKeyOutcome, string(res.Outcome)),
	}
	if res.Evicted != nil {
		attrs = append(attrs,
			sdk.NewAttribute(types.AttributeKeyEvictedCandidate, res.Evicted.Address.String()),
			sdk.NewAttribute(types.AttributeKeyEvictedVoteCount, res.Evicted.VoteCount.String()),
		)
	}
	ctx.EventManager().EmitEvent(sdk.NewEvent(types.EventTypeCandidateVoteAdded, attrs...))
}

func emitCandidateVoteRemoved(ctx sdk.Context, kind types.RegistryKind, addr sdk.AccAddress, remaining math.Int) {
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeCandidateVoteRemoved,
		sdk.NewAttribute(types.AttributeKeyRegistry, string(kind)),
		sdk.NewAttribute(types.AttributeKeyCandidate, addr.String()),
		sdk.NewAttribute(types.AttributeKeyVoteCount, remaining.String()),
	))
}

func emitCandidateVoteEvaluated(ctx sdk.Context, kind types.RegistryKind, eval types.CandidateEvaluation, epoch uint64) {
	attrs := []sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeyRegistry, string(kind)),
		uintAttr(types.AttributeKeyEpoch, epoch),
		sdk.NewAttribute(types.AttributeKeyTotalVotes, eval.TotalVotes.String()),
		sdk.NewAttribute(types.AttributeKeyTotalVotePercentage, eval.TotalVotePercentage.String()),
		sdk.NewAttribute(types.AttributeKeyPassed, strconv.FormatBool(eval.Passed)),
	}
	if eval.HasLeader {
		attrs = append(attrs,
			sdk.NewAttribute(types.AttributeKeyCandidate, eval.Leader.Address.String()),
			sdk.NewAttribute(types.AttributeKeyVoteCount, eval.Leader.VoteCount.String()),
		)
	}
	ctx.EventManager().EmitEvent(sdk.NewEvent(types.EventTypeCandidateVoteEvaluated, attrs...))
}

func emitBlockRewardCalculated(ctx sdk.Context, reward types.BlockReward) {
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeBlockRewardCalculated,
		uintAttr(types.AttributeKeyGasLimit, reward.GasLimit),
		uintAttr(types.AttributeKeyDesiredEgl, reward.DesiredEgl),
		uintAttr(types.AttributeKeyDelta, reward.Delta),
		sdk.NewAttribute(types.AttributeKeyRewardPercentage, reward.Percentage.String()),
		sdk.NewAttribute(types.AttributeKeyAmount, reward.Amount.String()),
	))
}

func emitSeedAccountFunded(ctx sdk.Context, seed sdk.AccAddress, record types.VoterRecord) {
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeSeedAccountFunded,
		sdk.NewAttribute(types.AttributeKeySeedAccount, seed.String()),
		sdk.NewAttribute(types.AttributeKeyTokensLocked, record.TokensLocked.String()),
		uintAttr(types.AttributeKeyLockupDuration, record.LockupDuration),
		uintAttr(types.AttributeKeyGasTarget, record.GasTarget),
	))
}

func emitDaoDisbursement(ctx sdk.Context, pending types.PendingDaoCandidate) {
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeDaoDisbursement,
		sdk.NewAttribute(types.AttributeKeyRecipient, pending.Recipient.String()),
		sdk.NewAttribute(types.AttributeKeyAmount, pending.Amount.String()),
		uintAttr(types.AttributeKeyEpoch, pending.Epoch),
		uintAttr(types.AttributeKeyConfirmations, pending.Confirmations),
	))
}

func emitUpgradeApproved(ctx sdk.Context, approved types.ApprovedUpgrade) {
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeUpgradeApproved,
		sdk.NewAttribute(types.AttributeKeyUpgradeAddress, approved.Address.String()),
		uintAttr(types.AttributeKeyEpoch, approved.Epoch),
		sdk.NewAttribute(types.AttributeKeyTotalVotePercentage, approved.TotalVotePercentage.String()),
	))
}

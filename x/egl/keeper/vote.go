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

// Vote locks msg.Amount of the voter's tokens and counts the vote toward the
// current epoch and the LockupDuration-1 epochs after it.
func (k *Keeper) Vote(ctx context.Context, msg types.MsgVote) (record types.VoterRecord, err error) {
	if err := msg.ValidateBasic(); err != nil {
		return types.VoterRecord{}, err
	}

	err = k.guarded(ctx, func(ctx sdk.Context) error {
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		state, err := k.getState(ctx)
		if err != nil {
			return err
		}

		if err := k.checkFunds(ctx, msg.Voter, msg.Amount); err != nil {
			return err
		}
		if msg.Amount.LT(params.MinVoteAmount) {
			return errorsmod.Wrapf(types.ErrAmountTooLow, "%s is below the minimum of %s", msg.Amount, params.MinVoteAmount)
		}
		_, found, err := k.getVoter(ctx, msg.Voter)
		if err != nil {
			return err
		}
		if found {
			return errorsmod.Wrapf(types.ErrAlreadyVoted, "%s", msg.Voter)
		}
		if err := checkVoteParams(msg, state, params); err != nil {
			return err
		}

		record = msg.Record()
		record.VoteEpoch = state.CurrentEpoch
		record.ReleaseDate = params.Clock().ReleaseDate(ctx.BlockTime(), msg.LockupDuration)
		if record, err = k.openVote(ctx, msg.Voter, record, state, params); err != nil {
			return err
		}

		emitVote(ctx, types.EventTypeVote, msg.Voter, record)
		k.Logger(ctx).Debug("vote recorded",
			"voter", msg.Voter.String(),
			"gas_target", record.GasTarget,
			"amount", record.TokensLocked.String(),
			"lockup", record.LockupDuration,
		)

		return k.ledger.TransferFrom(ctx, types.ModuleAddress, msg.Voter, types.ModuleAddress, msg.Amount)
	})
	if err != nil {
		return types.VoterRecord{}, err
	}

	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "vote"},
		1,
		[]metrics.Label{telemetry.NewLabel("type", types.EventTypeVote)},
	)
	return record, nil
}

// ReVote replaces the caller's active vote. msg.Amount is added to the tokens
// already locked and may be zero. The new window starts at the current epoch.
// The release date only moves when the lockup duration changes.
func (k *Keeper) ReVote(ctx context.Context, msg types.MsgReVote) (record types.VoterRecord, err error) {
	if err := msg.ValidateBasic(); err != nil {
		return types.VoterRecord{}, err
	}

	err = k.guarded(ctx, func(ctx sdk.Context) error {
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		state, err := k.getState(ctx)
		if err != nil {
			return err
		}

		old, found, err := k.getVoter(ctx, msg.Voter)
		if err != nil {
			return err
		}
		if !found {
			return errorsmod.Wrapf(types.ErrNotVoted, "%s", msg.Voter)
		}
		if msg.Amount.IsPositive() {
			if err := k.checkFunds(ctx, msg.Voter, msg.Amount); err != nil {
				return err
			}
		}
		if err := checkVoteParams(msg.MsgVote, state, params); err != nil {
			return err
		}

		accrued, err := k.voterReward(ctx, old, state, params)
		if err != nil {
			return err
		}
		if err := k.closeVote(ctx, msg.Voter, old, state, params); err != nil {
			return err
		}

		record = msg.Record()
		record.TokensLocked = old.TokensLocked.Add(msg.Amount)
		record.VoteEpoch = state.CurrentEpoch
		record.AccruedReward = old.AccruedReward.Add(accrued)
		record.ReleaseDate = old.ReleaseDate
		if msg.LockupDuration != old.LockupDuration {
			record.ReleaseDate = params.Clock().ReleaseDate(ctx.BlockTime(), msg.LockupDuration)
		}
		if record, err = k.openVote(ctx, msg.Voter, record, state, params); err != nil {
			return err
		}

		emitVote(ctx, types.EventTypeReVote, msg.Voter, record)
		k.Logger(ctx).Debug("vote replaced",
			"voter", msg.Voter.String(),
			"gas_target", record.GasTarget,
			"amount", record.TokensLocked.String(),
			"lockup", record.LockupDuration,
			"accrued_reward", record.AccruedReward.String(),
		)

		if !msg.Amount.IsPositive() {
			return nil
		}
		return k.ledger.TransferFrom(ctx, types.ModuleAddress, msg.Voter, types.ModuleAddress, msg.Amount)
	})
	if err != nil {
		return types.VoterRecord{}, err
	}

	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "vote"},
		1,
		[]metrics.Label{telemetry.NewLabel("type", types.EventTypeReVote)},
	)
	return record, nil
}

// Withdraw releases an expired vote. The voter receives the locked tokens
// plus the voter reward earned on the tallied epochs of the window.
func (k *Keeper) Withdraw(ctx context.Context, msg types.MsgWithdraw) (payout math.Int, err error) {
	if err := msg.ValidateBasic(); err != nil {
		return math.Int{}, err
	}

	err = k.guarded(ctx, func(ctx sdk.Context) error {
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		state, err := k.getState(ctx)
		if err != nil {
			return err
		}

		record, found, err := k.getVoter(ctx, msg.Voter)
		if err != nil {
			return err
		}
		if !found {
			return errorsmod.Wrapf(types.ErrNotVoted, "%s", msg.Voter)
		}
		if ctx.BlockTime().Before(record.ReleaseDate) {
			return errorsmod.Wrapf(types.ErrLockupNotExpired, "tokens are locked until %s", record.ReleaseDate.Format(time.RFC3339))
		}

		earned, err := k.voterReward(ctx, record, state, params)
		if err != nil {
			return err
		}
		reward := record.AccruedReward.Add(earned)

		if err := k.closeVote(ctx, msg.Voter, record, state, params); err != nil {
			return err
		}
		if err := k.voters.Remove(ctx, msg.Voter); err != nil {
			return err
		}

		state.TokensInCirculation = state.TokensInCirculation.Add(reward)
		if err := k.state.Set(ctx, state); err != nil {
			return err
		}

		payout = record.TokensLocked.Add(reward)
		emitWithdraw(ctx, msg.Voter, record.TokensLocked, reward)
		k.Logger(ctx).Debug("vote withdrawn",
			"voter", msg.Voter.String(),
			"tokens", record.TokensLocked.String(),
			"reward", reward.String(),
		)

		return k.ledger.Transfer(ctx, types.ModuleAddress, msg.Voter, payout)
	})
	if err != nil {
		return math.Int{}, err
	}

	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "withdraw"},
		1,
		[]metrics.Label{telemetry.NewLabel("type", types.EventTypeWithdraw)},
	)
	return payout, nil
}

// checkFunds verifies the voter holds amount and has approved the module to
// move it.
func (k *Keeper) checkFunds(ctx context.Context, voter sdk.AccAddress, amount math.Int) error {
	if balance := k.ledger.BalanceOf(ctx, voter); balance.LT(amount) {
		return errorsmod.Wrapf(types.ErrInsufficientBalance, "balance %s, needs %s", balance, amount)
	}
	if allowance := k.ledger.Allowance(ctx, voter, types.ModuleAddress); allowance.LT(amount) {
		return errorsmod.Wrapf(types.ErrInsufficientAllowance, "allowance %s, needs %s", allowance, amount)
	}
	return nil
}

func checkVoteParams(msg types.MsgVote, state types.GlobalState, params types.Params) error {
	if types.GasLimitDelta(msg.GasTarget, state.BaselineEgl) > params.MaxGasTargetDelta {
		return errorsmod.Wrapf(types.ErrInvalidGasTarget, "gas target %d is more than %d away from %d", msg.GasTarget, params.MaxGasTargetDelta, state.BaselineEgl)
	}
	if msg.LockupDuration < 1 || msg.LockupDuration > params.MaxLockup {
		return errorsmod.Wrapf(types.ErrInvalidLockup, "lockup %d is not in [1, %d]", msg.LockupDuration, params.MaxLockup)
	}
	return nil
}

// openVote adds the record's window and candidate votes and stores it. The
// returned record carries the registry entries its candidate votes landed in.
func (k *Keeper) openVote(ctx sdk.Context, voter sdk.AccAddress, record types.VoterRecord, state types.GlobalState, params types.Params) (types.VoterRecord, error) {
	if err := k.addToWindow(ctx, state, params, record.Window(), record.Contribution()); err != nil {
		return types.VoterRecord{}, err
	}
	var err error
	record.DaoEntry, record.UpgradeEntry = nil, nil
	if record.HasDaoVote() {
		if record.DaoEntry, err = k.addRecordCandidateVote(ctx, types.RegistryDao, record.DaoRecipient, record.VoteWeight(), record.DaoAmount); err != nil {
			return types.VoterRecord{}, err
		}
	}
	if record.HasUpgradeVote() {
		if record.UpgradeEntry, err = k.addRecordCandidateVote(ctx, types.RegistryUpgrade, record.UpgradeAddress, record.VoteWeight(), math.ZeroInt()); err != nil {
			return types.VoterRecord{}, err
		}
	}
	return record, k.voters.Set(ctx, voter, record)
}

// addRecordCandidateVote adds a vote's candidate weight and returns the
// insertion number of the entry holding it, nil when the vote was lost.
func (k *Keeper) addRecordCandidateVote(ctx sdk.Context, kind types.RegistryKind, addr sdk.AccAddress, weight, amount math.Int) (*uint64, error) {
	res, err := k.addCandidateVote(ctx, kind, addr, weight, amount)
	if err != nil || res.Outcome == types.CandidateLost {
		return nil, err
	}
	insertion := res.Entry.Insertion
	return &insertion, nil
}

// closeVote removes the untallied part of the record's window and the
// candidate votes still counted in a live registry entry. The record itself
// is left in place.
func (k *Keeper) closeVote(ctx sdk.Context, voter sdk.AccAddress, record types.VoterRecord, state types.GlobalState, params types.Params) error {
	if err := k.removeFromWindow(ctx, state, params, remainingWindow(record, state.CurrentEpoch), record.Contribution()); err != nil {
		return errorsmod.Wrapf(err, "removing vote of %s", voter)
	}
	if record.DaoEntry != nil {
		if _, err := k.removeCandidateVote(ctx, types.RegistryDao, record.DaoRecipient, record.DaoEntry, record.VoteWeight(), record.DaoAmount); err != nil {
			return err
		}
	}
	if record.UpgradeEntry != nil {
		if _, err := k.removeCandidateVote(ctx, types.RegistryUpgrade, record.UpgradeAddress, record.UpgradeEntry, record.VoteWeight(), math.ZeroInt()); err != nil {
			return err
		}
	}
	return nil
}

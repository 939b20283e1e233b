package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/eglgov/egl-app/x/egl/types"
)

// AddDaoCandidateVote adds weight for a treasury recipient asking for amount.
func (k *Keeper) AddDaoCandidateVote(ctx context.Context, recipient sdk.AccAddress, weight, amount math.Int) (res types.CandidateAddResult, err error) {
	err = k.atomic(ctx, func(ctx sdk.Context) error {
		res, err = k.addCandidateVote(ctx, types.RegistryDao, recipient, weight, amount)
		return err
	})
	return res, err
}

// AddUpgradeCandidateVote adds weight for an upgrade address.
func (k *Keeper) AddUpgradeCandidateVote(ctx context.Context, candidate sdk.AccAddress, weight math.Int) (res types.CandidateAddResult, err error) {
	err = k.atomic(ctx, func(ctx sdk.Context) error {
		res, err = k.addCandidateVote(ctx, types.RegistryUpgrade, candidate, weight, math.ZeroInt())
		return err
	})
	return res, err
}

// RemoveDaoCandidateVote takes weight and amount away from a treasury
// recipient. It reports false when the recipient is not a live candidate.
func (k *Keeper) RemoveDaoCandidateVote(ctx context.Context, recipient sdk.AccAddress, weight, amount math.Int) (removed bool, err error) {
	err = k.atomic(ctx, func(ctx sdk.Context) error {
		removed, err = k.removeCandidateVote(ctx, types.RegistryDao, recipient, nil, weight, amount)
		return err
	})
	return removed, err
}

// RemoveUpgradeCandidateVote takes weight away from an upgrade address.
func (k *Keeper) RemoveUpgradeCandidateVote(ctx context.Context, candidate sdk.AccAddress, weight math.Int) (removed bool, err error) {
	err = k.atomic(ctx, func(ctx sdk.Context) error {
		removed, err = k.removeCandidateVote(ctx, types.RegistryUpgrade, candidate, nil, weight, math.ZeroInt())
		return err
	})
	return removed, err
}

// EvaluateDaoVote evaluates and clears the treasury registry for the current
// epoch.
func (k *Keeper) EvaluateDaoVote(ctx context.Context) (eval types.CandidateEvaluation, err error) {
	err = k.atomic(ctx, func(ctx sdk.Context) error {
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		state, err := k.getState(ctx)
		if err != nil {
			return err
		}
		eval, err = k.evaluateDaoVote(ctx, &state, params)
		if err != nil {
			return err
		}
		return k.state.Set(ctx, state)
	})
	return eval, err
}

// EvaluateUpgradeVote evaluates and clears the upgrade registry for the
// current epoch.
func (k *Keeper) EvaluateUpgradeVote(ctx context.Context) (eval types.CandidateEvaluation, err error) {
	err = k.atomic(ctx, func(ctx sdk.Context) error {
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		state, err := k.getState(ctx)
		if err != nil {
			return err
		}
		eval, err = k.evaluateUpgradeVote(ctx, state, params)
		return err
	})
	return eval, err
}

func (k *Keeper) addCandidateVote(ctx sdk.Context, kind types.RegistryKind, addr sdk.AccAddress, weight, amount math.Int) (types.CandidateAddResult, error) {
	registry, err := k.getRegistry(ctx, kind)
	if err != nil {
		return types.CandidateAddResult{}, err
	}
	res, err := registry.AddVote(addr, weight, amount)
	if err != nil {
		return types.CandidateAddResult{}, err
	}
	if res.Outcome != types.CandidateLost {
		if err := k.setRegistry(ctx, kind, registry); err != nil {
			return types.CandidateAddResult{}, err
		}
	}

	if res.Evicted != nil {
		k.Logger(ctx).Info("candidate evicted",
			"registry", string(kind),
			"candidate", res.Evicted.Address.String(),
			"vote_count", res.Evicted.VoteCount.String(),
		)
	}
	emitCandidateVoteAdded(ctx, kind, res)
	return res, nil
}

// removeCandidateVote takes weight away from addr. A non nil insertion limits
// the removal to that entry.
func (k *Keeper) removeCandidateVote(ctx sdk.Context, kind types.RegistryKind, addr sdk.AccAddress, insertion *uint64, weight, amount math.Int) (bool, error) {
	registry, err := k.getRegistry(ctx, kind)
	if err != nil {
		return false, err
	}
	var (
		entry types.CandidateEntry
		ok    bool
	)
	if insertion != nil {
		entry, ok, err = registry.RemoveEntryVote(addr, *insertion, weight, amount)
	} else {
		entry, ok, err = registry.RemoveVote(addr, weight, amount)
	}
	if err != nil || !ok {
		return false, err
	}
	if err := k.setRegistry(ctx, kind, registry); err != nil {
		return false, err
	}
	emitCandidateVoteRemoved(ctx, kind, addr, entry.VoteCount)
	return true, nil
}

// evaluateRegistry picks the leader of a registry and clears it.
func (k *Keeper) evaluateRegistry(ctx sdk.Context, kind types.RegistryKind, thresholdPercent uint64, epoch uint64) (types.CandidateEvaluation, error) {
	registry, err := k.getRegistry(ctx, kind)
	if err != nil {
		return types.CandidateEvaluation{}, err
	}
	eval := registry.Evaluate(thresholdPercent)
	registry.Clear()
	if err := k.setRegistry(ctx, kind, registry); err != nil {
		return types.CandidateEvaluation{}, err
	}
	emitCandidateVoteEvaluated(ctx, kind, eval, epoch)
	return eval, nil
}

// evaluateDaoVote evaluates the treasury registry. A recipient that wins in
// DaoConfirmationEpochs consecutive epochs is paid out of the module
// account. A failed evaluation or a different winner resets the pending
// candidate.
func (k *Keeper) evaluateDaoVote(ctx sdk.Context, state *types.GlobalState, params types.Params) (types.CandidateEvaluation, error) {
	eval, err := k.evaluateRegistry(ctx, types.RegistryDao, params.DaoThresholdPercent, state.CurrentEpoch)
	if err != nil {
		return types.CandidateEvaluation{}, err
	}
	if !eval.Passed {
		return eval, k.pendingDao.Remove(ctx)
	}

	pending, err := k.pendingDao.Get(ctx)
	switch {
	case errors.Is(err, collections.ErrNotFound):
		pending = types.PendingDaoCandidate{}
	case err != nil:
		return types.CandidateEvaluation{}, err
	}

	if pending.Confirmations > 0 && pending.Recipient.Equals(eval.Leader.Address) && pending.Epoch+1 == state.CurrentEpoch {
		pending.Confirmations++
	} else {
		pending = types.PendingDaoCandidate{Recipient: eval.Leader.Address, Confirmations: 1}
	}
	pending.Amount = eval.Leader.Amount
	pending.Epoch = state.CurrentEpoch

	if pending.Confirmations < params.DaoConfirmationEpochs {
		return eval, k.pendingDao.Set(ctx, pending)
	}
	if err := k.pendingDao.Remove(ctx); err != nil {
		return types.CandidateEvaluation{}, err
	}
	return eval, k.disburse(ctx, state, pending)
}

func (k *Keeper) disburse(ctx sdk.Context, state *types.GlobalState, pending types.PendingDaoCandidate) error {
	if !pending.Amount.IsPositive() {
		return nil
	}
	if balance := k.ledger.BalanceOf(ctx, types.ModuleAddress); balance.LT(pending.Amount) {
		k.Logger(ctx).Error("skipping dao disbursement",
			"recipient", pending.Recipient.String(),
			"amount", pending.Amount.String(),
			"module_balance", balance.String(),
		)
		return nil
	}
	if err := k.ledger.Transfer(ctx, types.ModuleAddress, pending.Recipient, pending.Amount); err != nil {
		return errorsmod.Wrap(err, "paying dao disbursement")
	}
	state.TokensInCirculation = state.TokensInCirculation.Add(pending.Amount)

	k.Logger(ctx).Info("dao disbursement", "recipient", pending.Recipient.String(), "amount", pending.Amount.String(), "epoch", pending.Epoch)
	emitDaoDisbursement(ctx, pending)
	return nil
}

// evaluateUpgradeVote evaluates the upgrade registry and records a passing
// winner as the approved upgrade.
func (k *Keeper) evaluateUpgradeVote(ctx sdk.Context, state types.GlobalState, params types.Params) (types.CandidateEvaluation, error) {
	eval, err := k.evaluateRegistry(ctx, types.RegistryUpgrade, params.UpgradeThresholdPercent, state.CurrentEpoch)
	if err != nil {
		return types.CandidateEvaluation{}, err
	}
	if !eval.Passed {
		return eval, nil
	}

	approved := types.ApprovedUpgrade{
		Address:             eval.Leader.Address,
		Epoch:               state.CurrentEpoch,
		TotalVotePercentage: eval.TotalVotePercentage,
	}
	if err := k.approvedUpgrade.Set(ctx, approved); err != nil {
		return types.CandidateEvaluation{}, err
	}
	k.Logger(ctx).Info("upgrade approved", "address", approved.Address.String(), "epoch", approved.Epoch)
	emitUpgradeApproved(ctx, approved)
	return eval, nil
}

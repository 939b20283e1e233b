package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/eglgov/egl-app/x/egl/types"
)

// FundSeedAccounts gives each seed account a vote of SeedAccountAmount
// tokens locked for MaxLockup epochs at the current desired gas limit. The
// tokens already sit in the module account, so nothing is transferred. Only
// the creator may call it, and only once.
func (k *Keeper) FundSeedAccounts(ctx context.Context, caller sdk.AccAddress, seeds []sdk.AccAddress) error {
	return k.atomic(ctx, func(ctx sdk.Context) error {
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		state, err := k.getState(ctx)
		if err != nil {
			return err
		}

		if params.CreatorAddress.Empty() || !caller.Equals(params.CreatorAddress) {
			return errorsmod.Wrapf(types.ErrUnauthorized, "%s may not fund seed accounts", caller)
		}
		if state.SeedAccountsFunded {
			return types.ErrSeedAccountsFunded
		}
		required := params.SeedAccountAmount.Mul(math.NewInt(int64(len(seeds))))
		if balance := k.ledger.BalanceOf(ctx, types.ModuleAddress); balance.LT(required) {
			return errorsmod.Wrapf(types.ErrInsufficientBalance, "module holds %s, seeding needs %s", balance, required)
		}

		for _, seed := range seeds {
			if seed.Empty() {
				return errorsmod.Wrap(types.ErrInvalidAddress, "seed account address is empty")
			}
			_, found, err := k.getVoter(ctx, seed)
			if err != nil {
				return err
			}
			if found {
				return errorsmod.Wrapf(types.ErrAlreadyVoted, "seed account %s", seed)
			}

			record := types.VoterRecord{
				GasTarget:      state.DesiredEgl,
				TokensLocked:   params.SeedAccountAmount,
				LockupDuration: params.MaxLockup,
				VoteEpoch:      state.CurrentEpoch,
				ReleaseDate:    params.Clock().ReleaseDate(ctx.BlockTime(), params.MaxLockup),
				DaoAmount:      math.ZeroInt(),
				AccruedReward:  math.ZeroInt(),
			}
			if _, err := k.openVote(ctx, seed, record, state, params); err != nil {
				return err
			}
			emitSeedAccountFunded(ctx, seed, record)
		}

		state.SeedAccountsFunded = true
		k.Logger(ctx).Info("seed accounts funded", "count", len(seeds), "amount", params.SeedAccountAmount.String())
		return k.state.Set(ctx, state)
	})
}

package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/eglgov/egl-app/x/egl/types"
)

// atomic runs fn on a branch of the multistore and writes the branch back
// only when fn succeeds. Events emitted inside fn are forwarded to ctx on
// success and dropped on failure.
func (k *Keeper) atomic(ctx context.Context, fn func(ctx sdk.Context) error) error {
	cacheCtx, write := sdk.UnwrapSDKContext(ctx).CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	write()
	return nil
}

// guarded is atomic plus the reentrancy flag. A call that arrives while the
// flag is set, for example from the token ledger while a transfer is in
// flight, fails with ErrReentrantCall.
func (k *Keeper) guarded(ctx context.Context, fn func(ctx sdk.Context) error) error {
	return k.atomic(ctx, func(ctx sdk.Context) error {
		entered, err := k.entered.Has(ctx)
		if err != nil {
			return err
		}
		if entered {
			return types.ErrReentrantCall
		}
		if err := k.entered.Set(ctx, true); err != nil {
			return err
		}
		if err := fn(ctx); err != nil {
			return err
		}
		return k.entered.Remove(ctx)
	})
}

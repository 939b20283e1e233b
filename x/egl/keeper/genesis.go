package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/eglgov/egl-app/x/egl/types"
)

// InitGenesis initialises the module genesis state.
func (k *Keeper) InitGenesis(ctx context.Context, gs *types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	if err := k.params.Set(ctx, gs.Params); err != nil {
		return err
	}

	state := types.NewGlobalState(gs.Params, gs.TokensInCirculation)
	if gs.State != nil {
		state = *gs.State
	}
	if err := k.state.Set(ctx, state); err != nil {
		return err
	}

	for _, v := range gs.Voters {
		if err := k.voters.Set(ctx, v.Address, v.Record); err != nil {
			return err
		}
	}
	for _, w := range gs.Windows {
		if err := k.windows.Set(ctx, types.WindowSlot(w.Epoch), w); err != nil {
			return err
		}
	}
	for _, sum := range gs.VoterRewardSums {
		if err := k.voterRewardSums.Set(ctx, sum.Epoch, sum.Amount); err != nil {
			return err
		}
	}

	if gs.DaoCandidates != nil {
		if err := k.daoCandidates.Set(ctx, *gs.DaoCandidates); err != nil {
			return err
		}
	}
	if gs.UpgradeCandidates != nil {
		if err := k.upgradeCandidates.Set(ctx, *gs.UpgradeCandidates); err != nil {
			return err
		}
	}
	if gs.PendingDao != nil {
		if err := k.pendingDao.Set(ctx, *gs.PendingDao); err != nil {
			return err
		}
	}
	if gs.ApprovedUpgrade != nil {
		return k.approvedUpgrade.Set(ctx, *gs.ApprovedUpgrade)
	}
	return nil
}

// ExportGenesis outputs the modules state for genesis exports.
func (k *Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.params.Get(ctx)
	if err != nil {
		return nil, err
	}
	state, err := k.state.Get(ctx)
	if err != nil {
		return nil, err
	}

	var voters []types.GenesisVoter
	if err := k.voters.Walk(ctx, nil, func(addr sdk.AccAddress, record types.VoterRecord) (bool, error) {
		voters = append(voters, types.GenesisVoter{Address: addr, Record: record})
		return false, nil
	}); err != nil {
		return nil, err
	}

	var windows []types.EpochWindow
	if err := k.windows.Walk(ctx, nil, func(_ uint64, w types.EpochWindow) (bool, error) {
		windows = append(windows, w)
		return false, nil
	}); err != nil {
		return nil, err
	}

	var sums []types.EpochAmount
	if err := k.voterRewardSums.Walk(ctx, nil, func(epoch uint64, amount math.Int) (bool, error) {
		sums = append(sums, types.EpochAmount{Epoch: epoch, Amount: amount})
		return false, nil
	}); err != nil {
		return nil, err
	}

	gs := &types.GenesisState{
		Params:              params,
		TokensInCirculation: state.TokensInCirculation,
		State:               &state,
		Voters:              voters,
		Windows:             windows,
		VoterRewardSums:     sums,
	}

	if gs.DaoCandidates, err = optionalItem(ctx, k.daoCandidates); err != nil {
		return nil, err
	}
	if gs.UpgradeCandidates, err = optionalItem(ctx, k.upgradeCandidates); err != nil {
		return nil, err
	}
	if gs.PendingDao, err = optionalItem(ctx, k.pendingDao); err != nil {
		return nil, err
	}
	if gs.ApprovedUpgrade, err = optionalItem(ctx, k.approvedUpgrade); err != nil {
		return nil, err
	}
	return gs, nil
}

func optionalItem[T any](ctx context.Context, item collections.Item[T]) (*T, error) {
	value, err := item.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

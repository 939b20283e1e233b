package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	corestore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/eglgov/egl-app/x/egl/types"
)

// Keeper owns the governance state of the egl module. Every mutation of
// voter records, epoch windows, candidate registries and global scalars goes
// through its methods.
type Keeper struct {
	params            collections.Item[types.Params]
	state             collections.Item[types.GlobalState]
	voters            collections.Map[sdk.AccAddress, types.VoterRecord]
	windows           collections.Map[uint64, types.EpochWindow]
	voterRewardSums   collections.Map[uint64, math.Int]
	daoCandidates     collections.Item[types.CandidateRegistry]
	upgradeCandidates collections.Item[types.CandidateRegistry]
	pendingDao        collections.Item[types.PendingDaoCandidate]
	approvedUpgrade   collections.Item[types.ApprovedUpgrade]
	entered           collections.Item[bool]
	schema            collections.Schema

	ledger types.TokenLedger
}

// NewKeeper creates and returns a new egl module Keeper.
func NewKeeper(storeService corestore.KVStoreService, ledger types.TokenLedger) *Keeper {
	sb := collections.NewSchemaBuilder(storeService)

	k := &Keeper{
		params:            collections.NewItem(sb, types.ParamsKey, "params", types.ParamsValue),
		state:             collections.NewItem(sb, types.GlobalStateKey, "state", types.GlobalStateValue),
		voters:            collections.NewMap(sb, types.VotersKeyPrefix, "voters", sdk.AccAddressKey, types.VoterRecordValue),
		windows:           collections.NewMap(sb, types.EpochWindowsKeyPrefix, "windows", collections.Uint64Key, types.EpochWindowValue),
		voterRewardSums:   collections.NewMap(sb, types.VoterRewardSumsPrefix, "voter_reward_sums", collections.Uint64Key, sdk.IntValue),
		daoCandidates:     collections.NewItem(sb, types.DaoCandidatesKey, "dao_candidates", types.CandidateRegistryValue),
		upgradeCandidates: collections.NewItem(sb, types.UpgradeCandidatesKey, "upgrade_candidates", types.CandidateRegistryValue),
		pendingDao:        collections.NewItem(sb, types.PendingDaoKey, "pending_dao", types.PendingDaoValue),
		approvedUpgrade:   collections.NewItem(sb, types.ApprovedUpgradeKey, "approved_upgrade", types.ApprovedUpgradeValue),
		entered:           collections.NewItem(sb, types.EnteredKey, "entered", collections.BoolValue),
		ledger:            ledger,
	}

	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	k.schema = schema

	return k
}

// Logger returns the module logger extracted using the sdk context.
func (k *Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// GetParams returns the module params.
func (k *Keeper) GetParams(ctx context.Context) (types.Params, error) {
	params, err := k.params.Get(ctx)
	if err != nil {
		return types.Params{}, errorsmod.Wrap(err, "loading egl params")
	}
	return params, nil
}

func (k *Keeper) getState(ctx context.Context) (types.GlobalState, error) {
	state, err := k.state.Get(ctx)
	if err != nil {
		return types.GlobalState{}, errorsmod.Wrap(err, "loading egl state")
	}
	return state, nil
}

func (k *Keeper) getVoter(ctx context.Context, addr sdk.AccAddress) (types.VoterRecord, bool, error) {
	record, err := k.voters.Get(ctx, addr)
	if errors.Is(err, collections.ErrNotFound) {
		return types.VoterRecord{}, false, nil
	}
	if err != nil {
		return types.VoterRecord{}, false, errorsmod.Wrapf(err, "loading voter %s", addr)
	}
	return record, true, nil
}

func (k *Keeper) getRegistry(ctx context.Context, kind types.RegistryKind) (types.CandidateRegistry, error) {
	registry, err := k.registryItem(kind).Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.NewCandidateRegistry(), nil
	}
	if err != nil {
		return types.CandidateRegistry{}, errorsmod.Wrapf(err, "loading %s candidates", kind)
	}
	return registry, nil
}

func (k *Keeper) setRegistry(ctx context.Context, kind types.RegistryKind, registry types.CandidateRegistry) error {
	return k.registryItem(kind).Set(ctx, registry)
}

func (k *Keeper) registryItem(kind types.RegistryKind) collections.Item[types.CandidateRegistry] {
	if kind == types.RegistryDao {
		return k.daoCandidates
	}
	return k.upgradeCandidates
}

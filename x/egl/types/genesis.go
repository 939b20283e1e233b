package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// EpochAmount is an amount attributed to one epoch.
type EpochAmount struct {
	Epoch  uint64   `json:"epoch"`
	Amount math.Int `json:"amount"`
}

// GenesisState defines the egl module's genesis state. State is optional;
// when it is nil a fresh state is derived from Params and
// TokensInCirculation.
type GenesisState struct {
	Params              Params               `json:"params"`
	TokensInCirculation math.Int             `json:"tokens_in_circulation"`
	State               *GlobalState         `json:"state,omitempty"`
	Voters              []GenesisVoter       `json:"voters,omitempty"`
	Windows             []EpochWindow        `json:"windows,omitempty"`
	VoterRewardSums     []EpochAmount        `json:"voter_reward_sums,omitempty"`
	DaoCandidates       *CandidateRegistry   `json:"dao_candidates,omitempty"`
	UpgradeCandidates   *CandidateRegistry   `json:"upgrade_candidates,omitempty"`
	PendingDao          *PendingDaoCandidate `json:"pending_dao,omitempty"`
	ApprovedUpgrade     *ApprovedUpgrade     `json:"approved_upgrade,omitempty"`
}

// DefaultGenesis returns the default module genesis.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:              DefaultParams(),
		TokensInCirculation: math.ZeroInt(),
	}
}

// Validate performs basic genesis state validation.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if gs.TokensInCirculation.IsNil() || gs.TokensInCirculation.IsNegative() {
		return errorsmod.Wrap(ErrInvalidGenesis, "tokens in circulation must be non-negative")
	}

	voters := make(map[string]struct{}, len(gs.Voters))
	for _, v := range gs.Voters {
		if v.Address.Empty() {
			return errorsmod.Wrap(ErrInvalidGenesis, "voter address must be set")
		}
		if _, exists := voters[v.Address.String()]; exists {
			return errorsmod.Wrapf(ErrInvalidGenesis, "duplicate voter %s", v.Address)
		}
		voters[v.Address.String()] = struct{}{}
		if v.Record.TokensLocked.IsNil() || !v.Record.TokensLocked.IsPositive() {
			return errorsmod.Wrapf(ErrInvalidGenesis, "voter %s has no tokens locked", v.Address)
		}
		if v.Record.LockupDuration == 0 || v.Record.LockupDuration > gs.Params.MaxLockup {
			return errorsmod.Wrapf(ErrInvalidGenesis, "voter %s has lockup %d", v.Address, v.Record.LockupDuration)
		}
	}

	slots := make(map[uint64]struct{}, len(gs.Windows))
	for _, w := range gs.Windows {
		slot := WindowSlot(w.Epoch)
		if _, exists := slots[slot]; exists {
			return errorsmod.Wrapf(ErrInvalidGenesis, "duplicate window slot %d", slot)
		}
		slots[slot] = struct{}{}
	}

	for _, registry := range []*CandidateRegistry{gs.DaoCandidates, gs.UpgradeCandidates} {
		if registry == nil {
			continue
		}
		if registry.Len() > MaxCandidates {
			return errorsmod.Wrap(ErrInvalidGenesis, fmt.Sprintf("candidate registry holds %d entries", registry.Len()))
		}
		for _, e := range registry.Entries {
			if e.Insertion >= registry.NextInsertion {
				return errorsmod.Wrapf(ErrInvalidGenesis, "candidate %s has insertion %d, next insertion is %d", e.Address, e.Insertion, registry.NextInsertion)
			}
		}
	}
	return nil
}

package types

import (
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// VoterRecord is the single active vote of an address.
type VoterRecord struct {
	GasTarget      uint64         `json:"gas_target"`
	TokensLocked   math.Int       `json:"tokens_locked"`
	LockupDuration uint64         `json:"lockup_duration"`
	VoteEpoch      uint64         `json:"vote_epoch"`
	ReleaseDate    time.Time      `json:"release_date"`
	DaoRecipient   sdk.AccAddress `json:"dao_recipient,omitempty"`
	DaoAmount      math.Int       `json:"dao_amount"`
	UpgradeAddress sdk.AccAddress `json:"upgrade_address,omitempty"`
	// AccruedReward is voter reward already earned on consumed epochs of an
	// earlier window, carried over by a re-vote.
	AccruedReward math.Int `json:"accrued_reward"`
	// DaoEntry and UpgradeEntry are the insertion numbers of the registry
	// entries the candidate votes were counted in. Nil when nothing was
	// stored, for example after a lost candidate vote.
	DaoEntry     *uint64 `json:"dao_entry,omitempty"`
	UpgradeEntry *uint64 `json:"upgrade_entry,omitempty"`
}

// VoteWeight is the amount locked multiplied by the lockup duration.
func (v VoterRecord) VoteWeight() math.Int {
	return v.TokensLocked.Mul(math.NewIntFromUint64(v.LockupDuration))
}

// Window is the range of epochs the vote counts toward.
func (v VoterRecord) Window() EpochRange {
	return NewEpochRange(v.VoteEpoch, v.LockupDuration)
}

// Contribution is what the vote adds to each epoch of its window.
func (v VoterRecord) Contribution() WindowContribution {
	weight := v.VoteWeight()
	return WindowContribution{
		VoteWeight:        weight,
		GasTargetWeighted: weight.Mul(math.NewIntFromUint64(v.GasTarget)),
		Votes:             v.TokensLocked,
		Reward:            weight,
	}
}

// HasDaoVote reports whether the vote backs a treasury recipient.
func (v VoterRecord) HasDaoVote() bool {
	return !v.DaoRecipient.Empty()
}

// HasUpgradeVote reports whether the vote backs an upgrade address.
func (v VoterRecord) HasUpgradeVote() bool {
	return !v.UpgradeAddress.Empty()
}

// GenesisVoter pairs a voter record with its address for genesis import and
// export.
type GenesisVoter struct {
	Address sdk.AccAddress `json:"address"`
	Record  VoterRecord    `json:"record"`
}

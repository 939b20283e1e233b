package types

import (
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GlobalState holds the scalars of the governance engine.
type GlobalState struct {
	CurrentEpoch               uint64    `json:"current_epoch"`
	CurrentEpochStartDate      time.Time `json:"current_epoch_start_date"`
	InitialEgl                 uint64    `json:"initial_egl"`
	BaselineEgl                uint64    `json:"baseline_egl"`
	DesiredEgl                 uint64    `json:"desired_egl"`
	TokensInCirculation        math.Int  `json:"tokens_in_circulation"`
	CreatorRewardRemaining     math.Int  `json:"creator_reward_remaining"`
	VotingThresholdBasisPoints uint64    `json:"voting_threshold_basis_points"`
	LastThresholdPassEpoch     uint64    `json:"last_threshold_pass_epoch"`
	// CreatorRewardPayouts counts paid creator reward epochs and
	// LastCreatorRewardEpoch is the epoch of the latest payout.
	CreatorRewardPayouts   uint64 `json:"creator_reward_payouts"`
	LastCreatorRewardEpoch uint64 `json:"last_creator_reward_epoch"`
	SeedAccountsFunded     bool   `json:"seed_accounts_funded"`
}

// NewGlobalState returns the state of a fresh network.
func NewGlobalState(params Params, tokensInCirculation math.Int) GlobalState {
	return GlobalState{
		CurrentEpoch:               0,
		CurrentEpochStartDate:      params.GenesisTime,
		InitialEgl:                 params.InitialEgl,
		BaselineEgl:                params.InitialEgl,
		DesiredEgl:                 params.InitialEgl,
		TokensInCirculation:        tokensInCirculation,
		CreatorRewardRemaining:     params.CreatorRewardTotal,
		VotingThresholdBasisPoints: VotingThresholdBasisPoints(0),
	}
}

// CurrentEpochEndDate is the earliest time the current epoch can be tallied.
func (s GlobalState) CurrentEpochEndDate(epochLength time.Duration) time.Time {
	return s.CurrentEpochStartDate.Add(epochLength)
}

// CreatorRewardIssuedThisEpoch reports whether the current epoch already paid
// its creator reward.
func (s GlobalState) CreatorRewardIssuedThisEpoch() bool {
	return s.CreatorRewardPayouts > 0 && s.LastCreatorRewardEpoch == s.CurrentEpoch
}

// PendingDaoCandidate is a treasury candidate that passed evaluation and is
// waiting for the remaining consecutive confirmations.
type PendingDaoCandidate struct {
	Recipient     sdk.AccAddress `json:"recipient"`
	Amount        math.Int       `json:"amount"`
	Epoch         uint64         `json:"epoch"`
	Confirmations uint64         `json:"confirmations"`
}

// ApprovedUpgrade is the upgrade address that passed the latest successful
// upgrade evaluation.
type ApprovedUpgrade struct {
	Address             sdk.AccAddress `json:"address"`
	Epoch               uint64         `json:"epoch"`
	TotalVotePercentage math.LegacyDec `json:"total_vote_percentage"`
}

// TallyResult summarizes one call to TallyVotes.
type TallyResult struct {
	Epoch                uint64
	VotesTotal           math.Int
	TokensInCirculation  math.Int
	ActualVotePercentage math.LegacyDec
	ThresholdBasisPoints uint64
	ThresholdMet         bool
	InGracePeriod        bool
	AverageGasTarget     uint64
	DesiredEgl           uint64
	BaselineEgl          uint64
	CreatorReward        math.Int
	Dao                  CandidateEvaluation
	Upgrade              CandidateEvaluation
}

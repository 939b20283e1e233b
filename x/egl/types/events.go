package types

// Event types emitted by the egl module.
const (
	EventTypeVote                   = "vote"
	EventTypeReVote                 = "re_vote"
	EventTypeWithdraw               = "withdraw"
	EventTypeVotesTallied           = "votes_tallied"
	EventTypeVoteThresholdMet       = "vote_threshold_met"
	EventTypeVoteThresholdFailed    = "vote_threshold_failed"
	EventTypeCreatorRewardsClaimed  = "creator_rewards_claimed"
	EventTypeCandidateVoteAdded     = "candidate_vote_added"
	EventTypeCandidateVoteRemoved   = "candidate_vote_removed"
	EventTypeCandidateVoteEvaluated = "candidate_vote_evaluated"
	EventTypeBlockRewardCalculated  = "block_reward_calculated"
	EventTypeSeedAccountFunded      = "seed_account_funded"
	EventTypeDaoDisbursement        = "dao_disbursement"
	EventTypeUpgradeApproved        = "upgrade_approved"
)

// Event attribute keys.
const (
	AttributeKeyVoter               = "voter"
	AttributeKeyGasTarget           = "gas_target"
	AttributeKeyTokensLocked        = "tokens_locked"
	AttributeKeyAmount              = "amount"
	AttributeKeyLockupDuration      = "lockup_duration"
	AttributeKeyVoteWeight          = "vote_weight"
	AttributeKeyVoteEpoch           = "vote_epoch"
	AttributeKeyReleaseDate         = "release_date"
	AttributeKeyReward              = "reward"
	AttributeKeyEpoch               = "epoch"
	AttributeKeyVotesTotal          = "votes_total"
	AttributeKeyCirculation         = "tokens_in_circulation"
	AttributeKeyVotePercentage      = "actual_vote_percentage"
	AttributeKeyThresholdBasisPts   = "threshold_basis_points"
	AttributeKeyAverageGasTarget    = "average_gas_target"
	AttributeKeyDesiredEgl          = "desired_egl"
	AttributeKeyBaselineEgl         = "baseline_egl"
	AttributeKeyGracePeriod         = "grace_period"
	AttributeKeyCreator             = "creator"
	AttributeKeyRemaining           = "remaining"
	AttributeKeyRegistry            = "registry"
	AttributeKeyCandidate           = "candidate"
	AttributeKeyVoteCount           = "vote_count"
	AttributeKeyOutcome             = "outcome"
	AttributeKeyEvictedCandidate    = "evicted_candidate"
	AttributeKeyEvictedVoteCount    = "evicted_vote_count"
	AttributeKeyTotalVotes          = "total_votes"
	AttributeKeyTotalVotePercentage = "total_vote_percentage"
	AttributeKeyPassed              = "passed"
	AttributeKeyGasLimit            = "gas_limit"
	AttributeKeyDelta               = "delta"
	AttributeKeyRewardPercentage    = "reward_percentage"
	AttributeKeySeedAccount         = "seed_account"
	AttributeKeyRecipient           = "recipient"
	AttributeKeyUpgradeAddress      = "upgrade_address"
	AttributeKeyConfirmations       = "confirmations"
)

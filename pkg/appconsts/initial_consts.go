package appconsts

import "time"

// The following defaults correspond to the initial parameters of the
// governance engine. They can be changed through genesis.
const (
	// DefaultEpochLength is the length of one voting epoch.
	DefaultEpochLength = 7 * 24 * time.Hour

	// DefaultInitialEgl is the gas limit the network starts at and decays
	// back toward when votes fail to reach the threshold.
	DefaultInitialEgl uint64 = 12_500_000

	// DefaultMaxGasTargetDelta is the maximum distance between a voted gas
	// target and the baseline.
	DefaultMaxGasTargetDelta uint64 = 4_000_000

	// DefaultMaxEglStep is the maximum change of the desired gas limit per
	// passing tally.
	DefaultMaxEglStep uint64 = 1_000_000

	// DefaultMaxLockup is the longest lockup a vote can choose, in epochs.
	DefaultMaxLockup uint64 = 8

	// DefaultGracePeriodEpochs is the number of epochs after the last
	// passing tally during which a failed tally keeps the desired value.
	DefaultGracePeriodEpochs uint64 = 5

	// DefaultDecayPercent is the share of the distance to the initial value
	// applied after the grace period.
	DefaultDecayPercent uint64 = 5

	// DefaultCreatorRewardStartEpoch is the first epoch paying creator rewards.
	DefaultCreatorRewardStartEpoch uint64 = 9

	// DefaultRewardEpochs is the number of epochs covered by the reward
	// schedules (one year of weekly epochs).
	DefaultRewardEpochs uint64 = 52

	// DefaultDaoThresholdPercent is the share of candidate votes required for
	// a treasury disbursement.
	DefaultDaoThresholdPercent uint64 = 20

	// DefaultUpgradeThresholdPercent is the share of candidate votes required
	// for a contract upgrade approval.
	DefaultUpgradeThresholdPercent uint64 = 50

	// DefaultDaoConfirmationEpochs is the number of consecutive passing
	// evaluations required before a treasury disbursement executes.
	DefaultDaoConfirmationEpochs uint64 = 2
)

// Whole token defaults. They are converted to base units by the params.
const (
	DefaultMinVoteTokens         int64 = 1
	DefaultCreatorRewardTokens   int64 = 500_000_000
	DefaultVoterRewardTokens     int64 = 500_000_000
	DefaultSeedAccountTokens     int64 = 2_500_000
	DefaultBlockRewardBaseTokens int64 = 2
)

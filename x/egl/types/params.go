package types

import (
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/eglgov/egl-app/pkg/appconsts"
)

// Params configures the governance engine. They are fixed at genesis.
type Params struct {
	GenesisTime       time.Time     `json:"genesis_time"`
	EpochLength       time.Duration `json:"epoch_length"`
	InitialEgl        uint64        `json:"initial_egl"`
	MaxGasTargetDelta uint64        `json:"max_gas_target_delta"`
	MaxEglStep        uint64        `json:"max_egl_step"`
	MinVoteAmount     math.Int      `json:"min_vote_amount"`
	MaxLockup         uint64        `json:"max_lockup"`
	GracePeriodEpochs uint64        `json:"grace_period_epochs"`
	DecayPercent      uint64        `json:"decay_percent"`

	CreatorAddress          sdk.AccAddress `json:"creator_address,omitempty"`
	CreatorRewardTotal      math.Int       `json:"creator_reward_total"`
	CreatorRewardStartEpoch uint64         `json:"creator_reward_start_epoch"`
	RewardEpochs            uint64         `json:"reward_epochs"`
	VoterRewardTotal        math.Int       `json:"voter_reward_total"`
	SeedAccountAmount       math.Int       `json:"seed_account_amount"`
	BlockRewardBase         math.Int       `json:"block_reward_base"`

	DaoThresholdPercent     uint64 `json:"dao_threshold_percent"`
	UpgradeThresholdPercent uint64 `json:"upgrade_threshold_percent"`
	DaoConfirmationEpochs   uint64 `json:"dao_confirmation_epochs"`

	// AutoTally makes EndBlock tally the current epoch once it has ended.
	AutoTally bool `json:"auto_tally"`
}

// DefaultParams returns a default set of parameters.
func DefaultParams() Params {
	return Params{
		GenesisTime:             time.Unix(0, 0).UTC(),
		EpochLength:             appconsts.DefaultEpochLength,
		InitialEgl:              appconsts.DefaultInitialEgl,
		MaxGasTargetDelta:       appconsts.DefaultMaxGasTargetDelta,
		MaxEglStep:              appconsts.DefaultMaxEglStep,
		MinVoteAmount:           appconsts.Tokens(appconsts.DefaultMinVoteTokens),
		MaxLockup:               appconsts.DefaultMaxLockup,
		GracePeriodEpochs:       appconsts.DefaultGracePeriodEpochs,
		DecayPercent:            appconsts.DefaultDecayPercent,
		CreatorRewardTotal:      appconsts.Tokens(appconsts.DefaultCreatorRewardTokens),
		CreatorRewardStartEpoch: appconsts.DefaultCreatorRewardStartEpoch,
		RewardEpochs:            appconsts.DefaultRewardEpochs,
		VoterRewardTotal:        appconsts.Tokens(appconsts.DefaultVoterRewardTokens),
		SeedAccountAmount:       appconsts.Tokens(appconsts.DefaultSeedAccountTokens),
		BlockRewardBase:         appconsts.Tokens(appconsts.DefaultBlockRewardBaseTokens),
		DaoThresholdPercent:     appconsts.DefaultDaoThresholdPercent,
		UpgradeThresholdPercent: appconsts.DefaultUpgradeThresholdPercent,
		DaoConfirmationEpochs:   appconsts.DefaultDaoConfirmationEpochs,
	}
}

// Validate validates the params
func (p Params) Validate() error {
	if p.EpochLength <= 0 {
		return errorsmod.Wrapf(ErrInvalidParams, "epoch length must be positive, got %s", p.EpochLength)
	}
	if p.InitialEgl == 0 {
		return errorsmod.Wrap(ErrInvalidParams, "initial egl must be positive")
	}
	if p.MaxLockup == 0 || p.MaxLockup > EpochWindowSlots {
		return errorsmod.Wrapf(ErrInvalidParams, "max lockup must be in [1, %d], got %d", EpochWindowSlots, p.MaxLockup)
	}
	if p.DecayPercent > 100 {
		return errorsmod.Wrapf(ErrInvalidParams, "decay percent must not exceed 100, got %d", p.DecayPercent)
	}
	if p.RewardEpochs <= p.CreatorRewardStartEpoch {
		return errorsmod.Wrapf(ErrInvalidParams, "reward epochs %d must be greater than creator reward start epoch %d", p.RewardEpochs, p.CreatorRewardStartEpoch)
	}
	if p.DaoThresholdPercent > 100 || p.UpgradeThresholdPercent > 100 {
		return errorsmod.Wrap(ErrInvalidParams, "candidate thresholds must not exceed 100 percent")
	}
	if p.DaoConfirmationEpochs == 0 {
		return errorsmod.Wrap(ErrInvalidParams, "dao confirmation epochs must be positive")
	}
	for name, amount := range map[string]math.Int{
		"min vote amount":      p.MinVoteAmount,
		"creator reward total": p.CreatorRewardTotal,
		"voter reward total":   p.VoterRewardTotal,
		"seed account amount":  p.SeedAccountAmount,
		"block reward base":    p.BlockRewardBase,
	} {
		if err := validateAmount(name, amount); err != nil {
			return err
		}
	}
	return nil
}

func validateAmount(name string, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return errorsmod.Wrapf(ErrInvalidParams, "%s must be non-negative, got %v", name, amount)
	}
	return nil
}

// Clock returns the epoch clock described by the params.
func (p Params) Clock() EpochClock {
	return NewEpochClock(p.GenesisTime, p.EpochLength)
}

// CreatorRewardEpochs is the number of epochs paying creator rewards.
func (p Params) CreatorRewardEpochs() uint64 {
	return p.RewardEpochs - p.CreatorRewardStartEpoch
}

// CreatorRewardShare is the creator reward paid per qualifying epoch.
func (p Params) CreatorRewardShare() math.Int {
	return p.CreatorRewardTotal.Quo(math.NewIntFromUint64(p.CreatorRewardEpochs()))
}

// VoterRewardForEpoch returns the voter reward pool of an epoch. The pool
// shrinks linearly so that epoch e receives a share proportional to
// RewardEpochs - e, and the shares over all reward epochs add up to
// VoterRewardTotal (minus truncation).
func (p Params) VoterRewardForEpoch(epoch uint64) math.Int {
	if epoch >= p.RewardEpochs {
		return math.ZeroInt()
	}
	n := p.RewardEpochs
	denominator := math.NewIntFromUint64(n * (n + 1) / 2)
	return p.VoterRewardTotal.Mul(math.NewIntFromUint64(n - epoch)).Quo(denominator)
}

// String implements the Stringer interface.
func (p Params) String() string {
	return fmt.Sprintf("epoch_length=%s initial_egl=%d max_lockup=%d creator_reward_total=%s voter_reward_total=%s",
		p.EpochLength, p.InitialEgl, p.MaxLockup, p.CreatorRewardTotal, p.VoterRewardTotal)
}

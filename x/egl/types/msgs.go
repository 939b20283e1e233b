package types

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgVote locks Amount for LockupDuration epochs and votes for GasTarget.
// DaoRecipient and UpgradeAddress optionally add candidate votes carrying the
// same vote weight.
type MsgVote struct {
	Voter          sdk.AccAddress
	GasTarget      uint64
	Amount         math.Int
	LockupDuration uint64
	DaoRecipient   sdk.AccAddress
	DaoAmount      math.Int
	UpgradeAddress sdk.AccAddress
}

// ValidateBasic performs the checks that need no state.
func (msg MsgVote) ValidateBasic() error {
	if msg.Voter.Empty() {
		return errorsmod.Wrap(ErrInvalidAddress, "voter address is empty")
	}
	if msg.Amount.IsNil() || msg.Amount.IsNegative() {
		return errorsmod.Wrap(ErrInvalidAmount, "amount must be non-negative")
	}
	if !msg.DaoAmount.IsNil() && msg.DaoAmount.IsNegative() {
		return errorsmod.Wrap(ErrInvalidAmount, "dao amount must be non-negative")
	}
	return nil
}

// daoAmount returns the requested treasury amount, zero when unset.
func (msg MsgVote) daoAmount() math.Int {
	if msg.DaoAmount.IsNil() || msg.DaoRecipient.Empty() {
		return math.ZeroInt()
	}
	return msg.DaoAmount
}

// Record returns the voter record the message would create.
func (msg MsgVote) Record() VoterRecord {
	return VoterRecord{
		GasTarget:      msg.GasTarget,
		TokensLocked:   msg.Amount,
		LockupDuration: msg.LockupDuration,
		DaoRecipient:   msg.DaoRecipient,
		DaoAmount:      msg.daoAmount(),
		UpgradeAddress: msg.UpgradeAddress,
		AccruedReward:  math.ZeroInt(),
	}
}

// MsgReVote replaces an active vote. Amount is added to the tokens already
// locked and may be zero.
type MsgReVote struct {
	MsgVote
}

// MsgWithdraw releases an expired vote.
type MsgWithdraw struct {
	Voter sdk.AccAddress
}

// ValidateBasic performs the checks that need no state.
func (msg MsgWithdraw) ValidateBasic() error {
	if msg.Voter.Empty() {
		return errorsmod.Wrap(ErrInvalidAddress, "voter address is empty")
	}
	return nil
}

package types

import (
	errorsmod "cosmossdk.io/errors"
)

// Module error codes scoped by ModuleName.
// NOTE: Error code 1 is reserved by cosmos-sdk as internal error / unknown failure

// Balance and allowance errors. The caller may retry with corrected inputs.
var (
	ErrInsufficientBalance   = errorsmod.Register(ModuleName, 2, "INSUFFICIENT_EGL_BALANCE")
	ErrInsufficientAllowance = errorsmod.Register(ModuleName, 3, "INSUFFICIENT_ALLOWANCE")
	ErrAmountTooLow          = errorsmod.Register(ModuleName, 4, "AMNT_TOO_LOW")
)

// State errors.
var (
	ErrAlreadyVoted           = errorsmod.Register(ModuleName, 5, "ALREADY_VOTED")
	ErrNotVoted               = errorsmod.Register(ModuleName, 6, "NOT_VOTED")
	ErrVoteNotEnded           = errorsmod.Register(ModuleName, 7, "VOTE_NOT_ENDED")
	ErrLockupNotExpired       = errorsmod.Register(ModuleName, 8, "LOCKUP_NOT_EXPIRED")
	ErrSeedAccountsFunded     = errorsmod.Register(ModuleName, 9, "SEED_ACCOUNTS_FUNDED")
	ErrCreatorRewardsIssued   = errorsmod.Register(ModuleName, 10, "CREATOR_REWARDS_ISSUED")
	ErrCreatorRewardsNotBegun = errorsmod.Register(ModuleName, 11, "CREATOR_REWARDS_NOT_STARTED")
	ErrUnauthorized           = errorsmod.Register(ModuleName, 12, "UNAUTHORIZED")
	ErrReentrantCall          = errorsmod.Register(ModuleName, 13, "REENTRANT_CALL")
)

// Domain range errors.
var (
	ErrInvalidGasTarget = errorsmod.Register(ModuleName, 14, "INVALID_GAS_TARGET")
	ErrInvalidLockup    = errorsmod.Register(ModuleName, 15, "INVALID_LOCKUP")
	ErrInvalidAddress   = errorsmod.Register(ModuleName, 16, "INVALID_ADDRESS")
	ErrInvalidAmount    = errorsmod.Register(ModuleName, 17, "INVALID_AMOUNT")
)

// Configuration errors.
var (
	ErrInvalidParams  = errorsmod.Register(ModuleName, 18, "INVALID_PARAMS")
	ErrInvalidGenesis = errorsmod.Register(ModuleName, 19, "INVALID_GENESIS")
)

// Accounting errors that indicate a bookkeeping bug rather than bad input.
var (
	ErrWindowUnderflow    = errorsmod.Register(ModuleName, 20, "WINDOW_UNDERFLOW")
	ErrWindowOutOfRange   = errorsmod.Register(ModuleName, 21, "WINDOW_OUT_OF_RANGE")
	ErrCandidateUnderflow = errorsmod.Register(ModuleName, 22, "CANDIDATE_UNDERFLOW")
	ErrRegistryOverflow   = errorsmod.Register(ModuleName, 23, "CANDIDATE_REGISTRY_OVERFLOW")
)

package types

import (
	"cosmossdk.io/collections"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "egl"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// EpochWindowSlots is the number of ring slots for per-epoch vote sums.
	// It matches the longest possible lockup.
	EpochWindowSlots = 8

	// MaxCandidates is the capacity of each candidate registry.
	MaxCandidates = 10
)

var (
	ParamsKey             = collections.NewPrefix(0)
	GlobalStateKey        = collections.NewPrefix(1)
	VotersKeyPrefix       = collections.NewPrefix(2)
	EpochWindowsKeyPrefix = collections.NewPrefix(3)
	VoterRewardSumsPrefix = collections.NewPrefix(4)
	DaoCandidatesKey      = collections.NewPrefix(5)
	UpgradeCandidatesKey  = collections.NewPrefix(6)
	PendingDaoKey         = collections.NewPrefix(7)
	ApprovedUpgradeKey    = collections.NewPrefix(8)
	EnteredKey            = collections.NewPrefix(9)
)

// ModuleAddress is the account that holds locked tokens and the reward pools.
var ModuleAddress = authtypes.NewModuleAddress(ModuleName)

// WindowSlot returns the ring slot used for the given epoch.
func WindowSlot(epoch uint64) uint64 {
	return epoch % EpochWindowSlots
}

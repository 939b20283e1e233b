package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// TokenLedger defines the expected interface of the external token ledger
// (balance, allowance and transfer primitives) required by the egl module.
// The module only ever spends allowances granted to ModuleAddress.
type TokenLedger interface {
	BalanceOf(ctx context.Context, owner sdk.AccAddress) math.Int
	Allowance(ctx context.Context, owner, spender sdk.AccAddress) math.Int
	Transfer(ctx context.Context, from, to sdk.AccAddress, amount math.Int) error
	TransferFrom(ctx context.Context, spender, from, to sdk.AccAddress, amount math.Int) error
}

// Package tokenledger is a store backed fungible token ledger with
// balances, allowances and transfers. It stands in for the external token
// contract when the egl keeper runs inside the simulator and keeper tests.
package tokenledger

import (
	"context"

	"cosmossdk.io/collections"
	corestore "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// StoreKey is the store key the ledger is mounted under.
const StoreKey = "tokenledger"

var (
	BalancesKeyPrefix   = collections.NewPrefix(0)
	AllowancesKeyPrefix = collections.NewPrefix(1)
	SupplyKey           = collections.NewPrefix(2)
)

var (
	ErrInsufficientFunds     = errorsmod.Register(StoreKey, 2, "insufficient funds")
	ErrInsufficientAllowance = errorsmod.Register(StoreKey, 3, "insufficient allowance")
	ErrInvalidAmount         = errorsmod.Register(StoreKey, 4, "invalid amount")
)

// Ledger keeps balances and allowances in a KV store. Every operation goes
// through the store of the given context, so a cached context rolls back
// transfers together with the caller's own writes.
type Ledger struct {
	balances   collections.Map[sdk.AccAddress, math.Int]
	allowances collections.Map[collections.Pair[sdk.AccAddress, sdk.AccAddress], math.Int]
	supply     collections.Item[math.Int]
	schema     collections.Schema
}

// NewLedger creates a ledger on top of the store service.
func NewLedger(storeService corestore.KVStoreService) *Ledger {
	sb := collections.NewSchemaBuilder(storeService)

	l := &Ledger{
		balances:   collections.NewMap(sb, BalancesKeyPrefix, "balances", sdk.AccAddressKey, sdk.IntValue),
		allowances: collections.NewMap(sb, AllowancesKeyPrefix, "allowances", collections.PairKeyCodec(sdk.AccAddressKey, sdk.AccAddressKey), sdk.IntValue),
		supply:     collections.NewItem(sb, SupplyKey, "supply", sdk.IntValue),
	}

	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	l.schema = schema

	return l
}

// BalanceOf returns the balance of owner.
func (l *Ledger) BalanceOf(ctx context.Context, owner sdk.AccAddress) math.Int {
	balance, err := l.balances.Get(ctx, owner)
	if err != nil {
		return math.ZeroInt()
	}
	return balance
}

// Allowance returns how much spender may move out of owner's balance.
func (l *Ledger) Allowance(ctx context.Context, owner, spender sdk.AccAddress) math.Int {
	allowance, err := l.allowances.Get(ctx, collections.Join(owner, spender))
	if err != nil {
		return math.ZeroInt()
	}
	return allowance
}

// TotalSupply returns the amount minted so far.
func (l *Ledger) TotalSupply(ctx context.Context) math.Int {
	supply, err := l.supply.Get(ctx)
	if err != nil {
		return math.ZeroInt()
	}
	return supply
}

// Mint credits amount to the account and grows the supply.
func (l *Ledger) Mint(ctx context.Context, to sdk.AccAddress, amount math.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if err := l.balances.Set(ctx, to, l.BalanceOf(ctx, to).Add(amount)); err != nil {
		return err
	}
	return l.supply.Set(ctx, l.TotalSupply(ctx).Add(amount))
}

// Approve sets the allowance of spender over owner's balance, replacing any
// previous value.
func (l *Ledger) Approve(ctx context.Context, owner, spender sdk.AccAddress, amount math.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	key := collections.Join(owner, spender)
	if amount.IsZero() {
		return l.allowances.Remove(ctx, key)
	}
	return l.allowances.Set(ctx, key, amount)
}

// Transfer moves amount from one account to another.
func (l *Ledger) Transfer(ctx context.Context, from, to sdk.AccAddress, amount math.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	balance := l.BalanceOf(ctx, from)
	if balance.LT(amount) {
		return errorsmod.Wrapf(ErrInsufficientFunds, "%s has %s, needs %s", from, balance, amount)
	}
	if amount.IsZero() || from.Equals(to) {
		return nil
	}
	if err := l.setBalance(ctx, from, balance.Sub(amount)); err != nil {
		return err
	}
	return l.setBalance(ctx, to, l.BalanceOf(ctx, to).Add(amount))
}

// TransferFrom moves amount out of from's balance on behalf of spender and
// consumes the allowance.
func (l *Ledger) TransferFrom(ctx context.Context, spender, from, to sdk.AccAddress, amount math.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	allowance := l.Allowance(ctx, from, spender)
	if allowance.LT(amount) {
		return errorsmod.Wrapf(ErrInsufficientAllowance, "%s may spend %s of %s, needs %s", spender, allowance, from, amount)
	}
	if err := l.Transfer(ctx, from, to, amount); err != nil {
		return err
	}
	return l.Approve(ctx, from, spender, allowance.Sub(amount))
}

func (l *Ledger) setBalance(ctx context.Context, addr sdk.AccAddress, amount math.Int) error {
	if amount.IsZero() {
		return l.balances.Remove(ctx, addr)
	}
	return l.balances.Set(ctx, addr, amount)
}

func validateAmount(amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return errorsmod.Wrapf(ErrInvalidAmount, "%v", amount)
	}
	return nil
}

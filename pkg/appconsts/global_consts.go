package appconsts

import "cosmossdk.io/math"

// These constants describe the governed token. They cannot change throughout
// the lifetime of a network.
const (
	// BondDenom is the denomination of the governed token.
	BondDenom = "egl"

	// TokenDecimals is the number of decimal places of one whole token.
	TokenDecimals = 18

	// Bech32PrefixAccAddr is the account address prefix used by the simulator.
	Bech32PrefixAccAddr = "egl"

	// Bech32PrefixAccPub is the account public key prefix used by the simulator.
	Bech32PrefixAccPub = "eglpub"
)

// OneToken is one whole token expressed in base units.
var OneToken = math.NewIntWithDecimal(1, TokenDecimals)

// Tokens converts a whole number of tokens into base units.
func Tokens(n int64) math.Int {
	return math.NewInt(n).Mul(OneToken)
}

// TokensFromDec converts a decimal token amount (for example "2.5") into base
// units, truncating anything below one base unit.
func TokensFromDec(amount string) (math.Int, error) {
	dec, err := math.LegacyNewDecFromStr(amount)
	if err != nil {
		return math.Int{}, err
	}
	return dec.MulInt(OneToken).TruncateInt(), nil
}

// ToWholeTokens converts base units into a decimal of whole tokens.
func ToWholeTokens(amount math.Int) math.LegacyDec {
	return math.LegacyNewDecFromInt(amount).QuoInt(OneToken)
}

package cmd

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/eglgov/egl-app/pkg/appconsts"
)

func init() {
	setAddressPrefixes()
}

// setAddressPrefixes makes every account address the simulator prints or
// parses use the egl prefixes.
func setAddressPrefixes() {
	config := sdk.GetConfig()
	config.SetBech32PrefixForAccount(appconsts.Bech32PrefixAccAddr, appconsts.Bech32PrefixAccPub)
	config.Seal()
}

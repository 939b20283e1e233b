package egl

import (
	"context"
	"time"

	"github.com/cosmos/cosmos-sdk/telemetry"

	"github.com/eglgov/egl-app/x/egl/keeper"
	"github.com/eglgov/egl-app/x/egl/types"
)

// EndBlocker tallies the current epoch once it has ended when auto tally is
// enabled. At most one epoch is tallied per block.
func EndBlocker(ctx context.Context, k *keeper.Keeper) error {
	defer telemetry.ModuleMeasureSince(types.ModuleName, time.Now(), telemetry.MetricKeyEndBlocker)

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	if !params.AutoTally {
		return nil
	}

	ended, err := k.EpochEnded(ctx)
	if err != nil || !ended {
		return err
	}

	_, err = k.TallyVotes(ctx)
	return err
}

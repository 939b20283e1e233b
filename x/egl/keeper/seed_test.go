package keeper_test

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/eglgov/egl-app/pkg/appconsts"
	"github.com/eglgov/egl-app/x/egl/types"
)

func (s *KeeperTestSuite) fundSeeds() {
	s.Require().NoError(s.keeper.FundSeedAccounts(s.ctx, creator, []sdk.AccAddress{seedA, seedB}))
}

func (s *KeeperTestSuite) TestFundSeedAccounts() {
	s.fundSeeds()

	seedWeight := appconsts.Tokens(40_000_000)
	for epoch := uint64(0); epoch < 8; epoch++ {
		s.requireWindow(epoch, seedWeight)

		votes, err := s.keeper.VotesTotal(s.ctx, epoch)
		s.Require().NoError(err)
		s.requireIntEqual(appconsts.Tokens(5_000_000), votes)
	}
	s.requireWindow(8, math.ZeroInt())

	for epoch := uint64(0); epoch < s.params.RewardEpochs; epoch++ {
		sum, err := s.keeper.VoterRewardSums(s.ctx, epoch)
		s.Require().NoError(err)
		if epoch < 8 {
			s.requireIntEqual(seedWeight, sum)
		} else {
			s.Require().True(sum.IsZero(), "epoch %d", epoch)
		}
	}

	record, err := s.keeper.Voter(s.ctx, seedA)
	s.Require().NoError(err)
	s.Require().Equal(s.params.InitialEgl, record.GasTarget)
	s.Require().Equal(uint64(8), record.LockupDuration)
	s.requireIntEqual(appconsts.Tokens(2_500_000), record.TokensLocked)
	s.Require().True(s.state().SeedAccountsFunded)
	s.Require().True(s.hasEvent(types.EventTypeSeedAccountFunded))

	// Locked seed tokens are not transferred: the module already holds them.
	s.requireIntEqual(appconsts.Tokens(modulePoolTokens), s.ledger.BalanceOf(s.ctx, types.ModuleAddress))
}

func (s *KeeperTestSuite) TestFundSeedAccountsOnlyOnce() {
	s.fundSeeds()
	err := s.keeper.FundSeedAccounts(s.ctx, creator, []sdk.AccAddress{voterA})
	s.Require().ErrorIs(err, types.ErrSeedAccountsFunded)
}

func (s *KeeperTestSuite) TestFundSeedAccountsRequiresCreator() {
	err := s.keeper.FundSeedAccounts(s.ctx, voterA, []sdk.AccAddress{seedA})
	s.Require().ErrorIs(err, types.ErrUnauthorized)
	s.Require().False(s.state().SeedAccountsFunded)
}

func (s *KeeperTestSuite) TestFundSeedAccountsRequiresModuleBalance() {
	seeds := make([]sdk.AccAddress, 0, 500)
	for i := 0; i < 500; i++ {
		seeds = append(seeds, sdk.AccAddress(fmt.Sprintf("seed_%03d____________", i)))
	}
	err := s.keeper.FundSeedAccounts(s.ctx, creator, seeds)
	s.Require().ErrorIs(err, types.ErrInsufficientBalance)
	s.requireWindow(0, math.ZeroInt())
}

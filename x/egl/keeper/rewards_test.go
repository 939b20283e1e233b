package keeper_test

import (
	"cosmossdk.io/math"

	"github.com/eglgov/egl-app/pkg/appconsts"
	"github.com/eglgov/egl-app/x/egl/types"
)

func (s *KeeperTestSuite) setEpoch(epoch uint64) {
	state := s.state()
	state.CurrentEpoch = epoch
	state.CurrentEpochStartDate = s.params.Clock().StartOf(epoch)
	s.Require().NoError(s.keeper.SetGlobalState(s.ctx, state))
}

func (s *KeeperTestSuite) TestCreatorRewardsNotBegun() {
	s.setEpoch(8)
	_, err := s.keeper.IssueCreatorRewards(s.ctx)
	s.Require().ErrorIs(err, types.ErrCreatorRewardsNotBegun)
}

func (s *KeeperTestSuite) TestCreatorRewardsPayFortyThreeShares() {
	total := s.params.CreatorRewardTotal
	share := s.params.CreatorRewardShare()
	circulation := s.state().TokensInCirculation

	paid := math.ZeroInt()
	payouts := 0
	var last math.Int
	for epoch := s.params.CreatorRewardStartEpoch; epoch < s.params.RewardEpochs; epoch++ {
		s.setEpoch(epoch)
		amount, err := s.keeper.IssueCreatorRewards(s.ctx)
		s.Require().NoError(err)
		s.requireIntEqual(share, amount)

		_, err = s.keeper.IssueCreatorRewards(s.ctx)
		s.Require().ErrorIs(err, types.ErrCreatorRewardsIssued)

		paid = paid.Add(amount)
		payouts++
		last = amount
	}

	dust := total.Sub(share.MulRaw(43))
	s.Require().Equal(43, payouts)
	s.requireIntEqual(share, last)
	s.requireIntEqual(share.MulRaw(43), paid)
	s.Require().True(dust.LT(share))

	state := s.state()
	s.requireIntEqual(dust, state.CreatorRewardRemaining)
	s.Require().Equal(uint64(43), state.CreatorRewardPayouts)
	s.requireIntEqual(circulation.Add(paid), state.TokensInCirculation)
	s.requireIntEqual(paid, s.ledger.BalanceOf(s.ctx, creator))

	// What the integer share leaves over is paid by the next call.
	s.setEpoch(s.params.RewardEpochs)
	amount, err := s.keeper.IssueCreatorRewards(s.ctx)
	s.Require().NoError(err)
	s.requireIntEqual(dust, amount)
	s.Require().True(s.state().CreatorRewardRemaining.IsZero())
	s.requireIntEqual(total, s.ledger.BalanceOf(s.ctx, creator))

	s.setEpoch(s.params.RewardEpochs + 1)
	amount, err = s.keeper.IssueCreatorRewards(s.ctx)
	s.Require().NoError(err)
	s.Require().True(amount.IsZero())
}

func (s *KeeperTestSuite) TestCreatorRewardPaysRemainderBelowShare() {
	share := s.params.CreatorRewardShare()
	s.setEpoch(s.params.CreatorRewardStartEpoch)
	state := s.state()
	state.CreatorRewardRemaining = share.SubRaw(1)
	s.Require().NoError(s.keeper.SetGlobalState(s.ctx, state))

	amount, err := s.keeper.IssueCreatorRewards(s.ctx)
	s.Require().NoError(err)
	s.requireIntEqual(share.SubRaw(1), amount)
	s.Require().True(s.state().CreatorRewardRemaining.IsZero())
}

func (s *KeeperTestSuite) TestTallyIssuesCreatorRewardFromEpochNine() {
	share := s.params.CreatorRewardShare()
	for epoch := uint64(0); epoch < 11; epoch++ {
		res := s.tallyEpoch()
		if epoch < s.params.CreatorRewardStartEpoch {
			s.Require().True(res.CreatorReward.IsZero(), "epoch %d", epoch)
			continue
		}
		s.requireIntEqual(share, res.CreatorReward)
	}

	s.requireIntEqual(share.MulRaw(2), s.ledger.BalanceOf(s.ctx, creator))
	s.Require().True(s.hasEvent(types.EventTypeCreatorRewardsClaimed))
	s.Require().Equal(uint64(10), s.state().LastCreatorRewardEpoch)
}

func (s *KeeperTestSuite) TestTallySkipsCreatorRewardIssuedDirectly() {
	s.setEpoch(9)
	_, err := s.keeper.IssueCreatorRewards(s.ctx)
	s.Require().NoError(err)

	res := s.tallyEpoch()
	s.Require().True(res.CreatorReward.IsZero())
	s.Require().Equal(uint64(1), s.state().CreatorRewardPayouts)
}

func (s *KeeperTestSuite) TestCalculateBlockReward() {
	desired := s.state().DesiredEgl

	reward, err := s.keeper.CalculateBlockReward(s.ctx, desired)
	s.Require().NoError(err)
	s.Require().True(math.LegacyNewDec(100).Equal(reward.Percentage))
	s.requireIntEqual(s.params.BlockRewardBase, reward.Amount)

	reward, err = s.keeper.CalculateBlockReward(s.ctx, desired-600_000)
	s.Require().NoError(err)
	s.Require().True(math.LegacyMustNewDecFromStr("32.5").Equal(reward.Percentage))
	want, err := appconsts.TokensFromDec("0.65")
	s.Require().NoError(err)
	s.requireIntEqual(want, reward.Amount)

	reward, err = s.keeper.CalculateBlockReward(s.ctx, desired+1_000_001)
	s.Require().NoError(err)
	s.Require().True(reward.Amount.IsZero())

	value, ok := s.eventAttribute(types.EventTypeBlockRewardCalculated, types.AttributeKeyDelta)
	s.Require().True(ok)
	s.Require().Equal("1000001", value)
}

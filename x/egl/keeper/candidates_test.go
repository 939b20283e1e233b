package keeper_test

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/eglgov/egl-app/pkg/appconsts"
	"github.com/eglgov/egl-app/x/egl/types"
)

func (s *KeeperTestSuite) TestEvaluateUpgradeVote() {
	candidates := []sdk.AccAddress{
		sdk.AccAddress("upgrade_0___________"),
		sdk.AccAddress("upgrade_1___________"),
		sdk.AccAddress("upgrade_2___________"),
	}
	for i, votes := range []int64{6, 4, 10} {
		res, err := s.keeper.AddUpgradeCandidateVote(s.ctx, candidates[i], math.NewInt(votes))
		s.Require().NoError(err)
		s.Require().Equal(types.CandidateAdded, res.Outcome)
	}

	eval, err := s.keeper.EvaluateUpgradeVote(s.ctx)
	s.Require().NoError(err)
	s.Require().True(eval.Passed)
	s.Require().Equal(candidates[2], eval.Leader.Address)
	s.Require().True(math.LegacyNewDec(50).Equal(eval.TotalVotePercentage))

	approved, found, err := s.keeper.ApprovedUpgrade(s.ctx)
	s.Require().NoError(err)
	s.Require().True(found)
	s.Require().Equal(candidates[2], approved.Address)

	registry, err := s.keeper.UpgradeCandidates(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(0, registry.Len())
	s.Require().True(s.hasEvent(types.EventTypeUpgradeApproved))
}

func (s *KeeperTestSuite) TestEvaluateUpgradeVoteBelowThreshold() {
	for i, votes := range []int64{6, 5, 10} {
		_, err := s.keeper.AddUpgradeCandidateVote(s.ctx, sdk.AccAddress(fmt.Sprintf("upgrade_%d___________", i)), math.NewInt(votes))
		s.Require().NoError(err)
	}

	eval, err := s.keeper.EvaluateUpgradeVote(s.ctx)
	s.Require().NoError(err)
	s.Require().False(eval.Passed)

	_, found, err := s.keeper.ApprovedUpgrade(s.ctx)
	s.Require().NoError(err)
	s.Require().False(found)
}

func (s *KeeperTestSuite) TestCandidateEvictionEmitsLoser() {
	for i := 0; i < types.MaxCandidates; i++ {
		_, err := s.keeper.AddDaoCandidateVote(s.ctx, sdk.AccAddress(fmt.Sprintf("dao_%02d______________", i)), math.NewInt(int64(i+1)), math.NewInt(1))
		s.Require().NoError(err)
	}

	res, err := s.keeper.AddDaoCandidateVote(s.ctx, sdk.AccAddress("dao_loser___________"), math.NewInt(1), math.NewInt(1))
	s.Require().NoError(err)
	s.Require().Equal(types.CandidateLost, res.Outcome)

	res, err = s.keeper.AddDaoCandidateVote(s.ctx, sdk.AccAddress("dao_winner__________"), math.NewInt(2), math.NewInt(1))
	s.Require().NoError(err)
	s.Require().Equal(types.CandidateReplaced, res.Outcome)

	evicted, ok := s.eventAttribute(types.EventTypeCandidateVoteAdded, types.AttributeKeyEvictedCandidate)
	s.Require().True(ok)
	s.Require().Equal(sdk.AccAddress("dao_00______________").String(), evicted)

	registry, err := s.keeper.DaoCandidates(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(types.MaxCandidates, registry.Len())

	removed, err := s.keeper.RemoveDaoCandidateVote(s.ctx, sdk.AccAddress("dao_loser___________"), math.NewInt(1), math.NewInt(1))
	s.Require().NoError(err)
	s.Require().False(removed)
}

func (s *KeeperTestSuite) TestDaoDisbursementAfterTwoConsecutiveEpochs() {
	daoAmount := appconsts.Tokens(1_000)
	_, err := s.voteWithCandidates(voterA, appconsts.Tokens(10), 2, daoAmount)
	s.Require().NoError(err)

	res := s.tallyEpoch()
	s.Require().True(res.Dao.Passed)
	pending, found, err := s.keeper.PendingDaoCandidate(s.ctx)
	s.Require().NoError(err)
	s.Require().True(found)
	s.Require().Equal(treasury, pending.Recipient)
	s.Require().Equal(uint64(1), pending.Confirmations)
	s.Require().True(s.ledger.BalanceOf(s.ctx, treasury).IsZero())

	registry, err := s.keeper.DaoCandidates(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(0, registry.Len())

	// The registry was cleared, so the voter re-casts its candidate vote.
	_, err = s.keeper.ReVote(s.ctx, types.MsgReVote{MsgVote: types.MsgVote{
		Voter:          voterA,
		GasTarget:      s.params.InitialEgl,
		Amount:         math.ZeroInt(),
		LockupDuration: 2,
		DaoRecipient:   treasury,
		DaoAmount:      daoAmount,
	}})
	s.Require().NoError(err)

	circulation := s.state().TokensInCirculation
	res = s.tallyEpoch()
	s.Require().True(res.Dao.Passed)

	_, found, err = s.keeper.PendingDaoCandidate(s.ctx)
	s.Require().NoError(err)
	s.Require().False(found)
	s.requireIntEqual(daoAmount, s.ledger.BalanceOf(s.ctx, treasury))
	s.requireIntEqual(circulation.Add(daoAmount), s.state().TokensInCirculation)
	s.Require().True(s.hasEvent(types.EventTypeDaoDisbursement))
}

func (s *KeeperTestSuite) TestDaoPendingResetByDifferentWinner() {
	other := sdk.AccAddress("other_treasury______")

	_, err := s.keeper.AddDaoCandidateVote(s.ctx, treasury, math.NewInt(10), appconsts.Tokens(5))
	s.Require().NoError(err)
	_, err = s.keeper.EvaluateDaoVote(s.ctx)
	s.Require().NoError(err)

	s.setEpoch(1)
	_, err = s.keeper.AddDaoCandidateVote(s.ctx, other, math.NewInt(10), appconsts.Tokens(5))
	s.Require().NoError(err)
	_, err = s.keeper.EvaluateDaoVote(s.ctx)
	s.Require().NoError(err)

	pending, found, err := s.keeper.PendingDaoCandidate(s.ctx)
	s.Require().NoError(err)
	s.Require().True(found)
	s.Require().Equal(other, pending.Recipient)
	s.Require().Equal(uint64(1), pending.Confirmations)
	s.Require().True(s.ledger.BalanceOf(s.ctx, other).IsZero())

	// An empty registry fails evaluation and clears the pending candidate.
	s.setEpoch(2)
	eval, err := s.keeper.EvaluateDaoVote(s.ctx)
	s.Require().NoError(err)
	s.Require().False(eval.Passed)
	_, found, err = s.keeper.PendingDaoCandidate(s.ctx)
	s.Require().NoError(err)
	s.Require().False(found)
}

func (s *KeeperTestSuite) TestDaoPendingRequiresConsecutiveEpochs() {
	_, err := s.keeper.AddDaoCandidateVote(s.ctx, treasury, math.NewInt(10), appconsts.Tokens(5))
	s.Require().NoError(err)
	_, err = s.keeper.EvaluateDaoVote(s.ctx)
	s.Require().NoError(err)

	s.setEpoch(2)
	_, err = s.keeper.AddDaoCandidateVote(s.ctx, treasury, math.NewInt(10), appconsts.Tokens(5))
	s.Require().NoError(err)
	_, err = s.keeper.EvaluateDaoVote(s.ctx)
	s.Require().NoError(err)

	pending, found, err := s.keeper.PendingDaoCandidate(s.ctx)
	s.Require().NoError(err)
	s.Require().True(found)
	s.Require().Equal(uint64(1), pending.Confirmations)
	s.Require().Equal(uint64(2), pending.Epoch)
}

func (s *KeeperTestSuite) TestSharedCandidateSurvivesOtherVoterAfterTally() {
	recordA, err := s.voteWithCandidates(voterA, appconsts.Tokens(10), 2, appconsts.Tokens(1_000))
	s.Require().NoError(err)
	s.Require().NotNil(recordA.DaoEntry)
	s.Require().NotNil(recordA.UpgradeEntry)

	// The tally clears both registries, so A's candidate votes are gone.
	s.tallyEpoch()

	recordB, err := s.voteWithCandidates(voterB, appconsts.Tokens(10), 1, appconsts.Tokens(500))
	s.Require().NoError(err)
	weightB := recordB.VoteWeight()

	_, err = s.keeper.ReVote(s.ctx, types.MsgReVote{MsgVote: types.MsgVote{
		Voter:          voterA,
		GasTarget:      s.params.InitialEgl,
		Amount:         math.ZeroInt(),
		LockupDuration: 2,
		DaoRecipient:   treasury,
		DaoAmount:      appconsts.Tokens(1_000),
		UpgradeAddress: upgradeA,
	}})
	s.Require().NoError(err)

	upgrades, err := s.keeper.UpgradeCandidates(s.ctx)
	s.Require().NoError(err)
	entry, ok := upgrades.Get(upgradeA)
	s.Require().True(ok)
	s.requireIntEqual(weightB.Add(recordA.VoteWeight()), entry.VoteCount)

	dao, err := s.keeper.DaoCandidates(s.ctx)
	s.Require().NoError(err)
	entry, ok = dao.Get(treasury)
	s.Require().True(ok)
	s.requireIntEqual(weightB.Add(recordA.VoteWeight()), entry.VoteCount)
	s.requireIntEqual(appconsts.Tokens(1_500), entry.Amount)

	s.setBlockTime(recordA.ReleaseDate)
	_, err = s.keeper.Withdraw(s.ctx, types.MsgWithdraw{Voter: voterA})
	s.Require().NoError(err)

	upgrades, err = s.keeper.UpgradeCandidates(s.ctx)
	s.Require().NoError(err)
	entry, ok = upgrades.Get(upgradeA)
	s.Require().True(ok)
	s.requireIntEqual(weightB, entry.VoteCount)

	dao, err = s.keeper.DaoCandidates(s.ctx)
	s.Require().NoError(err)
	entry, ok = dao.Get(treasury)
	s.Require().True(ok)
	s.requireIntEqual(weightB, entry.VoteCount)
	s.requireIntEqual(appconsts.Tokens(500), entry.Amount)
}

func (s *KeeperTestSuite) TestReVoteWithoutCandidateKeepsOtherVoterAfterTally() {
	recordA, err := s.voteWithCandidates(voterA, appconsts.Tokens(10), 2, appconsts.Tokens(1_000))
	s.Require().NoError(err)
	s.tallyEpoch()

	recordB, err := s.voteWithCandidates(voterB, appconsts.Tokens(10), 1, appconsts.Tokens(500))
	s.Require().NoError(err)

	// A drops its candidate votes. They were cleared by the tally, so
	// nothing is taken from B.
	_, err = s.keeper.ReVote(s.ctx, types.MsgReVote{MsgVote: types.MsgVote{
		Voter:          voterA,
		GasTarget:      s.params.InitialEgl,
		Amount:         math.ZeroInt(),
		LockupDuration: 2,
	}})
	s.Require().NoError(err)
	s.Require().False(s.hasEvent(types.EventTypeCandidateVoteRemoved))

	s.setBlockTime(recordA.ReleaseDate)
	_, err = s.keeper.Withdraw(s.ctx, types.MsgWithdraw{Voter: voterA})
	s.Require().NoError(err)

	upgrades, err := s.keeper.UpgradeCandidates(s.ctx)
	s.Require().NoError(err)
	entry, ok := upgrades.Get(upgradeA)
	s.Require().True(ok)
	s.requireIntEqual(recordB.VoteWeight(), entry.VoteCount)

	dao, err := s.keeper.DaoCandidates(s.ctx)
	s.Require().NoError(err)
	entry, ok = dao.Get(treasury)
	s.Require().True(ok)
	s.requireIntEqual(recordB.VoteWeight(), entry.VoteCount)
	s.requireIntEqual(appconsts.Tokens(500), entry.Amount)
}

func (s *KeeperTestSuite) TestReVoteInSameEpochRemovesOwnCandidateVote() {
	_, err := s.voteWithCandidates(voterA, appconsts.Tokens(10), 2, appconsts.Tokens(1_000))
	s.Require().NoError(err)
	recordB, err := s.voteWithCandidates(voterB, appconsts.Tokens(10), 1, appconsts.Tokens(500))
	s.Require().NoError(err)

	_, err = s.keeper.ReVote(s.ctx, types.MsgReVote{MsgVote: types.MsgVote{
		Voter:          voterA,
		GasTarget:      s.params.InitialEgl,
		Amount:         math.ZeroInt(),
		LockupDuration: 2,
	}})
	s.Require().NoError(err)
	s.Require().True(s.hasEvent(types.EventTypeCandidateVoteRemoved))

	upgrades, err := s.keeper.UpgradeCandidates(s.ctx)
	s.Require().NoError(err)
	entry, ok := upgrades.Get(upgradeA)
	s.Require().True(ok)
	s.requireIntEqual(recordB.VoteWeight(), entry.VoteCount)

	dao, err := s.keeper.DaoCandidates(s.ctx)
	s.Require().NoError(err)
	entry, ok = dao.Get(treasury)
	s.Require().True(ok)
	s.requireIntEqual(appconsts.Tokens(500), entry.Amount)

	voter, err := s.keeper.Voter(s.ctx, voterA)
	s.Require().NoError(err)
	s.Require().Nil(voter.DaoEntry)
	s.Require().Nil(voter.UpgradeEntry)
}

func (s *KeeperTestSuite) TestLostCandidateVoteIsNotRemovedLater() {
	for i := 0; i < types.MaxCandidates; i++ {
		_, err := s.keeper.AddUpgradeCandidateVote(s.ctx, sdk.AccAddress(fmt.Sprintf("upgrade_%02d__________", i)), appconsts.Tokens(1_000_000))
		s.Require().NoError(err)
	}
	record, err := s.voteWithCandidates(voterA, appconsts.Tokens(10), 1, math.ZeroInt())
	s.Require().NoError(err)
	s.Require().Nil(record.UpgradeEntry)

	s.setBlockTime(record.ReleaseDate)
	_, err = s.keeper.Withdraw(s.ctx, types.MsgWithdraw{Voter: voterA})
	s.Require().NoError(err)

	upgrades, err := s.keeper.UpgradeCandidates(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(types.MaxCandidates, upgrades.Len())
	s.requireIntEqual(appconsts.Tokens(1_000_000).MulRaw(types.MaxCandidates), upgrades.TotalVotes())
}

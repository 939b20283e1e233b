package keeper_test

import (
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/eglgov/egl-app/pkg/appconsts"
	"github.com/eglgov/egl-app/x/egl/types"
)

func (s *KeeperTestSuite) TestVoteAddsToWindow() {
	s.fundSeeds()
	seedWeight := appconsts.Tokens(40_000_000)

	record := s.vote(voterA, s.params.InitialEgl, appconsts.Tokens(10), 2)

	s.requireWindow(0, seedWeight.Add(appconsts.Tokens(20)))
	s.requireWindow(1, seedWeight.Add(appconsts.Tokens(20)))
	for epoch := uint64(2); epoch < 8; epoch++ {
		s.requireWindow(epoch, seedWeight)
	}
	s.requireWindow(8, math.ZeroInt())

	s.Require().Equal(uint64(0), record.VoteEpoch)
	s.Require().True(genesisTime.Add(2 * s.params.EpochLength).Equal(record.ReleaseDate))
	s.requireIntEqual(appconsts.Tokens(10), record.TokensLocked)

	stored, err := s.keeper.Voter(s.ctx, voterA)
	s.Require().NoError(err)
	s.Require().Equal(record.GasTarget, stored.GasTarget)

	gasTargetSum, err := s.keeper.GasTargetSum(s.ctx, 1)
	s.Require().NoError(err)
	want := seedWeight.Add(appconsts.Tokens(20)).Mul(math.NewIntFromUint64(s.params.InitialEgl))
	s.requireIntEqual(want, gasTargetSum)

	s.Require().True(s.ledger.BalanceOf(s.ctx, voterA).IsZero())
	s.requireIntEqual(appconsts.Tokens(modulePoolTokens+10), s.ledger.BalanceOf(s.ctx, types.ModuleAddress))
	s.Require().True(s.hasEvent(types.EventTypeVote))
}

func (s *KeeperTestSuite) TestVoteValidation() {
	baseline := s.params.InitialEgl
	halfToken, err := appconsts.TokensFromDec("0.5")
	s.Require().NoError(err)

	testCases := []struct {
		name    string
		setup   func()
		msg     types.MsgVote
		wantErr error
	}{
		{
			name:    "insufficient balance",
			msg:     types.MsgVote{Voter: voterA, GasTarget: baseline, Amount: appconsts.Tokens(10), LockupDuration: 1},
			wantErr: types.ErrInsufficientBalance,
		},
		{
			name: "insufficient allowance",
			setup: func() {
				s.Require().NoError(s.ledger.Mint(s.ctx, voterA, appconsts.Tokens(10)))
			},
			msg:     types.MsgVote{Voter: voterA, GasTarget: baseline, Amount: appconsts.Tokens(10), LockupDuration: 1},
			wantErr: types.ErrInsufficientAllowance,
		},
		{
			name:    "amount too low",
			setup:   func() { s.fund(voterA, halfToken) },
			msg:     types.MsgVote{Voter: voterA, GasTarget: baseline, Amount: halfToken, LockupDuration: 1},
			wantErr: types.ErrAmountTooLow,
		},
		{
			name: "already voted",
			setup: func() {
				s.vote(voterA, baseline, appconsts.Tokens(1), 1)
				s.fund(voterA, appconsts.Tokens(1))
			},
			msg:     types.MsgVote{Voter: voterA, GasTarget: baseline, Amount: appconsts.Tokens(1), LockupDuration: 1},
			wantErr: types.ErrAlreadyVoted,
		},
		{
			name:    "gas target too high",
			setup:   func() { s.fund(voterA, appconsts.Tokens(1)) },
			msg:     types.MsgVote{Voter: voterA, GasTarget: baseline + 4_000_001, Amount: appconsts.Tokens(1), LockupDuration: 1},
			wantErr: types.ErrInvalidGasTarget,
		},
		{
			name:    "gas target too low",
			setup:   func() { s.fund(voterA, appconsts.Tokens(1)) },
			msg:     types.MsgVote{Voter: voterA, GasTarget: baseline - 4_000_001, Amount: appconsts.Tokens(1), LockupDuration: 1},
			wantErr: types.ErrInvalidGasTarget,
		},
		{
			name:    "zero lockup",
			setup:   func() { s.fund(voterA, appconsts.Tokens(1)) },
			msg:     types.MsgVote{Voter: voterA, GasTarget: baseline, Amount: appconsts.Tokens(1), LockupDuration: 0},
			wantErr: types.ErrInvalidLockup,
		},
		{
			name:    "lockup above maximum",
			setup:   func() { s.fund(voterA, appconsts.Tokens(1)) },
			msg:     types.MsgVote{Voter: voterA, GasTarget: baseline, Amount: appconsts.Tokens(1), LockupDuration: 9},
			wantErr: types.ErrInvalidLockup,
		},
		{
			name:    "empty voter",
			msg:     types.MsgVote{GasTarget: baseline, Amount: appconsts.Tokens(1), LockupDuration: 1},
			wantErr: types.ErrInvalidAddress,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			if tc.setup != nil {
				tc.setup()
			}
			events := len(s.ctx.EventManager().Events())

			_, err := s.keeper.Vote(s.ctx, tc.msg)
			s.Require().ErrorIs(err, tc.wantErr)
			s.Require().Len(s.ctx.EventManager().Events(), events)
		})
	}
}

func (s *KeeperTestSuite) TestVoteAtGasTargetBounds() {
	baseline := s.params.InitialEgl
	s.vote(voterA, baseline+4_000_000, appconsts.Tokens(1), 1)
	s.vote(voterB, baseline-4_000_000, appconsts.Tokens(1), 8)
	s.requireWindow(7, appconsts.Tokens(8))
}

func (s *KeeperTestSuite) TestReVoteAddsTokensAndKeepsReleaseDate() {
	baseline := s.params.InitialEgl
	first := s.vote(voterA, baseline, appconsts.Tokens(10), 2)

	s.setBlockTime(genesisTime.Add(time.Hour))
	s.fund(voterA, appconsts.Tokens(5))
	record, err := s.keeper.ReVote(s.ctx, types.MsgReVote{MsgVote: types.MsgVote{
		Voter:          voterA,
		GasTarget:      baseline + 1_000,
		Amount:         appconsts.Tokens(5),
		LockupDuration: 2,
	}})
	s.Require().NoError(err)

	s.requireIntEqual(appconsts.Tokens(15), record.TokensLocked)
	s.Require().True(first.ReleaseDate.Equal(record.ReleaseDate))
	s.Require().Equal(baseline+1_000, record.GasTarget)
	s.requireWindow(0, appconsts.Tokens(30))
	s.requireWindow(1, appconsts.Tokens(30))
	s.requireWindow(2, math.ZeroInt())

	votes, err := s.keeper.VotesTotal(s.ctx, 0)
	s.Require().NoError(err)
	s.requireIntEqual(appconsts.Tokens(15), votes)

	gasTargetSum, err := s.keeper.GasTargetSum(s.ctx, 0)
	s.Require().NoError(err)
	s.requireIntEqual(appconsts.Tokens(30).Mul(math.NewIntFromUint64(baseline+1_000)), gasTargetSum)
	s.Require().True(s.hasEvent(types.EventTypeReVote))
}

func (s *KeeperTestSuite) TestReVoteChangingLockupMovesReleaseDate() {
	baseline := s.params.InitialEgl
	s.vote(voterA, baseline, appconsts.Tokens(10), 2)

	now := genesisTime.Add(time.Hour)
	s.setBlockTime(now)
	record, err := s.keeper.ReVote(s.ctx, types.MsgReVote{MsgVote: types.MsgVote{
		Voter:          voterA,
		GasTarget:      baseline,
		Amount:         math.ZeroInt(),
		LockupDuration: 3,
	}})
	s.Require().NoError(err)

	s.Require().True(now.Add(3 * s.params.EpochLength).Equal(record.ReleaseDate))
	s.requireIntEqual(appconsts.Tokens(10), record.TokensLocked)
	for epoch := uint64(0); epoch < 3; epoch++ {
		s.requireWindow(epoch, appconsts.Tokens(30))
	}
	s.requireWindow(3, math.ZeroInt())
}

func (s *KeeperTestSuite) TestReVoteAccruesConsumedReward() {
	baseline := s.params.InitialEgl
	s.vote(voterA, baseline, appconsts.Tokens(10), 2)
	s.tallyEpoch()

	record, err := s.keeper.ReVote(s.ctx, types.MsgReVote{MsgVote: types.MsgVote{
		Voter:          voterA,
		GasTarget:      baseline,
		Amount:         math.ZeroInt(),
		LockupDuration: 2,
	}})
	s.Require().NoError(err)

	s.requireIntEqual(s.params.VoterRewardForEpoch(0), record.AccruedReward)
	s.Require().Equal(uint64(1), record.VoteEpoch)
	s.requireWindow(1, appconsts.Tokens(20))
	s.requireWindow(2, appconsts.Tokens(20))
	s.requireWindow(3, math.ZeroInt())

	sum, err := s.keeper.VoterRewardSums(s.ctx, 0)
	s.Require().NoError(err)
	s.requireIntEqual(appconsts.Tokens(20), sum)
}

func (s *KeeperTestSuite) TestReVoteRequiresVote() {
	_, err := s.keeper.ReVote(s.ctx, types.MsgReVote{MsgVote: types.MsgVote{
		Voter:          voterA,
		GasTarget:      s.params.InitialEgl,
		Amount:         math.ZeroInt(),
		LockupDuration: 1,
	}})
	s.Require().ErrorIs(err, types.ErrNotVoted)
}

func (s *KeeperTestSuite) TestReVoteChecksAddedFunds() {
	s.vote(voterA, s.params.InitialEgl, appconsts.Tokens(10), 2)
	_, err := s.keeper.ReVote(s.ctx, types.MsgReVote{MsgVote: types.MsgVote{
		Voter:          voterA,
		GasTarget:      s.params.InitialEgl,
		Amount:         appconsts.Tokens(1),
		LockupDuration: 2,
	}})
	s.Require().ErrorIs(err, types.ErrInsufficientBalance)

	record, err := s.keeper.Voter(s.ctx, voterA)
	s.Require().NoError(err)
	s.requireIntEqual(appconsts.Tokens(10), record.TokensLocked)
}

func (s *KeeperTestSuite) TestWithdrawBeforeRelease() {
	s.vote(voterA, s.params.InitialEgl, appconsts.Tokens(10), 1)

	_, err := s.keeper.Withdraw(s.ctx, types.MsgWithdraw{Voter: voterA})
	s.Require().ErrorIs(err, types.ErrLockupNotExpired)

	_, err = s.keeper.Withdraw(s.ctx, types.MsgWithdraw{Voter: voterB})
	s.Require().ErrorIs(err, types.ErrNotVoted)
}

func (s *KeeperTestSuite) TestWithdrawPaysVoterReward() {
	s.vote(voterA, s.params.InitialEgl, appconsts.Tokens(10), 1)
	s.vote(voterB, s.params.InitialEgl, appconsts.Tokens(30), 1)
	s.tallyEpoch()

	rewardA := s.params.VoterRewardForEpoch(0).Mul(appconsts.Tokens(10)).Quo(appconsts.Tokens(40))
	estimate, err := s.keeper.EstimateVoterReward(s.ctx, voterA)
	s.Require().NoError(err)
	s.requireIntEqual(rewardA, estimate)

	circulation := s.state().TokensInCirculation
	payout, err := s.keeper.Withdraw(s.ctx, types.MsgWithdraw{Voter: voterA})
	s.Require().NoError(err)

	s.requireIntEqual(appconsts.Tokens(10).Add(rewardA), payout)
	s.requireIntEqual(payout, s.ledger.BalanceOf(s.ctx, voterA))
	s.requireIntEqual(circulation.Add(rewardA), s.state().TokensInCirculation)

	_, err = s.keeper.Voter(s.ctx, voterA)
	s.Require().ErrorIs(err, types.ErrNotVoted)
	s.Require().True(s.hasEvent(types.EventTypeWithdraw))

	// The tallied epoch keeps the reward weight of the withdrawn vote so the
	// remaining voter is paid its own share.
	sum, err := s.keeper.VoterRewardSums(s.ctx, 0)
	s.Require().NoError(err)
	s.requireIntEqual(appconsts.Tokens(40), sum)
}

func (s *KeeperTestSuite) TestWithdrawRemovesUntalliedWindow() {
	s.vote(voterA, s.params.InitialEgl, appconsts.Tokens(10), 1)
	s.setBlockTime(genesisTime.Add(s.params.EpochLength))

	payout, err := s.keeper.Withdraw(s.ctx, types.MsgWithdraw{Voter: voterA})
	s.Require().NoError(err)
	s.requireIntEqual(appconsts.Tokens(10), payout)
	s.requireWindow(0, math.ZeroInt())

	sum, err := s.keeper.VoterRewardSums(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().True(sum.IsZero())
}

func (s *KeeperTestSuite) TestVoteWithCandidates() {
	record, err := s.voteWithCandidates(voterA, appconsts.Tokens(10), 2, appconsts.Tokens(1_000))
	s.Require().NoError(err)

	dao, err := s.keeper.DaoCandidates(s.ctx)
	s.Require().NoError(err)
	entry, ok := dao.Get(treasury)
	s.Require().True(ok)
	s.requireIntEqual(record.VoteWeight(), entry.VoteCount)
	s.requireIntEqual(appconsts.Tokens(1_000), entry.Amount)

	upgrades, err := s.keeper.UpgradeCandidates(s.ctx)
	s.Require().NoError(err)
	entry, ok = upgrades.Get(upgradeA)
	s.Require().True(ok)
	s.requireIntEqual(record.VoteWeight(), entry.VoteCount)

	s.setBlockTime(record.ReleaseDate)
	_, err = s.keeper.Withdraw(s.ctx, types.MsgWithdraw{Voter: voterA})
	s.Require().NoError(err)

	dao, err = s.keeper.DaoCandidates(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(0, dao.Len())
	s.Require().True(s.hasEvent(types.EventTypeCandidateVoteRemoved))
}

func (s *KeeperTestSuite) voteWithCandidates(voter sdk.AccAddress, amount math.Int, lockup uint64, daoAmount math.Int) (types.VoterRecord, error) {
	s.fund(voter, amount)
	return s.keeper.Vote(s.ctx, types.MsgVote{
		Voter:          voter,
		GasTarget:      s.params.InitialEgl,
		Amount:         amount,
		LockupDuration: lockup,
		DaoRecipient:   treasury,
		DaoAmount:      daoAmount,
		UpgradeAddress: upgradeA,
	})
}

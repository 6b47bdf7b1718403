package gov

import (
	"testing"

	"github.com/meridian-protocol/meridian/lib"
	"github.com/stretchr/testify/require"
)

func TestCastVote(t *testing.T) {
	tests := []struct {
		name   string
		detail string
		stake  uint64
		option VoteOption
		share  uint64
		error  lib.ErrorCode
	}{
		{
			name:   "unknown option",
			detail: "only yes and no are accepted",
			stake:  100,
			option: VoteUnknown,
			share:  10,
			error:  lib.CodeUnknownVoteOption,
		},
		{
			name:   "zero share",
			detail: "a weightless vote is rejected",
			stake:  100,
			option: VoteYes,
			error:  lib.CodeInsufficientStake,
		},
		{
			name:   "share exceeds stake",
			detail: "the voting weight may not exceed the unlocked share",
			stake:  100,
			option: VoteYes,
			share:  101,
			error:  lib.CodeInsufficientStake,
		},
		{
			name:   "no stake at all",
			detail: "an account that never staked has zero unlocked share",
			option: VoteNo,
			share:  1,
			error:  lib.CodeInsufficientStake,
		},
		{
			name:   "yes vote",
			detail: "a valid yes vote is recorded with its weight",
			stake:  100,
			option: VoteYes,
			share:  60,
		},
		{
			name:   "no vote",
			detail: "a valid no vote is recorded with its weight",
			stake:  100,
			option: VoteNo,
			share:  100,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sm, _ := newTestStateMachine(t)
			voter := newTestAddress(t)
			if test.stake != 0 {
				require.NoError(t, sm.StakeShare(voter, test.stake))
			}
			pollId, err := sm.CreatePoll(newTestAddress(t, 1), testProposalDeposit, "migrate the oracle feed", nil)
			require.NoError(t, err)
			err = sm.CastVote(voter, pollId, test.option, test.share)
			if test.error != 0 {
				require.Error(t, err)
				require.Equal(t, test.error, err.Code())
				return
			}
			require.NoError(t, err)
			poll, err := sm.GetPoll(pollId)
			require.NoError(t, err)
			receipt, ok := poll.Voters[voter.String()]
			require.True(t, ok)
			require.Equal(t, test.option, receipt.Option)
			require.Equal(t, test.share, receipt.Share)
			if test.option == VoteYes {
				require.Equal(t, test.share, poll.YesVotes)
				require.Zero(t, poll.NoVotes)
			} else {
				require.Equal(t, test.share, poll.NoVotes)
				require.Zero(t, poll.YesVotes)
			}
			// the weight is locked against the poll
			acc, err := sm.GetStakerAccount(voter)
			require.NoError(t, err)
			require.Equal(t, test.share, acc.LockedShares[pollId])
			require.Contains(t, acc.ParticipatedPolls, pollId)
		})
	}
}

func TestCastVoteGuards(t *testing.T) {
	sm, _ := newTestStateMachine(t)
	voter := newTestAddress(t)
	require.NoError(t, sm.StakeShare(voter, 100))
	// missing poll
	err := sm.CastVote(voter, 42, VoteYes, 10)
	require.Error(t, err)
	require.Equal(t, lib.CodePollNotFound, err.Code())
	pollId, e := sm.CreatePoll(newTestAddress(t, 1), testProposalDeposit, "migrate the oracle feed", nil)
	require.NoError(t, e)
	// duplicate vote, even with a different option
	require.NoError(t, sm.CastVote(voter, pollId, VoteYes, 10))
	err = sm.CastVote(voter, pollId, VoteNo, 10)
	require.Error(t, err)
	require.Equal(t, lib.CodeAlreadyVoted, err.Code())
	// expired window rejects votes before anyone calls end
	sm.SetHeight(sm.Height() + testVotingPeriod)
	err = sm.CastVote(newTestAddress(t, 2), pollId, VoteYes, 1)
	require.Error(t, err)
	require.Equal(t, lib.CodePollClosed, err.Code())
	// closed poll rejects votes
	require.NoError(t, sm.EndPoll(pollId))
	err = sm.CastVote(newTestAddress(t, 2), pollId, VoteYes, 1)
	require.Error(t, err)
	require.Equal(t, lib.CodePollClosed, err.Code())
}

// TestCastVoteAcrossPolls exercises the logical concurrency of multiple open polls
// competing for the same staker's share pool
func TestCastVoteAcrossPolls(t *testing.T) {
	sm, _ := newTestStateMachine(t)
	voter := newTestAddress(t)
	creator := newTestAddress(t, 1)
	require.NoError(t, sm.StakeShare(voter, 100))
	first, err := sm.CreatePoll(creator, testProposalDeposit, "migrate the oracle feed", nil)
	require.NoError(t, err)
	second, err := sm.CreatePoll(creator, testProposalDeposit, "adjust the protocol fee", nil)
	require.NoError(t, err)
	require.NoError(t, sm.CastVote(voter, first, VoteYes, 70))
	// 70 of the 100 is already locked behind the first poll
	e := sm.CastVote(voter, second, VoteYes, 40)
	require.Error(t, e)
	require.Equal(t, lib.CodeInsufficientStake, e.Code())
	require.NoError(t, sm.CastVote(voter, second, VoteYes, 30))
	// closing the first poll frees its lock for future votes
	sm.SetHeight(sm.Height() + testVotingPeriod)
	require.NoError(t, sm.EndPoll(first))
	acc, err2 := sm.GetStakerAccount(voter)
	require.NoError(t, err2)
	require.NotContains(t, acc.LockedShares, first)
	require.EqualValues(t, 30, acc.LockedShares[second])
}

package gov

import (
	"testing"

	"github.com/meridian-protocol/meridian/lib"
	"github.com/stretchr/testify/require"
)

func TestEndPollOutcome(t *testing.T) {
	tests := []struct {
		name   string
		detail string
		yes    uint64
		no     uint64
		status PollStatus
	}{
		{
			name:   "no participation",
			detail: "zero votes can never meet quorum",
			status: PollStatusRejected,
		},
		{
			name:   "below quorum",
			detail: "250 of 1000 participating misses the 30% quorum even with unanimous yes",
			yes:    200,
			no:     50,
			status: PollStatusRejected,
		},
		{
			name:   "quorum met threshold missed",
			detail: "400 of 1000 participating meets quorum but 100 yes of 400 misses the 50% threshold",
			yes:    100,
			no:     300,
			status: PollStatusRejected,
		},
		{
			name:   "quorum and threshold met",
			detail: "450 of 1000 participating meets quorum and 400 yes of 450 meets the threshold",
			yes:    400,
			no:     50,
			status: PollStatusPassed,
		},
		{
			name:   "threshold boundary",
			detail: "exactly half yes meets a 50% threshold",
			yes:    200,
			no:     200,
			status: PollStatusPassed,
		},
		{
			name:   "quorum boundary",
			detail: "exactly 30% participation meets a 30% quorum",
			yes:    300,
			status: PollStatusPassed,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sm, _ := newTestStateMachine(t)
			creator := newTestAddress(t)
			// seed 1000 total share split across two voters
			yesVoter, noVoter := newTestAddress(t, 1), newTestAddress(t, 2)
			require.NoError(t, sm.StakeShare(yesVoter, 500))
			require.NoError(t, sm.StakeShare(noVoter, 500))
			pollId, err := sm.CreatePoll(creator, testProposalDeposit, "raise the minimum collateral ratio", nil)
			require.NoError(t, err)
			if test.yes != 0 {
				require.NoError(t, sm.CastVote(yesVoter, pollId, VoteYes, test.yes))
			}
			if test.no != 0 {
				require.NoError(t, sm.CastVote(noVoter, pollId, VoteNo, test.no))
			}
			sm.SetHeight(sm.Height() + testVotingPeriod)
			require.NoError(t, sm.EndPoll(pollId))
			poll, err := sm.GetPoll(pollId)
			require.NoError(t, err)
			require.Equal(t, test.status, poll.Status)
			require.EqualValues(t, 1000, poll.TotalShareAtEnd)
		})
	}
}

func TestEndPollGuards(t *testing.T) {
	sm, _ := newTestStateMachine(t)
	// missing poll
	err := sm.EndPoll(42)
	require.Error(t, err)
	require.Equal(t, lib.CodePollNotFound, err.Code())
	pollId, e := sm.CreatePoll(newTestAddress(t), testProposalDeposit, "raise the minimum collateral ratio", nil)
	require.NoError(t, e)
	// the window has not expired yet
	sm.SetHeight(sm.Height() + testVotingPeriod - 1)
	err = sm.EndPoll(pollId)
	require.Error(t, err)
	require.Equal(t, lib.CodeVotingStillOpen, err.Code())
	sm.SetHeight(sm.Height() + 1)
	require.NoError(t, sm.EndPoll(pollId))
	// a second close fails and changes nothing
	before, e := sm.GetPoll(pollId)
	require.NoError(t, e)
	err = sm.EndPoll(pollId)
	require.Error(t, err)
	require.Equal(t, lib.CodePollAlreadyClosed, err.Code())
	after, e := sm.GetPoll(pollId)
	require.NoError(t, e)
	require.EqualExportedValues(t, before, after)
}

func TestEndPollDepositSettlement(t *testing.T) {
	tests := []struct {
		name      string
		detail    string
		yes       uint64
		toCreator bool
	}{
		{
			name:      "refund on pass",
			detail:    "a passed poll refunds the deposit to the creator",
			yes:       400,
			toCreator: true,
		},
		{
			name:   "forfeit on rejection",
			detail: "a rejected poll forfeits the deposit to the treasury",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sm, dispatcher := newTestStateMachine(t)
			creator, voter, treasury := newTestAddress(t), newTestAddress(t, 1), newTestAddress(t, 11)
			require.NoError(t, sm.StakeShare(voter, 1000))
			pollId, err := sm.CreatePoll(creator, testProposalDeposit, "raise the minimum collateral ratio", nil)
			require.NoError(t, err)
			state, err := sm.GetGlobalState()
			require.NoError(t, err)
			require.EqualValues(t, testProposalDeposit, state.TotalDeposit)
			if test.yes != 0 {
				require.NoError(t, sm.CastVote(voter, pollId, VoteYes, test.yes))
			}
			sm.SetHeight(sm.Height() + testVotingPeriod)
			require.NoError(t, sm.EndPoll(pollId))
			// the deposit left the open-poll aggregate
			state, err = sm.GetGlobalState()
			require.NoError(t, err)
			require.Zero(t, state.TotalDeposit)
			// and was dispatched to exactly one recipient
			recipient, other := treasury, creator
			if test.toCreator {
				recipient, other = creator, treasury
			}
			transfers := dispatcher.transfersTo(t, recipient)
			require.Len(t, transfers, 1)
			require.EqualValues(t, testProposalDeposit, transfers[0].Amount)
			require.Empty(t, dispatcher.transfersTo(t, other))
		})
	}
}

// TestEndPollQuorumBase covers the close-time quorum base: share staked after the
// votes were cast still dilutes participation
func TestEndPollQuorumBase(t *testing.T) {
	sm, _ := newTestStateMachine(t)
	voter, late := newTestAddress(t, 1), newTestAddress(t, 2)
	require.NoError(t, sm.StakeShare(voter, 300))
	pollId, err := sm.CreatePoll(newTestAddress(t), testProposalDeposit, "raise the minimum collateral ratio", nil)
	require.NoError(t, err)
	// 300 of 300 staked would meet quorum at cast time
	require.NoError(t, sm.CastVote(voter, pollId, VoteYes, 300))
	// a late staker grows the base to 1001 before the close
	require.NoError(t, sm.StakeShare(late, 701))
	sm.SetHeight(sm.Height() + testVotingPeriod)
	require.NoError(t, sm.EndPoll(pollId))
	poll, err := sm.GetPoll(pollId)
	require.NoError(t, err)
	require.Equal(t, PollStatusRejected, poll.Status)
	require.EqualValues(t, 1001, poll.TotalShareAtEnd)
}

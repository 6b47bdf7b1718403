package gov

import (
	"strings"
	"testing"

	"github.com/meridian-protocol/meridian/lib"
	"github.com/stretchr/testify/require"
)

func TestCreatePoll(t *testing.T) {
	tests := []struct {
		name        string
		detail      string
		deposit     uint64
		description string
		executeData *ExecuteData
		error       lib.ErrorCode
	}{
		{
			name:        "wrong deposit",
			detail:      "the deposit must match the configured proposal deposit exactly",
			deposit:     testProposalDeposit - 1,
			description: "list a new asset",
			error:       lib.CodeInsufficientDeposit,
		},
		{
			name:        "over deposit",
			detail:      "an over payment is rejected rather than partially refunded",
			deposit:     testProposalDeposit + 1,
			description: "list a new asset",
			error:       lib.CodeInsufficientDeposit,
		},
		{
			name:        "short description",
			detail:      "the description must be at least the minimum length",
			deposit:     testProposalDeposit,
			description: "abc",
			error:       lib.CodeInvalidDescription,
		},
		{
			name:        "long description",
			detail:      "the description must not exceed the maximum length",
			deposit:     testProposalDeposit,
			description: strings.Repeat("a", MaxDescriptionLength+1),
			error:       lib.CodeInvalidDescription,
		},
		{
			name:        "bad execute target",
			detail:      "an execute payload must name a well formed target address",
			deposit:     testProposalDeposit,
			description: "list a new asset",
			executeData: &ExecuteData{Target: []byte{1, 2, 3}, Payload: []byte("x")},
			error:       lib.CodeInvalidAddress,
		},
		{
			name:        "text poll",
			detail:      "a poll without execute data is valid",
			deposit:     testProposalDeposit,
			description: "list a new asset",
		},
		{
			name:        "execute poll",
			detail:      "a poll with execute data stores the sub-call verbatim",
			deposit:     testProposalDeposit,
			description: "list a new asset",
			executeData: &ExecuteData{Target: newTestAddressBytes(t, 3), Payload: []byte("opaque-payload")},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sm, _ := newTestStateMachine(t)
			creator := newTestAddress(t)
			id, err := sm.CreatePoll(creator, test.deposit, test.description, test.executeData)
			if test.error != 0 {
				require.Error(t, err)
				require.Equal(t, test.error, err.Code())
				return
			}
			require.NoError(t, err)
			require.EqualValues(t, 1, id)
			poll, err := sm.GetPoll(id)
			require.NoError(t, err)
			require.Equal(t, PollStatusInProgress, poll.Status)
			require.EqualValues(t, creator.Bytes(), poll.Creator)
			require.Equal(t, sm.Height()+testVotingPeriod, poll.EndHeight)
			require.Equal(t, test.description, poll.Description)
			require.EqualValues(t, test.deposit, poll.DepositAmount)
			if test.executeData != nil {
				require.Equal(t, test.executeData.Payload, poll.ExecuteData.Payload)
			} else {
				require.Nil(t, poll.ExecuteData)
			}
			state, err := sm.GetGlobalState()
			require.NoError(t, err)
			require.EqualValues(t, 1, state.PollCount)
			require.Equal(t, test.deposit, state.TotalDeposit)
		})
	}
}

func TestPollIdsMonotonic(t *testing.T) {
	sm, _ := newTestStateMachine(t)
	creator := newTestAddress(t)
	for want := uint64(1); want <= 5; want++ {
		id, err := sm.CreatePoll(creator, testProposalDeposit, "expand the whitelist", nil)
		require.NoError(t, err)
		require.Equal(t, want, id)
	}
	// ids are never reused even after a poll closes
	sm.SetHeight(sm.Height() + testVotingPeriod)
	require.NoError(t, sm.EndPoll(3))
	id, err := sm.CreatePoll(creator, testProposalDeposit, "expand the whitelist", nil)
	require.NoError(t, err)
	require.EqualValues(t, 6, id)
}

func TestGetPollNotFound(t *testing.T) {
	sm, _ := newTestStateMachine(t)
	_, err := sm.GetPoll(99)
	require.Error(t, err)
	require.Equal(t, lib.CodePollNotFound, err.Code())
}

func TestGetPolls(t *testing.T) {
	sm, _ := newTestStateMachine(t)
	creator := newTestAddress(t)
	voter := newTestAddress(t, 1)
	require.NoError(t, sm.StakeShare(voter, 1000))
	for i := 0; i < 4; i++ {
		_, err := sm.CreatePoll(creator, testProposalDeposit, "adjust the protocol fee", nil)
		require.NoError(t, err)
	}
	require.NoError(t, sm.CastVote(voter, 2, VoteYes, 900))
	sm.SetHeight(sm.Height() + testVotingPeriod)
	require.NoError(t, sm.EndPoll(1)) // no votes, rejected
	require.NoError(t, sm.EndPoll(2)) // passes
	tests := []struct {
		name   string
		filter PollStatus
		ids    []uint64
	}{
		{name: "all", filter: PollStatusUnknown, ids: []uint64{1, 2, 3, 4}},
		{name: "in progress", filter: PollStatusInProgress, ids: []uint64{3, 4}},
		{name: "passed", filter: PollStatusPassed, ids: []uint64{2}},
		{name: "rejected", filter: PollStatusRejected, ids: []uint64{1}},
		{name: "executed", filter: PollStatusExecuted, ids: []uint64{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			polls, err := sm.GetPolls(test.filter)
			require.NoError(t, err)
			got := make([]uint64, 0)
			for _, poll := range polls {
				got = append(got, poll.Id)
			}
			require.Equal(t, test.ids, got)
		})
	}
}

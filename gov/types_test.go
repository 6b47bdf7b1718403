package gov

import (
	"testing"

	"github.com/meridian-protocol/meridian/lib"
	"github.com/stretchr/testify/require"
)

func TestPollRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		poll *Poll
	}{
		{
			name: "fresh poll",
			poll: &Poll{
				Id:            1,
				Creator:       newTestAddressBytes(t),
				Status:        PollStatusInProgress,
				Voters:        map[string]*VoteReceipt{},
				EndHeight:     11,
				Description:   "whitelist a new collateral asset",
				DepositAmount: 100,
			},
		},
		{
			name: "closed executable poll",
			poll: &Poll{
				Id:      7,
				Creator: newTestAddressBytes(t),
				Status:  PollStatusPassed,
				YesVotes: 400,
				NoVotes:  50,
				Voters: map[string]*VoteReceipt{
					newTestAddress(t, 1).String(): {Option: VoteYes, Share: 400},
					newTestAddress(t, 2).String(): {Option: VoteNo, Share: 50},
				},
				EndHeight:   11,
				Description: "hand the fee switch to the treasury",
				ExecuteData: &ExecuteData{
					Target:  newTestAddressBytes(t, 3),
					Payload: []byte("opaque-payload"),
				},
				DepositAmount:   100,
				TotalShareAtEnd: 1000,
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			bz, err := lib.Marshal(test.poll)
			require.NoError(t, err)
			got := new(Poll)
			require.NoError(t, lib.Unmarshal(bz, got))
			require.EqualExportedValues(t, test.poll, got)
		})
	}
}

func TestMarshalDeterministic(t *testing.T) {
	// map ordering must not leak into the encoded record
	poll := &Poll{
		Id:     1,
		Status: PollStatusInProgress,
		Voters: map[string]*VoteReceipt{},
	}
	for i := 0; i < 16; i++ {
		poll.Voters[newTestAddress(t, i).String()] = &VoteReceipt{Option: VoteYes, Share: uint64(i + 1)}
	}
	first, err := lib.Marshal(poll)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		again, e := lib.Marshal(poll)
		require.NoError(t, e)
		require.Equal(t, first, again)
	}
}

func TestUnmarshalRejectsBadEnvelope(t *testing.T) {
	bz, err := lib.Marshal(&StakerAccount{Address: newTestAddressBytes(t), Share: 1})
	require.NoError(t, err)
	// an unknown schema version is rejected before decoding
	bad := append([]byte{0xAA}, bz[1:]...)
	e := lib.Unmarshal(bad, new(StakerAccount))
	require.Error(t, e)
	require.Equal(t, lib.CodeUnknownSchemaVer, e.Code())
	// an empty record has no envelope at all
	e = lib.Unmarshal([]byte{}, new(StakerAccount))
	require.Error(t, e)
	require.Equal(t, lib.CodeTruncatedRecord, e.Code())
}

func TestPollStatusJSON(t *testing.T) {
	for _, status := range []PollStatus{PollStatusInProgress, PollStatusPassed, PollStatusRejected, PollStatusExecuted} {
		bz, err := lib.MarshalJSON(status)
		require.NoError(t, err)
		var got PollStatus
		require.NoError(t, lib.UnmarshalJSON(bz, &got))
		require.Equal(t, status, got)
		parsed, e := ParsePollStatus(status.String())
		require.NoError(t, e)
		require.Equal(t, status, parsed)
	}
	_, err := ParsePollStatus("bogus")
	require.Error(t, err)
	require.Equal(t, lib.CodeUnknownPollStatus, err.Code())
}

func TestVoteOptionJSON(t *testing.T) {
	for _, option := range []VoteOption{VoteYes, VoteNo} {
		bz, err := lib.MarshalJSON(option)
		require.NoError(t, err)
		var got VoteOption
		require.NoError(t, lib.UnmarshalJSON(bz, &got))
		require.Equal(t, option, got)
	}
}

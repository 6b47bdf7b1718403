package gov

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/meridian-protocol/meridian/lib"
	"github.com/meridian-protocol/meridian/lib/crypto"
	"github.com/meridian-protocol/meridian/store"
	"github.com/stretchr/testify/require"
)

const (
	testQuorum          = 300_000_000 // 30% of lib.FractionDenominator
	testThreshold       = 500_000_000 // 50% of lib.FractionDenominator
	testVotingPeriod    = 10
	testProposalDeposit = 100
)

func TestApplyMessageRollback(t *testing.T) {
	tests := []struct {
		name   string
		detail string
		msg    MessageI
	}{
		{
			name:   "unauthorized deposit",
			detail: "a deposit notification from a non asset caller must leave no partial state",
			msg: &MessageDeposit{
				Sender: newTestAddressBytes(t),
				Amount: 50,
				Hook:   DepositHook{Stake: &StakeHook{}},
			},
		},
		{
			name:   "vote on a missing poll",
			detail: "a vote on an unknown poll must leave no partial state",
			msg: &MessageCastVote{
				Address: newTestAddressBytes(t),
				PollId:  42,
				Option:  VoteYes,
				Share:   10,
			},
		},
		{
			name:   "withdraw from a missing account",
			detail: "a withdrawal from an unknown staker must leave no partial state",
			msg: &MessageWithdraw{
				Address: newTestAddressBytes(t),
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sm, _ := newTestStateMachine(t)
			before, err := sm.GetGlobalState()
			require.NoError(t, err)
			// execute the failing message through the transactional entry point
			require.Error(t, sm.ApplyMessage(newTestAddress(t), test.msg))
			after, err := sm.GetGlobalState()
			require.NoError(t, err)
			require.EqualExportedValues(t, before, after)
		})
	}
}

func TestApplyMessageCommit(t *testing.T) {
	sm, _ := newTestStateMachine(t)
	staker := newTestAddress(t)
	// a successful message must persist past the transaction boundary
	require.NoError(t, sm.ApplyMessage(newTestAssetAddress(t), &MessageDeposit{
		Sender: staker.Bytes(),
		Amount: 50,
		Hook:   DepositHook{Stake: &StakeHook{}},
	}))
	acc, err := sm.GetStakerAccount(staker)
	require.NoError(t, err)
	require.EqualValues(t, 50, acc.Share)
	state, err := sm.GetGlobalState()
	require.NoError(t, err)
	require.EqualValues(t, 50, state.TotalShare)
}

func TestCommitAdvancesHeightAndPersists(t *testing.T) {
	sm, _ := newTestStateMachine(t)
	asset, staker := newTestAssetAddress(t), newTestAddress(t)
	// each accepted transaction is committed as its own block
	require.NoError(t, sm.ApplyMessage(asset, &MessageDeposit{
		Sender: staker.Bytes(),
		Amount: 1000,
		Hook:   DepositHook{Stake: &StakeHook{}},
	}))
	require.NoError(t, sm.Commit())
	require.NoError(t, sm.ApplyMessage(asset, &MessageDeposit{
		Sender: staker.Bytes(),
		Amount: testProposalDeposit,
		Hook:   DepositHook{CreatePoll: &CreatePollHook{Description: "raise the proposal deposit"}},
	}))
	require.NoError(t, sm.Commit())
	require.EqualValues(t, 2, sm.Height())
	require.Equal(t, sm.db.Version(), sm.Height())
	// the voting window is measured in committed blocks, so committing lets it expire
	poll, err := sm.GetPoll(1)
	require.NoError(t, err)
	err = sm.EndPoll(1)
	require.Error(t, err)
	require.Equal(t, lib.CodeVotingStillOpen, err.Code())
	for sm.Height() < poll.EndHeight {
		require.NoError(t, sm.Commit())
	}
	require.NoError(t, sm.EndPoll(1))
	require.NoError(t, sm.Commit())
	// a machine reopened over the same committed store sees the same state
	reopened, err := New(sm.Config, sm.db, nil, lib.NewNullLogger())
	require.NoError(t, err)
	require.Equal(t, sm.Height(), reopened.Height())
	acc, err := reopened.GetStakerAccount(staker)
	require.NoError(t, err)
	require.EqualValues(t, 1000, acc.Share)
	closed, err := reopened.GetPoll(1)
	require.NoError(t, err)
	require.Equal(t, PollStatusRejected, closed.Status)
}

func TestHandleMessageUnknown(t *testing.T) {
	sm, _ := newTestStateMachine(t)
	err := sm.ApplyMessage(newTestAddress(t), &unknownMessage{})
	require.Error(t, err)
	require.Equal(t, lib.CodeUnknownMessage, err.Code())
}

// TestRandomInterleavings fuzzes random sequences of stake, poll creation, voting,
// withdrawal, and closing against the accounting invariants: the global total share
// always equals the sum of all staker shares, and no staker's open locks ever exceed
// their share
func TestRandomInterleavings(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sm, _ := newTestStateMachine(t)
	asset := newTestAssetAddress(t)
	stakers := make([]crypto.AddressI, 5)
	for i := range stakers {
		stakers[i] = newTestAddress(t, i)
	}
	for i := 0; i < 500; i++ {
		staker := stakers[rng.Intn(len(stakers))]
		switch rng.Intn(6) {
		case 0: // stake
			sm.ApplyMessage(asset, &MessageDeposit{
				Sender: staker.Bytes(),
				Amount: uint64(rng.Intn(100) + 1),
				Hook:   DepositHook{Stake: &StakeHook{}},
			})
		case 1: // create a poll
			sm.ApplyMessage(asset, &MessageDeposit{
				Sender: staker.Bytes(),
				Amount: testProposalDeposit,
				Hook:   DepositHook{CreatePoll: &CreatePollHook{Description: "raise the collateral ratio"}},
			})
		case 2: // vote on a random poll
			state, err := sm.GetGlobalState()
			require.NoError(t, err)
			if state.PollCount == 0 {
				continue
			}
			sm.ApplyMessage(staker, &MessageCastVote{
				Address: staker.Bytes(),
				PollId:  uint64(rng.Intn(int(state.PollCount))) + 1,
				Option:  VoteOption(rng.Intn(2) + 1),
				Share:   uint64(rng.Intn(120) + 1),
			})
		case 3: // withdraw a random amount
			amount := uint64(rng.Intn(120) + 1)
			sm.ApplyMessage(staker, &MessageWithdraw{Address: staker.Bytes(), Amount: &amount})
		case 4: // close a random poll
			state, err := sm.GetGlobalState()
			require.NoError(t, err)
			if state.PollCount == 0 {
				continue
			}
			sm.ApplyMessage(staker, &MessageEndPoll{PollId: uint64(rng.Intn(int(state.PollCount))) + 1})
		case 5: // advance the chain
			sm.SetHeight(sm.Height() + uint64(rng.Intn(4)))
		}
		requireInvariants(t, sm, stakers)
	}
}

// requireInvariants checks the aggregate accounting against the individual records
func requireInvariants(t *testing.T, sm *StateMachine, stakers []crypto.AddressI) {
	state, err := sm.GetGlobalState()
	require.NoError(t, err)
	sum := uint64(0)
	for _, staker := range stakers {
		acc, e := sm.GetStakerAccount(staker)
		require.NoError(t, e)
		locked := uint64(0)
		for pollId, amount := range acc.LockedShares {
			poll, er := sm.GetPoll(pollId)
			require.NoError(t, er)
			if poll.Status == PollStatusInProgress {
				locked += amount
			}
		}
		require.LessOrEqual(t, locked, acc.Share, "locked share exceeds total share")
		sum += acc.Share
	}
	require.Equal(t, sum, state.TotalShare, "total share diverged from the sum of accounts")
}

type unknownMessage struct{}

func (x *unknownMessage) Name() string { return "unknown" }

// dispatchCall is a single recorded outbound sub-call
type dispatchCall struct {
	target  []byte
	payload []byte
}

// testDispatcher records every outbound sub-call instead of forwarding it
type testDispatcher struct {
	calls []dispatchCall
	err   lib.ErrorI // optional injected failure
}

func (d *testDispatcher) Dispatch(target crypto.AddressI, payload []byte) lib.ErrorI {
	if d.err != nil {
		return d.err
	}
	d.calls = append(d.calls, dispatchCall{target: target.Bytes(), payload: payload})
	return nil
}

// transfersTo filters the recorded sub-calls down to asset transfers for the recipient
func (d *testDispatcher) transfersTo(t *testing.T, recipient crypto.AddressI) (transfers []*AssetTransfer) {
	for _, call := range d.calls {
		transfer := new(AssetTransfer)
		if err := lib.Unmarshal(call.payload, transfer); err != nil {
			continue
		}
		if bytes.Equal(transfer.Recipient, recipient.Bytes()) {
			transfers = append(transfers, transfer)
		}
	}
	return
}

func newTestStateMachine(t *testing.T) (*StateMachine, *testDispatcher) {
	log := lib.NewNullLogger()
	db, err := store.NewStoreInMemory(log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	dispatcher := new(testDispatcher)
	sm, err := NewWithGenesis(lib.DefaultConfig(), db, &Genesis{
		Address: newTestAddressBytes(t, 12),
		Config: &Config{
			Owner:           newTestAddressBytes(t, 9),
			StakingAsset:    newTestAddressBytes(t, 10),
			Treasury:        newTestAddressBytes(t, 11),
			Quorum:          testQuorum,
			Threshold:       testThreshold,
			VotingPeriod:    testVotingPeriod,
			ProposalDeposit: testProposalDeposit,
		},
	}, dispatcher, log)
	require.NoError(t, err)
	sm.SetHeight(1)
	return sm, dispatcher
}

func newTestAddress(t *testing.T, variation ...int) crypto.AddressI {
	return crypto.NewAddressFromBytes(newTestAddressBytes(t, variation...))
}

func newTestAddressBytes(t *testing.T, variation ...int) []byte {
	fill := byte(1)
	if len(variation) == 1 {
		fill = byte(variation[0] + 1)
	}
	return bytes.Repeat([]byte{fill}, crypto.AddressSize)
}

// newTestAssetAddress returns the staking asset address seeded in the test genesis
func newTestAssetAddress(t *testing.T) crypto.AddressI {
	return newTestAddress(t, 10)
}

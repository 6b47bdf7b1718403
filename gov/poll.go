package gov

import (
	"github.com/meridian-protocol/meridian/lib"
	"github.com/meridian-protocol/meridian/lib/crypto"
)

/* poll.go implements the PollRegistry: creation, storage, and retrieval of poll records */

const (
	MinDescriptionLength = 4    // minimum poll description size in bytes
	MaxDescriptionLength = 1024 // maximum poll description size in bytes
)

// CreatePoll() opens a new poll backed by a confirmed asset deposit. The deposit must
// match the configured proposal deposit exactly; it is held by the module until the
// poll closes, then refunded to the creator if the poll passes or forfeited to the
// treasury if it is rejected.
func (s *StateMachine) CreatePoll(creator crypto.AddressI, deposit uint64, description string, executeData *ExecuteData) (uint64, lib.ErrorI) {
	config, err := s.GetConfig()
	if err != nil {
		return 0, err
	}
	if deposit != config.ProposalDeposit {
		return 0, ErrInsufficientDeposit(config.ProposalDeposit)
	}
	if len(description) < MinDescriptionLength || len(description) > MaxDescriptionLength {
		return 0, ErrInvalidDescription()
	}
	if executeData != nil && len(executeData.Target) != crypto.AddressSize {
		return 0, lib.ErrInvalidAddress()
	}
	state, err := s.GetGlobalState()
	if err != nil {
		return 0, err
	}
	if state.PollCount, err = lib.SafeAdd(state.PollCount, 1); err != nil {
		return 0, err
	}
	if state.TotalDeposit, err = lib.SafeAdd(state.TotalDeposit, deposit); err != nil {
		return 0, err
	}
	poll := &Poll{
		Id:            state.PollCount,
		Creator:       creator.Bytes(),
		Status:        PollStatusInProgress,
		Voters:        make(map[string]*VoteReceipt),
		EndHeight:     s.height + config.VotingPeriod,
		Description:   description,
		ExecuteData:   executeData,
		DepositAmount: deposit,
	}
	if err = s.SetPoll(poll); err != nil {
		return 0, err
	}
	if err = s.SetGlobalState(state); err != nil {
		return 0, err
	}
	s.log.Infof("action: create_poll, id: %d, creator: %s, end_height: %d", poll.Id, creator.String(), poll.EndHeight)
	return poll.Id, nil
}

// GetPoll() returns the poll record for the id or ErrPollNotFound
func (s *StateMachine) GetPoll(id uint64) (*Poll, lib.ErrorI) {
	bz, err := s.Get(KeyForPoll(id))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, ErrPollNotFound(id)
	}
	poll := new(Poll)
	if err = lib.Unmarshal(bz, poll); err != nil {
		return nil, err
	}
	if poll.Voters == nil {
		poll.Voters = make(map[string]*VoteReceipt)
	}
	return poll, nil
}

// SetPoll() upserts the poll record into the store
func (s *StateMachine) SetPoll(poll *Poll) lib.ErrorI {
	return s.marshalAndSet(KeyForPoll(poll.Id), poll)
}

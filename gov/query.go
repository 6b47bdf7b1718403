package gov

import (
	"github.com/meridian-protocol/meridian/lib"
)

/* query.go contains the read-only views served over RPC */

// GetStakers() returns every staker record in ascending address order
func (s *StateMachine) GetStakers() ([]*StakerAccount, lib.ErrorI) {
	it, err := s.Iterator(BankPrefix())
	if err != nil {
		return nil, err
	}
	defer it.Close()
	stakers := make([]*StakerAccount, 0)
	for ; it.Valid(); it.Next() {
		addr, err := AddressFromStakerKey(it.Key())
		if err != nil {
			return nil, err
		}
		acc := new(StakerAccount)
		if err = lib.Unmarshal(it.Value(), acc); err != nil {
			return nil, err
		}
		acc.Address = lib.HexBytes(addr)
		stakers = append(stakers, acc)
	}
	return stakers, nil
}

// GetPolls() returns every poll in ascending id order, optionally filtered by status
// a PollStatusUnknown filter matches all polls
func (s *StateMachine) GetPolls(filter PollStatus) ([]*Poll, lib.ErrorI) {
	it, err := s.Iterator(PollPrefix())
	if err != nil {
		return nil, err
	}
	defer it.Close()
	polls := make([]*Poll, 0)
	for ; it.Valid(); it.Next() {
		// the key is authoritative for the id; SetPoll writes each record under KeyForPoll(id)
		id, err := IdFromPollKey(it.Key())
		if err != nil {
			return nil, err
		}
		poll := new(Poll)
		if err = lib.Unmarshal(it.Value(), poll); err != nil {
			return nil, err
		}
		poll.Id = id
		if filter != PollStatusUnknown && poll.Status != filter {
			continue
		}
		polls = append(polls, poll)
	}
	return polls, nil
}

package gov

import (
	"github.com/meridian-protocol/meridian/lib"
	"github.com/meridian-protocol/meridian/lib/crypto"
)

/*
	account.go implements the ShareLedger: the per-staker record of staked share
	and the per-poll locks held against it.

	A staker's share may back votes on several open polls at once. Each vote locks
	its weight against the poll it was cast on, and the sum of locks referencing
	still-open polls is unavailable for withdrawal. Locks are released eagerly when
	a poll closes and pruned lazily whenever the account is touched, which keeps
	the withdrawal scan bounded by the staker's own open votes.
*/

// GetStakerAccount() returns the staker record, or a zero value record if none exists
func (s *StateMachine) GetStakerAccount(addr crypto.AddressI) (*StakerAccount, lib.ErrorI) {
	acc, _, err := s.getStakerAccount(addr)
	return acc, err
}

// getStakerAccount() returns the staker record and whether it was found in the store
func (s *StateMachine) getStakerAccount(addr crypto.AddressI) (*StakerAccount, bool, lib.ErrorI) {
	acc := &StakerAccount{Address: addr.Bytes(), LockedShares: make(map[uint64]uint64)}
	bz, err := s.Get(KeyForStaker(addr))
	if err != nil {
		return nil, false, err
	}
	if bz == nil {
		return acc, false, nil
	}
	if err = lib.Unmarshal(bz, acc); err != nil {
		return nil, false, err
	}
	if acc.LockedShares == nil {
		acc.LockedShares = make(map[uint64]uint64)
	}
	return acc, true, nil
}

// SetStakerAccount() upserts the staker record into the store
func (s *StateMachine) SetStakerAccount(acc *StakerAccount) lib.ErrorI {
	return s.marshalAndSet(KeyForStaker(crypto.NewAddressFromBytes(acc.Address)), acc)
}

// StakeShare() credits a confirmed asset deposit as staked share
// the tokens are already held by the module when this is called
func (s *StateMachine) StakeShare(staker crypto.AddressI, amount uint64) lib.ErrorI {
	if amount == 0 {
		return ErrInvalidAmount()
	}
	acc, _, err := s.getStakerAccount(staker)
	if err != nil {
		return err
	}
	state, err := s.GetGlobalState()
	if err != nil {
		return err
	}
	if acc.Share, err = lib.SafeAdd(acc.Share, amount); err != nil {
		return err
	}
	if state.TotalShare, err = lib.SafeAdd(state.TotalShare, amount); err != nil {
		return err
	}
	if err = s.SetStakerAccount(acc); err != nil {
		return err
	}
	if err = s.SetGlobalState(state); err != nil {
		return err
	}
	s.log.Infof("action: stake, staker: %s, amount: %d", staker.String(), amount)
	return nil
}

// WithdrawShare() releases unlocked share and returns the backing asset to the staker.
// A nil amount withdraws the full unlocked balance. Share locked behind votes on
// still-open polls cannot leave; this is the guard against double-spending voting
// power as a withdrawal vector.
func (s *StateMachine) WithdrawShare(staker crypto.AddressI, amount *uint64) lib.ErrorI {
	acc, found, err := s.getStakerAccount(staker)
	if err != nil {
		return err
	}
	if !found {
		return ErrAccountNotFound()
	}
	locked, err := s.lockedShare(acc)
	if err != nil {
		return err
	}
	unlocked, err := lib.SafeSub(acc.Share, locked)
	if err != nil {
		return err
	}
	withdraw := unlocked
	if amount != nil {
		withdraw = *amount
	}
	if withdraw == 0 {
		return ErrInvalidAmount()
	}
	if withdraw > unlocked {
		return ErrInsufficientStake()
	}
	state, err := s.GetGlobalState()
	if err != nil {
		return err
	}
	if acc.Share, err = lib.SafeSub(acc.Share, withdraw); err != nil {
		return err
	}
	if state.TotalShare, err = lib.SafeSub(state.TotalShare, withdraw); err != nil {
		return err
	}
	if err = s.SetStakerAccount(acc); err != nil {
		return err
	}
	if err = s.SetGlobalState(state); err != nil {
		return err
	}
	if err = s.transferAsset(staker, withdraw); err != nil {
		return err
	}
	s.log.Infof("action: withdraw, staker: %s, amount: %d", staker.String(), withdraw)
	return nil
}

// lockedShare() sums the account's lock entries that still reference an open poll,
// pruning entries for polls that have since closed
func (s *StateMachine) lockedShare(acc *StakerAccount) (locked uint64, err lib.ErrorI) {
	for pollId, amount := range acc.LockedShares {
		poll, e := s.GetPoll(pollId)
		if e != nil {
			return 0, e
		}
		if poll.Status != PollStatusInProgress {
			delete(acc.LockedShares, pollId)
			continue
		}
		if locked, err = lib.SafeAdd(locked, amount); err != nil {
			return 0, err
		}
	}
	return locked, nil
}

// LockForPoll() reserves share behind a vote on the given poll
func (x *StakerAccount) LockForPoll(pollId, amount uint64) {
	if x.LockedShares == nil {
		x.LockedShares = make(map[uint64]uint64)
	}
	x.LockedShares[pollId] = amount
	x.ParticipatedPolls = append(x.ParticipatedPolls, pollId)
}

// ReleaseForPoll() removes the reservation held behind the given poll
func (x *StakerAccount) ReleaseForPoll(pollId uint64) {
	delete(x.LockedShares, pollId)
}

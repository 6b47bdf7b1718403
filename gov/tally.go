package gov

import (
	"sort"

	"github.com/meridian-protocol/meridian/lib"
	"github.com/meridian-protocol/meridian/lib/crypto"
)

/*
	tally.go implements the TallyEngine: the one-shot close of an expired poll.

	Closing is an explicit call, never an implicit side effect, and it is callable
	by anyone once the voting window has expired. A close computes the outcome from
	the recorded tallies and the total share at close time, freezes the poll status,
	releases every voter's lock, and settles the deposit. A second close of the same
	poll fails and changes nothing.
*/

// EndPoll() computes and freezes the outcome of a poll whose voting window expired.
// The poll passes when participation meets the quorum fraction of total staked share
// and the yes weight meets the threshold fraction of participating weight. The deposit
// is refunded to the creator on pass and forfeited to the treasury on rejection.
func (s *StateMachine) EndPoll(pollId uint64) lib.ErrorI {
	poll, err := s.GetPoll(pollId)
	if err != nil {
		return err
	}
	if poll.Status != PollStatusInProgress {
		return ErrPollAlreadyClosed()
	}
	if s.height < poll.EndHeight {
		return ErrVotingStillOpen()
	}
	config, err := s.GetConfig()
	if err != nil {
		return err
	}
	state, err := s.GetGlobalState()
	if err != nil {
		return err
	}
	total, err := lib.SafeAdd(poll.YesVotes, poll.NoVotes)
	if err != nil {
		return err
	}
	// the quorum base is the total staked share at close time, not creation time
	poll.TotalShareAtEnd = state.TotalShare
	quorum := total > 0 && lib.MeetsFraction(total, poll.TotalShareAtEnd, config.Quorum)
	threshold := lib.MeetsFraction(poll.YesVotes, total, config.Threshold)
	if quorum && threshold {
		poll.Status = PollStatusPassed
	} else {
		poll.Status = PollStatusRejected
	}
	// release every voter lock eagerly so withdrawal scans stay bounded;
	// voters are walked in sorted address order to keep writes deterministic
	if err = s.releaseVoterLocks(poll); err != nil {
		return err
	}
	if state.TotalDeposit, err = lib.SafeSub(state.TotalDeposit, poll.DepositAmount); err != nil {
		return err
	}
	if poll.DepositAmount != 0 {
		recipient := crypto.NewAddressFromBytes(config.Treasury)
		if poll.Status == PollStatusPassed {
			recipient = crypto.NewAddressFromBytes(poll.Creator)
		}
		if err = s.transferAsset(recipient, poll.DepositAmount); err != nil {
			return err
		}
	}
	if err = s.SetPoll(poll); err != nil {
		return err
	}
	if err = s.SetGlobalState(state); err != nil {
		return err
	}
	s.log.Infof("action: end_poll, poll: %d, status: %s, yes: %d, no: %d, quorum_base: %d",
		pollId, poll.Status.String(), poll.YesVotes, poll.NoVotes, poll.TotalShareAtEnd)
	return nil
}

// releaseVoterLocks() removes the lock each recorded voter holds against the poll
func (s *StateMachine) releaseVoterLocks(poll *Poll) lib.ErrorI {
	voters := make([]string, 0, len(poll.Voters))
	for voter := range poll.Voters {
		voters = append(voters, voter)
	}
	sort.Strings(voters)
	for _, voter := range voters {
		addr, e := crypto.NewAddressFromString(voter)
		if e != nil {
			return lib.ErrInvalidAddress()
		}
		acc, found, err := s.getStakerAccount(addr)
		if err != nil {
			return err
		}
		if !found {
			return ErrAccountNotFound()
		}
		acc.ReleaseForPoll(poll.Id)
		if err = s.SetStakerAccount(acc); err != nil {
			return err
		}
	}
	return nil
}

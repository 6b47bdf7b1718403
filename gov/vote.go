package gov

import (
	"github.com/meridian-protocol/meridian/lib"
	"github.com/meridian-protocol/meridian/lib/crypto"
)

/* vote.go implements the VotingEngine: validation and recording of individual votes */

// CastVote() records a single immutable vote on an open poll and locks the voting
// weight behind it. A staker votes at most once per poll; the weight may not exceed
// the staker's currently unlocked share, so the same share can never be double-spent
// across concurrently open polls.
func (s *StateMachine) CastVote(voter crypto.AddressI, pollId uint64, option VoteOption, share uint64) lib.ErrorI {
	poll, err := s.GetPoll(pollId)
	if err != nil {
		return err
	}
	if poll.Status != PollStatusInProgress {
		return ErrPollClosed()
	}
	// closing is a separate explicit action, never implicit; an expired
	// window rejects votes even before anyone calls EndPoll
	if s.height >= poll.EndHeight {
		return ErrPollClosed()
	}
	if option != VoteYes && option != VoteNo {
		return ErrUnknownVoteOption()
	}
	voterKey := voter.String()
	if _, ok := poll.Voters[voterKey]; ok {
		return ErrAlreadyVoted()
	}
	acc, _, err := s.getStakerAccount(voter)
	if err != nil {
		return err
	}
	locked, err := s.lockedShare(acc)
	if err != nil {
		return err
	}
	unlocked, err := lib.SafeSub(acc.Share, locked)
	if err != nil {
		return err
	}
	if share == 0 || share > unlocked {
		return ErrInsufficientStake()
	}
	poll.Voters[voterKey] = &VoteReceipt{Option: option, Share: share}
	switch option {
	case VoteYes:
		if poll.YesVotes, err = lib.SafeAdd(poll.YesVotes, share); err != nil {
			return err
		}
	case VoteNo:
		if poll.NoVotes, err = lib.SafeAdd(poll.NoVotes, share); err != nil {
			return err
		}
	}
	acc.LockForPoll(pollId, share)
	if err = s.SetStakerAccount(acc); err != nil {
		return err
	}
	if err = s.SetPoll(poll); err != nil {
		return err
	}
	s.log.Infof("action: cast_vote, poll: %d, voter: %s, option: %s, share: %d", pollId, voterKey, option.String(), share)
	return nil
}

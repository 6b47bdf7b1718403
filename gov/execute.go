package gov

import (
	"github.com/meridian-protocol/meridian/lib"
	"github.com/meridian-protocol/meridian/lib/crypto"
)

/* execute.go implements the ExecutionDispatcher: outbound sub-calls to other contracts */

// Dispatcher is the host-provided capability for emitting a sub-call to another
// contract on the ledger. The payload is opaque to this module; it is deserialized
// and authorized entirely by the receiving contract. A failed dispatch fails the
// surrounding transaction, which reverts every write of the current call.
type Dispatcher interface {
	Dispatch(target crypto.AddressI, payload []byte) lib.ErrorI
}

// ExecutePoll() emits the stored sub-call of a passed poll exactly once; callable by
// anyone. The status flips to Executed before the dispatch is forwarded, so a re-entrant
// execute attempt from inside the sub-call observes the poll as already consumed.
func (s *StateMachine) ExecutePoll(pollId uint64) lib.ErrorI {
	poll, err := s.GetPoll(pollId)
	if err != nil {
		return err
	}
	if poll.Status != PollStatusPassed {
		return ErrPollNotPassed()
	}
	if poll.ExecuteData == nil {
		return ErrNothingToExecute()
	}
	poll.Status = PollStatusExecuted
	if err = s.SetPoll(poll); err != nil {
		return err
	}
	if err = s.dispatch(crypto.NewAddressFromBytes(poll.ExecuteData.Target), poll.ExecuteData.Payload); err != nil {
		return err
	}
	s.log.Infof("action: execute_poll, poll: %d, target: %s", pollId, poll.ExecuteData.Target.String())
	return nil
}

// transferAsset() dispatches a token transfer out of the module to the recipient
// by sub-calling the staking asset contract
func (s *StateMachine) transferAsset(recipient crypto.AddressI, amount uint64) lib.ErrorI {
	config, err := s.GetConfig()
	if err != nil {
		return err
	}
	payload, err := lib.Marshal(&AssetTransfer{Recipient: recipient.Bytes(), Amount: amount})
	if err != nil {
		return err
	}
	return s.dispatch(crypto.NewAddressFromBytes(config.StakingAsset), payload)
}

// dispatch() forwards a sub-call through the configured capability
func (s *StateMachine) dispatch(target crypto.AddressI, payload []byte) lib.ErrorI {
	if s.dispatcher == nil {
		return ErrNoDispatcher()
	}
	return s.dispatcher.Dispatch(target, payload)
}

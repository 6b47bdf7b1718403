package gov

import (
	"github.com/meridian-protocol/meridian/lib"
	"github.com/meridian-protocol/meridian/lib/crypto"
)

/*
	message.go defines the inbound message envelope of the module.

	Stake and CreatePoll arrive as deposit notifications: the staking asset contract moves
	tokens into this module and calls back with the original sender, the amount, and a hook
	describing what the deposit is for. Every other message is a direct call from the actor
	it names. The host ledger supplies the caller identity to ApplyMessage.
*/

const (
	MessageDepositName      = "deposit"
	MessageWithdrawName     = "withdraw"
	MessageCastVoteName     = "cast_vote"
	MessageEndPollName      = "end_poll"
	MessageExecutePollName  = "execute_poll"
	MessageUpdateConfigName = "update_config"
)

// MessageI is the interface model of an inbound governance message
type MessageI interface {
	Name() string // the routing name of the message
}

// MessageDeposit is a receive-notification from the staking asset contract
// the tokens are already credited to this module when the notification arrives
type MessageDeposit struct {
	Sender lib.HexBytes `json:"sender"` // the account whose tokens were deposited
	Amount uint64       `json:"amount"` // the deposited amount
	Hook   DepositHook  `json:"hook"`   // what the deposit is for
}

// DepositHook is a tagged variant: exactly one of its fields is set
type DepositHook struct {
	Stake      *StakeHook      `json:"stake,omitempty"`
	CreatePoll *CreatePollHook `json:"createPoll,omitempty"`
}

// StakeHook credits the deposit as staked share
type StakeHook struct{}

// CreatePollHook opens a new poll backed by the deposit
type CreatePollHook struct {
	Description string       `json:"description"`
	ExecuteData *ExecuteData `json:"executeData,omitempty"`
}

// MessageWithdraw releases unlocked staked share back to the staker
type MessageWithdraw struct {
	Address lib.HexBytes `json:"address"` // the staker withdrawing
	Amount  *uint64      `json:"amount,omitempty"` // optional; defaults to the full unlocked balance
}

// MessageCastVote casts a single vote on an open poll
type MessageCastVote struct {
	Address lib.HexBytes `json:"address"` // the voter
	PollId  uint64       `json:"pollId"`
	Option  VoteOption   `json:"option"`
	Share   uint64       `json:"share"` // the voting weight to lock behind this vote
}

// MessageEndPoll closes a poll whose voting window has expired; callable by anyone
type MessageEndPoll struct {
	PollId uint64 `json:"pollId"`
}

// MessageExecutePoll dispatches the stored sub-call of a passed poll; callable by anyone
type MessageExecutePoll struct {
	PollId uint64 `json:"pollId"`
}

// MessageUpdateConfig partially updates the governance parameters
// each field is independently optional; omitted fields retain prior values
type MessageUpdateConfig struct {
	Owner           lib.HexBytes `json:"owner,omitempty"`
	Treasury        lib.HexBytes `json:"treasury,omitempty"`
	Quorum          *uint64      `json:"quorum,omitempty"`
	Threshold       *uint64      `json:"threshold,omitempty"`
	VotingPeriod    *uint64      `json:"votingPeriod,omitempty"`
	ProposalDeposit *uint64      `json:"proposalDeposit,omitempty"`
}

func (x *MessageDeposit) Name() string      { return MessageDepositName }
func (x *MessageWithdraw) Name() string     { return MessageWithdrawName }
func (x *MessageCastVote) Name() string     { return MessageCastVoteName }
func (x *MessageEndPoll) Name() string      { return MessageEndPollName }
func (x *MessageExecutePoll) Name() string  { return MessageExecutePollName }
func (x *MessageUpdateConfig) Name() string { return MessageUpdateConfigName }

// HandleMessage() routes the MessageI to the correct `handler` based on its `type`
func (s *StateMachine) HandleMessage(caller crypto.AddressI, msg MessageI) lib.ErrorI {
	switch x := msg.(type) {
	case *MessageDeposit:
		return s.HandleMessageDeposit(caller, x)
	case *MessageWithdraw:
		return s.HandleMessageWithdraw(caller, x)
	case *MessageCastVote:
		return s.HandleMessageCastVote(caller, x)
	case *MessageEndPoll:
		return s.HandleMessageEndPoll(x)
	case *MessageExecutePoll:
		return s.HandleMessageExecutePoll(x)
	case *MessageUpdateConfig:
		return s.HandleMessageUpdateConfig(caller, x)
	default:
		return ErrUnknownMessage(x)
	}
}

// HandleMessageDeposit() validates the notification origin and routes the hook
// only the staking asset contract may deliver deposit notifications
func (s *StateMachine) HandleMessageDeposit(caller crypto.AddressI, msg *MessageDeposit) lib.ErrorI {
	config, err := s.GetConfig()
	if err != nil {
		return err
	}
	if caller == nil || !caller.Equals(crypto.NewAddressFromBytes(config.StakingAsset)) {
		return ErrUnauthorized()
	}
	if len(msg.Sender) != crypto.AddressSize {
		return lib.ErrInvalidAddress()
	}
	if msg.Amount == 0 {
		return ErrInvalidDeposit()
	}
	sender := crypto.NewAddressFromBytes(msg.Sender)
	switch {
	case msg.Hook.Stake != nil:
		return s.StakeShare(sender, msg.Amount)
	case msg.Hook.CreatePoll != nil:
		_, err = s.CreatePoll(sender, msg.Amount, msg.Hook.CreatePoll.Description, msg.Hook.CreatePoll.ExecuteData)
		return err
	default:
		return ErrUnknownDepositHook()
	}
}

// HandleMessageWithdraw() releases unlocked share and returns the asset to the staker
// the message must be a direct call from the staker it names
func (s *StateMachine) HandleMessageWithdraw(caller crypto.AddressI, msg *MessageWithdraw) lib.ErrorI {
	if len(msg.Address) != crypto.AddressSize {
		return lib.ErrInvalidAddress()
	}
	staker := crypto.NewAddressFromBytes(msg.Address)
	if caller == nil || !caller.Equals(staker) {
		return ErrUnauthorized()
	}
	return s.WithdrawShare(staker, msg.Amount)
}

// HandleMessageCastVote() validates and applies a single vote
// the message must be a direct call from the voter it names
func (s *StateMachine) HandleMessageCastVote(caller crypto.AddressI, msg *MessageCastVote) lib.ErrorI {
	if len(msg.Address) != crypto.AddressSize {
		return lib.ErrInvalidAddress()
	}
	voter := crypto.NewAddressFromBytes(msg.Address)
	if caller == nil || !caller.Equals(voter) {
		return ErrUnauthorized()
	}
	return s.CastVote(voter, msg.PollId, msg.Option, msg.Share)
}

// HandleMessageEndPoll() computes the outcome of an expired poll
func (s *StateMachine) HandleMessageEndPoll(msg *MessageEndPoll) lib.ErrorI {
	return s.EndPoll(msg.PollId)
}

// HandleMessageExecutePoll() forwards the stored sub-call of a passed poll
func (s *StateMachine) HandleMessageExecutePoll(msg *MessageExecutePoll) lib.ErrorI {
	return s.ExecutePoll(msg.PollId)
}

// HandleMessageUpdateConfig() partially updates the governance parameters
// authorized to the stored owner, or to the module itself via an executed self-targeting poll
func (s *StateMachine) HandleMessageUpdateConfig(caller crypto.AddressI, msg *MessageUpdateConfig) lib.ErrorI {
	return s.UpdateConfig(caller, msg)
}

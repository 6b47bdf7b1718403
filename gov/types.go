package gov

import (
	"encoding/json"

	"github.com/meridian-protocol/meridian/lib"
)

/* types.go contains the persisted record types of the governance module */

// Config holds the adjustable governance parameters
// mutable only through an authorized UpdateConfig call (owner, or an executed self-targeting poll)
type Config struct {
	_               struct{}     `cbor:",toarray"`
	Owner           lib.HexBytes `json:"owner"`           // the principal allowed to update this configuration
	StakingAsset    lib.HexBytes `json:"stakingAsset"`    // the external fungible-asset contract whose deposits carry stake and poll deposits
	Treasury        lib.HexBytes `json:"treasury"`        // the protocol sink that receives forfeited poll deposits
	Quorum          uint64       `json:"quorum"`          // fixed-point numerator over lib.FractionDenominator; minimum participating fraction of total share
	Threshold       uint64       `json:"threshold"`       // fixed-point numerator over lib.FractionDenominator; minimum yes fraction of participating weight
	VotingPeriod    uint64       `json:"votingPeriod"`    // the number of heights a poll stays open for voting
	ProposalDeposit uint64       `json:"proposalDeposit"` // the exact asset amount a poll creation must deposit
}

// GlobalState is the aggregate accounting record of the module
type GlobalState struct {
	_            struct{}     `cbor:",toarray"`
	Address      lib.HexBytes `json:"address"`      // this module's own contract address on the host ledger
	PollCount    uint64       `json:"pollCount"`    // monotonically increasing poll id counter
	TotalShare   uint64       `json:"totalShare"`   // sum of all stakers' share at all times
	TotalDeposit uint64       `json:"totalDeposit"` // sum of deposits currently locked in open polls
}

// StakerAccount is the per-staker record of staked share and the locks held against it
type StakerAccount struct {
	_                 struct{}          `cbor:",toarray"`
	Address           lib.HexBytes      `json:"address"`           // the staker address
	Share             uint64            `json:"share"`             // the staker's total staked balance
	LockedShares      map[uint64]uint64 `json:"lockedShares"`      // poll id -> share locked behind that poll's vote
	ParticipatedPolls []uint64          `json:"participatedPolls"` // every poll id the staker has ever voted on
}

// Poll is a single governance proposal instance with its own voting window, tally, and optional executable action
type Poll struct {
	_               struct{}                `cbor:",toarray"`
	Id              uint64                  `json:"id"`
	Creator         lib.HexBytes            `json:"creator"`
	Status          PollStatus              `json:"status"`
	YesVotes        uint64                  `json:"yesVotes"`
	NoVotes         uint64                  `json:"noVotes"`
	Voters          map[string]*VoteReceipt `json:"voters"` // hex voter address -> the immutable recorded vote
	EndHeight       uint64                  `json:"endHeight"`
	Description     string                  `json:"description"`
	ExecuteData     *ExecuteData            `json:"executeData,omitempty"` // optional; consumed exactly once after passing
	DepositAmount   uint64                  `json:"depositAmount"`
	TotalShareAtEnd uint64                  `json:"totalShareAtEnd"` // the quorum base recorded at close time
}

// VoteReceipt is an immutable recorded vote; a staker may cast at most one per poll
type VoteReceipt struct {
	_      struct{}   `cbor:",toarray"`
	Option VoteOption `json:"option"`
	Share  uint64     `json:"share"`
}

// ExecuteData is the arbitrary sub-call a passed poll dispatches
// the payload is opaque to this module; it is deserialized and authorized entirely by the receiving contract
type ExecuteData struct {
	_       struct{}     `cbor:",toarray"`
	Target  lib.HexBytes `json:"target"`
	Payload lib.HexBytes `json:"payload"`
}

// AssetTransfer is the payload dispatched to the staking asset contract to move tokens out of the module
type AssetTransfer struct {
	_         struct{}     `cbor:",toarray"`
	Recipient lib.HexBytes `json:"recipient"`
	Amount    uint64       `json:"amount"`
}

// PollStatus is the lifecycle state of a poll
// transitions are monotonic and one-directional: InProgress -> {Passed, Rejected}; Passed -> Executed
type PollStatus uint32

const (
	PollStatusUnknown PollStatus = iota
	PollStatusInProgress
	PollStatusPassed
	PollStatusRejected
	PollStatusExecuted
)

var pollStatusToString = map[PollStatus]string{
	PollStatusInProgress: "in_progress",
	PollStatusPassed:     "passed",
	PollStatusRejected:   "rejected",
	PollStatusExecuted:   "executed",
}

var pollStatusFromString = map[string]PollStatus{
	"in_progress": PollStatusInProgress,
	"passed":      PollStatusPassed,
	"rejected":    PollStatusRejected,
	"executed":    PollStatusExecuted,
}

func (p PollStatus) String() string {
	if s, ok := pollStatusToString[p]; ok {
		return s
	}
	return "unknown"
}

func (p PollStatus) MarshalJSON() ([]byte, error) { return json.Marshal(p.String()) }

func (p *PollStatus) UnmarshalJSON(b []byte) (err error) {
	var s string
	if err = json.Unmarshal(b, &s); err != nil {
		return
	}
	*p = pollStatusFromString[s]
	return
}

// ParsePollStatus() converts a status string into a PollStatus
func ParsePollStatus(s string) (PollStatus, lib.ErrorI) {
	status, ok := pollStatusFromString[s]
	if !ok {
		return PollStatusUnknown, ErrUnknownPollStatus(s)
	}
	return status, nil
}

// VoteOption is the choice of a single vote
type VoteOption uint32

const (
	VoteUnknown VoteOption = iota
	VoteYes
	VoteNo
)

func (v VoteOption) String() string {
	switch v {
	case VoteYes:
		return "yes"
	case VoteNo:
		return "no"
	default:
		return "unknown"
	}
}

func (v VoteOption) MarshalJSON() ([]byte, error) { return json.Marshal(v.String()) }

func (v *VoteOption) UnmarshalJSON(b []byte) (err error) {
	var s string
	if err = json.Unmarshal(b, &s); err != nil {
		return
	}
	switch s {
	case "yes":
		*v = VoteYes
	case "no":
		*v = VoteNo
	default:
		*v = VoteUnknown
	}
	return
}

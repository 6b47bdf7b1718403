package gov

import (
	"fmt"

	"github.com/meridian-protocol/meridian/lib"
)

// This file defines error objects for the governance module
// every guard produces a distinct, inspectable error value

func ErrUnauthorized() lib.ErrorI {
	return lib.NewError(lib.CodeUnauthorized, lib.GovModule, "the caller is not the required principal for this call")
}

func ErrPollNotFound(id uint64) lib.ErrorI {
	return lib.NewError(lib.CodePollNotFound, lib.GovModule, fmt.Sprintf("poll %d does not exist", id))
}

func ErrAccountNotFound() lib.ErrorI {
	return lib.NewError(lib.CodeAccountNotFound, lib.GovModule, "the staker account does not exist")
}

func ErrInsufficientStake() lib.ErrorI {
	return lib.NewError(lib.CodeInsufficientStake, lib.GovModule, "the amount exceeds the unlocked staked share")
}

func ErrInsufficientDeposit(required uint64) lib.ErrorI {
	return lib.NewError(lib.CodeInsufficientDeposit, lib.GovModule, fmt.Sprintf("poll creation requires a deposit of exactly %d", required))
}

func ErrAlreadyVoted() lib.ErrorI {
	return lib.NewError(lib.CodeAlreadyVoted, lib.GovModule, "the staker has already voted on this poll")
}

func ErrPollClosed() lib.ErrorI {
	return lib.NewError(lib.CodePollClosed, lib.GovModule, "the poll voting window is closed")
}

func ErrVotingStillOpen() lib.ErrorI {
	return lib.NewError(lib.CodeVotingStillOpen, lib.GovModule, "the poll voting window has not expired")
}

func ErrPollAlreadyClosed() lib.ErrorI {
	return lib.NewError(lib.CodePollAlreadyClosed, lib.GovModule, "the poll is already closed")
}

func ErrPollNotPassed() lib.ErrorI {
	return lib.NewError(lib.CodePollNotPassed, lib.GovModule, "the poll is not in passed status")
}

func ErrNothingToExecute() lib.ErrorI {
	return lib.NewError(lib.CodeNothingToExecute, lib.GovModule, "the poll does not have execute data")
}

func ErrUnknownMessage(msg any) lib.ErrorI {
	return lib.NewError(lib.CodeUnknownMessage, lib.GovModule, fmt.Sprintf("message %T is unknown", msg))
}

func ErrUnknownVoteOption() lib.ErrorI {
	return lib.NewError(lib.CodeUnknownVoteOption, lib.GovModule, "the vote option is unknown")
}

func ErrInvalidDescription() lib.ErrorI {
	return lib.NewError(lib.CodeInvalidDescription, lib.GovModule, fmt.Sprintf("the description must be between %d and %d bytes", MinDescriptionLength, MaxDescriptionLength))
}

func ErrInvalidFraction() lib.ErrorI {
	return lib.NewError(lib.CodeInvalidFraction, lib.GovModule, "the fraction must be between 0 and 1")
}

func ErrInvalidDeposit() lib.ErrorI {
	return lib.NewError(lib.CodeInvalidDeposit, lib.GovModule, "the deposit amount is invalid")
}

func ErrUnknownDepositHook() lib.ErrorI {
	return lib.NewError(lib.CodeUnknownDepositHook, lib.GovModule, "the deposit notification hook is unknown")
}

func ErrNoDispatcher() lib.ErrorI {
	return lib.NewError(lib.CodeNoDispatcher, lib.GovModule, "no dispatch capability is configured")
}

func ErrInvalidGenesis(reason string) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidGenesis, lib.GovModule, fmt.Sprintf("the genesis state is invalid: %s", reason))
}

func ErrInvalidAmount() lib.ErrorI {
	return lib.NewError(lib.CodeInvalidAmount, lib.GovModule, "the amount is invalid")
}

func ErrInvalidKey(key []byte) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidKey, lib.GovModule, fmt.Sprintf("the store key %v is invalid", key))
}

func ErrUnknownPollStatus(s string) lib.ErrorI {
	return lib.NewError(lib.CodeUnknownPollStatus, lib.GovModule, fmt.Sprintf("poll status %s is unknown", s))
}

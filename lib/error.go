package lib

import (
	"fmt"
	"math"
)

type ErrorI interface {
	Code() ErrorCode     // Returns the error code
	Module() ErrorModule // Returns the error module
	error                // Implements the built-in error interface
}

var _ ErrorI = &Error{} // Ensures *Error implements ErrorI

type ErrorCode uint32 // Defines a type for error codes

type ErrorModule string // Defines a type for error modules

type Error struct {
	ECode   ErrorCode   `json:"code"`   // Error code
	EModule ErrorModule `json:"module"` // Error module
	Msg     string      `json:"msg"`    // Error message
}

func NewError(code ErrorCode, module ErrorModule, msg string) *Error {
	// Constructs a new Error instance
	return &Error{ECode: code, EModule: module, Msg: msg}
}

// Code() returns the associated error code
func (p *Error) Code() ErrorCode { return p.ECode }

// Module() returns module field
func (p *Error) Module() ErrorModule { return p.EModule }

// String() calls Error()
func (p *Error) String() string { return p.Error() }

// Error() returns a formatted string including module, code and message
func (p *Error) Error() string {
	return fmt.Sprintf("\nModule:  %s\nCode:    %d\nMessage: %s", p.EModule, p.ECode, p.Msg)
}

const (
	NoCode ErrorCode = math.MaxUint32

	// Main Module
	MainModule ErrorModule = "main"

	// Main Module Error Codes
	CodeInvalidAddress      ErrorCode = 1
	CodeJSONMarshal         ErrorCode = 2
	CodeJSONUnmarshal       ErrorCode = 3
	CodeUnmarshal           ErrorCode = 4
	CodeMarshal             ErrorCode = 5
	CodeStringToBytes       ErrorCode = 6
	CodeWriteFile           ErrorCode = 7
	CodeReadFile            ErrorCode = 8
	CodeInvalidArgument     ErrorCode = 9
	CodeArithmeticOverflow  ErrorCode = 10
	CodeUnknownSchemaVer    ErrorCode = 11
	CodeTruncatedRecord     ErrorCode = 12
	CodeInvalidLogLevel     ErrorCode = 13

	// Store Module
	StoreModule ErrorModule = "store"

	// Store Module Error Codes
	CodeOpenDB          ErrorCode = 1
	CodeCloseDB         ErrorCode = 2
	CodeStoreSet        ErrorCode = 3
	CodeStoreGet        ErrorCode = 4
	CodeStoreDelete     ErrorCode = 5
	CodeStoreIter       ErrorCode = 6
	CodeCommitDB        ErrorCode = 7
	CodeWriteTxn        ErrorCode = 8

	// RPC Module
	RPCModule ErrorModule = "rpc"

	// RPC Module Error Codes
	CodeRPCRequest  ErrorCode = 1
	CodeRPCResponse ErrorCode = 2

	// Governance Module
	GovModule ErrorModule = "gov"

	// Governance Module Error Codes
	CodeUnauthorized        ErrorCode = 1
	CodePollNotFound        ErrorCode = 2
	CodeAccountNotFound     ErrorCode = 3
	CodeInsufficientStake   ErrorCode = 4
	CodeInsufficientDeposit ErrorCode = 5
	CodeAlreadyVoted        ErrorCode = 6
	CodePollClosed          ErrorCode = 7
	CodeVotingStillOpen     ErrorCode = 8
	CodePollAlreadyClosed   ErrorCode = 9
	CodePollNotPassed       ErrorCode = 10
	CodeNothingToExecute    ErrorCode = 11
	CodeUnknownMessage      ErrorCode = 12
	CodeUnknownVoteOption   ErrorCode = 13
	CodeInvalidDescription  ErrorCode = 14
	CodeInvalidFraction     ErrorCode = 15
	CodeInvalidDeposit      ErrorCode = 16
	CodeUnknownDepositHook  ErrorCode = 17
	CodeNoDispatcher        ErrorCode = 18
	CodeInvalidGenesis      ErrorCode = 19
	CodeInvalidAmount       ErrorCode = 20
	CodeInvalidKey          ErrorCode = 21
	CodeUnknownPollStatus   ErrorCode = 22
)

func ErrInvalidAddress() ErrorI {
	return NewError(CodeInvalidAddress, MainModule, "address is invalid")
}

func ErrJSONMarshal(err error) ErrorI {
	return NewError(CodeJSONMarshal, MainModule, fmt.Sprintf("jsonMarshal() failed with err: %s", err.Error()))
}

func ErrJSONUnmarshal(err error) ErrorI {
	return NewError(CodeJSONUnmarshal, MainModule, fmt.Sprintf("jsonUnmarshal() failed with err: %s", err.Error()))
}

func ErrMarshal(err error) ErrorI {
	return NewError(CodeMarshal, MainModule, fmt.Sprintf("marshal() failed with err: %s", err.Error()))
}

func ErrUnmarshal(err error) ErrorI {
	return NewError(CodeUnmarshal, MainModule, fmt.Sprintf("unmarshal() failed with err: %s", err.Error()))
}

func ErrStringToBytes(err error) ErrorI {
	return NewError(CodeStringToBytes, MainModule, fmt.Sprintf("stringToBytes() failed with err: %s", err.Error()))
}

func ErrWriteFile(err error) ErrorI {
	return NewError(CodeWriteFile, MainModule, fmt.Sprintf("writeFile() failed with err: %s", err.Error()))
}

func ErrReadFile(err error) ErrorI {
	return NewError(CodeReadFile, MainModule, fmt.Sprintf("readFile() failed with err: %s", err.Error()))
}

func ErrInvalidArgument() ErrorI {
	return NewError(CodeInvalidArgument, MainModule, "the argument is invalid")
}

func ErrArithmeticOverflow() ErrorI {
	return NewError(CodeArithmeticOverflow, MainModule, "an amount computation overflowed its bound")
}

func ErrUnknownSchemaVersion(version byte) ErrorI {
	return NewError(CodeUnknownSchemaVer, MainModule, fmt.Sprintf("unknown record schema version: %d", version))
}

func ErrTruncatedRecord() ErrorI {
	return NewError(CodeTruncatedRecord, MainModule, "the record is truncated")
}

func ErrInvalidLogLevel(level string) ErrorI {
	return NewError(CodeInvalidLogLevel, MainModule, fmt.Sprintf("log level %s is invalid", level))
}

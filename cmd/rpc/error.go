package rpc

import (
	"fmt"

	"github.com/meridian-protocol/meridian/lib"
)

func ErrRPCRequest(err error) lib.ErrorI {
	return lib.NewError(lib.CodeRPCRequest, lib.RPCModule, fmt.Sprintf("the rpc request failed: %s", err.Error()))
}

func ErrRPCResponse(err error) lib.ErrorI {
	return lib.NewError(lib.CodeRPCResponse, lib.RPCModule, fmt.Sprintf("the rpc response is invalid: %s", err.Error()))
}

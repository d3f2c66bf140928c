package ckb

import (
	"errors"
	"fmt"
)

var (
	// Input collection could not reach the target capacity
	ErrInsufficientFunds = errors.New("insufficient input capacity")

	// Signing preconditions
	ErrKeyLength    = errors.New("private key must be exactly 32 bytes")
	ErrDigestLength = errors.New("signing digest must be exactly 32 bytes")

	// Confirmation outcomes
	ErrTransactionRejected = errors.New("transaction rejected by the network")
	ErrConfirmationTimeout = errors.New("transaction confirmation timed out")

	// Address decoding
	ErrMalformedAddress = errors.New("malformed address")
)

// RPCError carries the node's error payload
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (self *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", self.Code, self.Message)
}

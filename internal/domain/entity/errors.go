package entity

import (
	"errors"
	"fmt"
)

// ErrNoSigner is returned when a transaction is submitted through a client
// that was constructed without a signing key. It is reported before any RPC
// traffic is issued.
var ErrNoSigner = errors.New("no signing key configured")

// InvalidParameterError reports a request field that failed validation before
// any network interaction took place.
type InvalidParameterError struct {
	Field  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Field, e.Reason)
}

// InvalidAddressError reports a string that is not a 0x-prefixed 20-byte hex address.
type InvalidAddressError struct {
	Address string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address %q: must be 0x followed by 40 hex characters", e.Address)
}

// ConnectivityError reports a transport-level failure talking to an RPC
// endpoint or an external API. The underlying error is preserved unchanged.
type ConnectivityError struct {
	Endpoint string
	Err      error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("connectivity failure against %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// ContractCallError reports a contract interaction that reached the chain but
// reverted, returned no data, or produced data that could not be decoded.
type ContractCallError struct {
	Contract string
	Method   string
	Err      error
}

func (e *ContractCallError) Error() string {
	return fmt.Sprintf("contract call %s.%s failed: %v", e.Contract, e.Method, e.Err)
}

func (e *ContractCallError) Unwrap() error { return e.Err }

// UnsupportedProtocolError reports a lookup for a protocol, token or operation
// binding that is not present in the registry for the given chain.
type UnsupportedProtocolError struct {
	ChainID uint64
	Key     string
}

func (e *UnsupportedProtocolError) Error() string {
	return fmt.Sprintf("unsupported protocol %q on chain %d", e.Key, e.ChainID)
}

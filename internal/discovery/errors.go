package discovery

import "errors"

var (
	// ErrNetworkUnavailable means no local route exists to derive a subnet from
	ErrNetworkUnavailable = errors.New("network unavailable")

	// ErrInvalidAddress means a manually supplied address is not a valid IPv4 address
	ErrInvalidAddress = errors.New("invalid address")

	// ErrDeviceNotFound means every candidate on the subnet answered negatively
	ErrDeviceNotFound = errors.New("device not found")
)

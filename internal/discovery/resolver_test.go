package discovery

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverLocalAddress(t *testing.T) {
	// Connecting a UDP socket to loopback sends nothing and always succeeds.
	r := NewResolver("127.0.0.1:9")

	ip, err := r.LocalAddress()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", ip)

	prefix, err := r.LocalSubnetPrefix()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0", prefix)
}

func TestResolverDialFailure(t *testing.T) {
	r := NewResolver("")
	assert.Equal(t, DefaultRouteProbeAddress, r.probeAddress)

	r.dial = func(network, address string) (net.Conn, error) {
		return nil, errors.New("network is unreachable")
	}

	_, err := r.LocalAddress()
	assert.ErrorIs(t, err, ErrNetworkUnavailable)

	_, err = r.LocalSubnetPrefix()
	assert.ErrorIs(t, err, ErrNetworkUnavailable)
}

func failingDial(network, address string) (net.Conn, error) {
	return nil, errors.New("network is unreachable")
}

package discovery

import (
	"fmt"
	"net"

	"github.com/bvget/bv-downloader/internal/model"
)

// DefaultRouteProbeAddress is a public address used only to make the OS pick
// an outbound route. Connecting a UDP socket sends no packets.
const DefaultRouteProbeAddress = "8.8.8.8:65530"

// Resolver determines the host's outbound IPv4 address
type Resolver struct {
	probeAddress string
	dial         func(network, address string) (net.Conn, error)
}

// NewResolver creates a resolver that routes toward probeAddress
func NewResolver(probeAddress string) *Resolver {
	if probeAddress == "" {
		probeAddress = DefaultRouteProbeAddress
	}
	return &Resolver{
		probeAddress: probeAddress,
		dial:         net.Dial,
	}
}

// LocalAddress returns the local address the OS binds for outbound traffic
func (r *Resolver) LocalAddress() (model.HostAddress, error) {
	conn, err := r.dial("udp4", r.probeAddress)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	}
	defer conn.Close()

	udpAddr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || udpAddr.IP.To4() == nil {
		return "", fmt.Errorf("%w: no IPv4 address bound for %s", ErrNetworkUnavailable, r.probeAddress)
	}

	return udpAddr.IP.To4().String(), nil
}

// LocalSubnetPrefix returns the first three octets of LocalAddress
func (r *Resolver) LocalSubnetPrefix() (string, error) {
	ip, err := r.LocalAddress()
	if err != nil {
		return "", err
	}
	return SubnetPrefix(ip)
}

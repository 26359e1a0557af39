package discovery

import (
	"fmt"
	"net/netip"
	"strings"
)

// ValidateIPv4 checks that addr is a dotted-quad IPv4 address: four decimal
// octets in 0..255. Returns an error wrapping ErrInvalidAddress otherwise.
func ValidateIPv4(addr string) error {
	if addr == "" {
		return fmt.Errorf("%w: address must not be empty", ErrInvalidAddress)
	}
	if strings.Count(addr, ".") != 3 {
		return fmt.Errorf("%w: %q must have four octets", ErrInvalidAddress, addr)
	}

	parsed, err := netip.ParseAddr(addr)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidAddress, addr, err)
	}
	if !parsed.Is4() {
		return fmt.Errorf("%w: %q is not IPv4", ErrInvalidAddress, addr)
	}
	return nil
}

// SubnetPrefix returns the first three octets of an IPv4 address
func SubnetPrefix(ip string) (string, error) {
	if err := ValidateIPv4(ip); err != nil {
		return "", err
	}
	return ip[:strings.LastIndex(ip, ".")], nil
}

package model

import (
	"fmt"
	"time"
)

// SubnetSize is the number of candidate last octets probed on a /24 (0..254)
const SubnetSize = 255

// HostAddress is a dotted-quad IPv4 address string
type HostAddress = string

// ScanTarget is one candidate address on the scanned subnet
type ScanTarget struct {
	Prefix string // first three octets, e.g. "192.168.1"
	Octet  int    // candidate last octet, 0..254
}

// Address returns the dotted-quad address of the target
func (t ScanTarget) Address() HostAddress {
	return fmt.Sprintf("%s.%d", t.Prefix, t.Octet)
}

// DiscoveredDevice is the first device that answered a probe positively.
// At most one exists per scan session.
type DiscoveredDevice struct {
	IP      HostAddress `json:"ip" yaml:"ip"`
	FoundAt time.Time   `json:"found_at" yaml:"found_at"`
	Manual  bool        `json:"manual" yaml:"manual"` // entered by the user rather than scanned
}

// ScanProgress is emitted once per completed probe
type ScanProgress struct {
	Completed int
	Total     int
	Target    ScanTarget
	Positive  bool
}

// String returns the "completed/total" progress form
func (p ScanProgress) String() string {
	return fmt.Sprintf("%d/%d", p.Completed, p.Total)
}

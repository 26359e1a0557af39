package discovery

// Package discovery finds the dash camera on the local /24: it resolves the
// host's outbound IPv4 address, probes every candidate on the subnet
// concurrently, and accepts the first positive answer. A manually entered
// address can bypass the scan after IPv4 validation.

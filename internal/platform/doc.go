package platform

// Package platform contains OS integration glue: default download locations,
// write-once file placement, and revealing files in the system file manager.

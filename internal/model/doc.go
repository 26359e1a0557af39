package model

// Package model defines domain data structures shared by the discovery,
// catalog and download stages: discovered devices, recording entries and the
// ordered catalog, download tasks, and status enums with explicit state
// transitions.

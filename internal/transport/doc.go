package transport

// Package transport holds the HTTP plumbing shared by discovery, catalog and
// download: the Doer abstraction, client construction and the device's
// well-known URLs.

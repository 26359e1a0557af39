package cli

// Package cli is the bvget command line: cobra commands for discovery,
// listing, downloading and showing settings, wired to the core packages
// through the ui Console and a table/json/yaml output formatter.

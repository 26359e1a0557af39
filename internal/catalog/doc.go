package catalog

// Package catalog retrieves the device's recording manifest over HTTP and
// parses it into an ordered model.Catalog. Entries are produced one at a
// time in manifest order so a presentation layer can render them as they
// arrive.

package ui

// Package ui contains the terminal presentation layer. It consumes the status
// streams of discovery, catalog retrieval and downloads and renders them as
// localized status lines, coloured recording labels, and a progress bar.
// All UI strings are localized via Localization.

package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (symbols)
const (
	IconSearch   = "⌕"
	IconDevice   = "◉"
	IconDownload = "↓"
	IconDone     = "✓"
	IconSkipped  = "="
	IconError    = "✗"
	IconCancel   = "×"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
	SizeSeparator      = " / "
)

// Terminal control sequences
const (
	CarriageReturn = "\r"
	ClearLine      = "\x1b[K"
)

// Layout sizing
const (
	ProgressBarWidth   = 30
	TypeLabelWidth     = 7 // "Parking"
	PositionLabelWidth = 7 // "Unknown"
)

// Debounce durations
const (
	// Interactive terminals redraw the progress line in place
	InteractiveUpdateDebounce = 100 * time.Millisecond
	// Logs and pipes get a new line at most this often
	PlainUpdateDebounce = 2 * time.Second
)

package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/bvget/bv-downloader/internal/model"
)

// ANSI colours used across the terminal UI
const (
	ColorGreen    = lipgloss.Color("2")
	ColorRed      = lipgloss.Color("1")
	ColorDarkGray = lipgloss.Color("8") // black is unreadable on dark terminals
	ColorYellow   = lipgloss.Color("3")
	ColorBlue     = lipgloss.Color("4")
	ColorWhite    = lipgloss.Color("15")
	ColorDim      = lipgloss.Color("241")
)

var recordingTypeColors = map[model.RecordingType]lipgloss.Color{
	model.RecordingTypeNormal:  ColorGreen,
	model.RecordingTypeEvent:   ColorRed,
	model.RecordingTypeParking: ColorDarkGray,
	model.RecordingTypeManual:  ColorYellow,
}

var cameraPositionColors = map[model.CameraPosition]lipgloss.Color{
	model.CameraPositionFront: ColorBlue,
	model.CameraPositionRear:  ColorWhite,
}

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	successStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorDim)

	fileNameStyle = lipgloss.NewStyle().
			Bold(true)
)

// RecordingTypeColor returns the colour of a recording type, or the dim colour for Unknown
func RecordingTypeColor(t model.RecordingType) lipgloss.Color {
	if c, ok := recordingTypeColors[t]; ok {
		return c
	}
	return ColorDim
}

// CameraPositionColor returns the colour of a camera position, or the dim colour for Unknown
func CameraPositionColor(p model.CameraPosition) lipgloss.Color {
	if c, ok := cameraPositionColors[p]; ok {
		return c
	}
	return ColorDim
}

// StyleRecordingType renders t padded to a fixed width in its colour
func StyleRecordingType(t model.RecordingType) string {
	label := fmt.Sprintf("%-*s", TypeLabelWidth, t)
	return lipgloss.NewStyle().Foreground(RecordingTypeColor(t)).Render(label)
}

// StyleCameraPosition renders p padded to a fixed width in its colour
func StyleCameraPosition(p model.CameraPosition) string {
	label := fmt.Sprintf("%-*s", PositionLabelWidth, p)
	return lipgloss.NewStyle().Foreground(CameraPositionColor(p)).Render(label)
}

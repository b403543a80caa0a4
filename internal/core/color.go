package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// Scene roles used by the runner renderer.
const (
	ColorGrid  = ColorGray
	ColorTile  = ColorBrightCyan
	ColorShip  = ColorBrightYellow
	ColorHUD   = ColorBrightWhite
	ColorHeart = ColorBrightRed
)

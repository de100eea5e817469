package core

// Color is a foreground/background pair for a screen cell, named after what
// it is used for. The platform maps each to ANSI 256-color codes.
type Color uint8

const (
	ColorDefault Color = iota
	ColorDirt
	ColorWood
	ColorCloud
	ColorSpike
	ColorGray
	ColorGrass
	ColorLava
	ColorFinish
	ColorRock
	ColorCyan
	ColorBrick
	ColorPlayer
	ColorBanner
	ColorHUD
	ColorDim
	ColorSky // Empty board cells; styled with the level background
)

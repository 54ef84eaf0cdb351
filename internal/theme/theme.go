// Package theme defines the colors used by the blur window.
package theme

import (
	"image/color"
)

// Theme defines the color palette for the application UI.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window area around the surface
	Foreground color.RGBA

	// Status bar
	StatusBackground color.RGBA
	StatusText       color.RGBA
	StatusDisabled   color.RGBA // Shown for actions that need an image

	// Selection overlay
	Outline      color.RGBA
	HandleFill   color.RGBA
	HandleBorder color.RGBA

	// Toast message
	MessageBackground color.RGBA
	MessageText       color.RGBA

	// Behind transparent pixels
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:              "Default",
		Background:        color.RGBA{243, 244, 246, 255},
		Foreground:        color.RGBA{17, 24, 39, 255},
		StatusBackground:  color.RGBA{229, 231, 235, 255},
		StatusText:        color.RGBA{31, 41, 55, 255},
		StatusDisabled:    color.RGBA{156, 163, 175, 255},
		Outline:           color.RGBA{59, 130, 246, 255},
		HandleFill:        color.RGBA{59, 130, 246, 255},
		HandleBorder:      color.RGBA{255, 255, 255, 255},
		MessageBackground: color.RGBA{0, 0, 0, 200},
		MessageText:       color.RGBA{255, 255, 255, 255},
		CheckerLight:      color.RGBA{220, 220, 220, 255},
		CheckerDark:       color.RGBA{192, 192, 192, 255},
	}
}

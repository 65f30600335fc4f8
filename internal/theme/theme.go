package theme

import (
	"embed"
	"image/color"
)

// EmbeddedThemes holds the themes shipped with the binary.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS

// Theme defines the colours of the editor window and the selection chrome
// drawn around the selected annotation.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window background around the photo
	Foreground color.RGBA // Main text colour

	// Toolbar
	ToolbarBackground      color.RGBA
	ButtonBackground       color.RGBA
	ButtonBackgroundHover  color.RGBA
	ButtonBackgroundActive color.RGBA
	ButtonText             color.RGBA
	ButtonTextActive       color.RGBA
	ButtonBorder           color.RGBA

	// Caption bar and transient messages
	CaptionBackground color.RGBA
	CaptionText       color.RGBA
	ToastBackground   color.RGBA
	ToastText         color.RGBA

	// Selection chrome
	SelectionPrimary   color.RGBA // Dashed box, first dash colour
	SelectionSecondary color.RGBA // Dashed box, alternate dash colour
	HandleFill         color.RGBA
	HandleBorder       color.RGBA

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                   "Default",
		Background:             color.RGBA{220, 220, 220, 255},
		Foreground:             color.RGBA{0, 0, 0, 255},
		ToolbarBackground:      color.RGBA{235, 235, 235, 255},
		ButtonBackground:       color.RGBA{205, 205, 205, 255},
		ButtonBackgroundHover:  color.RGBA{185, 185, 185, 255},
		ButtonBackgroundActive: color.RGBA{59, 130, 246, 255},
		ButtonText:             color.RGBA{0, 0, 0, 255},
		ButtonTextActive:       color.RGBA{255, 255, 255, 255},
		ButtonBorder:           color.RGBA{60, 60, 60, 255},
		CaptionBackground:      color.RGBA{250, 250, 250, 255},
		CaptionText:            color.RGBA{20, 20, 20, 255},
		ToastBackground:        color.RGBA{0, 0, 0, 200},
		ToastText:              color.RGBA{255, 255, 255, 255},
		SelectionPrimary:       color.RGBA{59, 130, 246, 255},
		SelectionSecondary:     color.RGBA{255, 255, 255, 255},
		HandleFill:             color.RGBA{255, 255, 255, 255},
		HandleBorder:           color.RGBA{59, 130, 246, 255},
		CheckerLight:           color.RGBA{220, 220, 220, 255},
		CheckerDark:            color.RGBA{192, 192, 192, 255},
	}
}

package preview

import "image/color"

// PreviewBuilderOption is a functional option applied to a preview during construction via NewPreview.
type PreviewBuilderOption func(*preview)

// WithView sets the initial view point at the middle of the screen and the zoom.
//
// Parameters:
//   - centerX, centerH: the view point (X, Y+Z) shown at the middle of the screen
//   - pixelsPerUnit: screen pixels per world unit; ignored if <= 0
//
// Returns:
//   - PreviewBuilderOption: option function to apply
func WithView(centerX, centerH, pixelsPerUnit float32) PreviewBuilderOption {
	return func(p *preview) {
		p.center = [2]float32{centerX, centerH}
		if pixelsPerUnit > 0 {
			p.pixelsPerUnit = pixelsPerUnit
		}
	}
}

// WithClearColor sets the color Draw fills the screen with before replaying a frame.
//
// Parameters:
//   - c: the background color
//
// Returns:
//   - PreviewBuilderOption: option function to apply
func WithClearColor(c color.Color) PreviewBuilderOption {
	return func(p *preview) {
		if c != nil {
			p.clearColor = c
		}
	}
}

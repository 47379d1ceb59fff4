package material

import (
	"github.com/Carmen-Shannon/oxy-flipbook/common"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithTint is an option builder that sets the RGBA multiplier of the material.
//
// Parameters:
//   - color: the tint as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the tint option to a material
func WithTint(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.tint = color
	}
}

// WithAtlas is an option builder that sets the flipbook texture of the material.
//
// Parameters:
//   - tex: the atlas texture
//
// Returns:
//   - MaterialBuilderOption: a function that applies the atlas option to a material
func WithAtlas(tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		m.atlas = tex
	}
}

// WithBlendMode is an option builder that sets the blend mode of the material.
//
// Parameters:
//   - mode: the blend mode
//
// Returns:
//   - MaterialBuilderOption: a function that applies the blend mode option to a material
func WithBlendMode(mode BlendMode) MaterialBuilderOption {
	return func(m *material) {
		m.blendMode = mode
	}
}

package material

import (
	"github.com/Carmen-Shannon/oxy-flipbook/common"
)

// BlendMode selects how a material's fragments combine with the render target.
type BlendMode int

const (
	// BlendAlpha is standard source-over alpha blending.
	BlendAlpha BlendMode = iota
	// BlendAdditive adds the fragment color to the target, typical for smoke and fire sheets.
	BlendAdditive
)

// String returns the YAML/log name of the blend mode.
func (b BlendMode) String() string {
	switch b {
	case BlendAdditive:
		return "additive"
	default:
		return "alpha"
	}
}

// material is the implementation of the Material interface.
type material struct {
	name      string
	tint      [4]float32
	atlas     *common.ImportedTexture
	blendMode BlendMode
}

// Material defines the interface for a sprite material: the flipbook atlas texture plus
// the surface properties a backend needs to draw it.
//
// A Material carries no backend resources. Each rendering backend keeps its own
// GPU or image state keyed by the Material value.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Tint retrieves the RGBA multiplier applied to every sampled texel.
	//
	// Returns:
	//   - [4]float32: the tint color
	Tint() [4]float32

	// Atlas retrieves the flipbook texture, or nil if none is set.
	//
	// Returns:
	//   - *common.ImportedTexture: the atlas texture, or nil
	Atlas() *common.ImportedTexture

	// BlendMode retrieves how fragments combine with the render target.
	//
	// Returns:
	//   - BlendMode: the blend mode
	BlendMode() BlendMode

	// TintParams returns the GPU uniform for this material's tint.
	//
	// Returns:
	//   - GPUTintParams: the tint uniform
	TintParams() GPUTintParams
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		tint: [4]float32{1, 1, 1, 1},
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Tint() [4]float32 {
	return m.tint
}

func (m *material) Atlas() *common.ImportedTexture {
	return m.atlas
}

func (m *material) BlendMode() BlendMode {
	return m.blendMode
}

func (m *material) TintParams() GPUTintParams {
	return GPUTintParams{Color: m.tint}
}

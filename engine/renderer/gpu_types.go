package renderer

import (
	_ "embed"
	"encoding/binary"
	"math"
	"strings"

	"github.com/Carmen-Shannon/oxy-flipbook/engine/camera"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/material"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/mesh"
)

//go:embed assets/sprite.wgsl
var spriteShaderBody string

// SpriteShaderSource is the complete WGSL module for the sprite pipeline: the shared
// struct definitions from the mesh, material and camera packages followed by the
// sprite entry points.
var SpriteShaderSource = strings.Join([]string{
	mesh.GPUVertexSource,
	material.GPUTintParamsSource,
	camera.GPUCameraUniformSource,
	spriteShaderBody,
}, "\n")

// GPUModelUniformSize is the byte size of a marshalled GPUModelUniform.
const GPUModelUniformSize = 16

// GPUModelUniform is the per-mesh uniform at group 2. Matches the WGSL ModelUniform struct.
type GPUModelUniform struct {
	Translation [3]float32 // offset 0: world translation (vec4<f32>, w unused)
}

// Size returns the size of the marshalled uniform in bytes.
//
// Returns:
//   - int: the uniform size in bytes (16)
func (g *GPUModelUniform) Size() int {
	return GPUModelUniformSize
}

// Marshal serializes the uniform into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUModelUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Translation[i]))
	}
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(1))
	return buf
}

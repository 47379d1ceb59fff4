package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUTintParamsSource is the canonical WGSL definition of the TintParams struct.
// Matches GPUTintParams layout exactly (16 bytes, std430 aligned).
//
//go:embed assets/tint_params.wgsl
var GPUTintParamsSource string

// GPUTintParams is the GPU-aligned uniform multiplied into every sampled atlas texel.
// Size: 16 bytes (one vec4<f32>, std430 aligned).
type GPUTintParams struct {
	Color [4]float32 // offset 0: RGBA multiplier (16 bytes)
}

// Size returns the size of the GPUTintParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUTintParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUTintParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUTintParams) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Color[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Color[3]))
	return buf
}

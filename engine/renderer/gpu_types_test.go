package renderer

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-flipbook/engine/material"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestGPUModelUniformMarshal(t *testing.T) {
	u := GPUModelUniform{Translation: [3]float32{1.5, -2, 30}}
	buf := u.Marshal()
	if len(buf) != GPUModelUniformSize {
		t.Fatalf("got %d bytes, want %d", len(buf), GPUModelUniformSize)
	}
	want := []float32{1.5, -2, 30, 1}
	for i, w := range want {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])); got != w {
			t.Errorf("float %d = %v, want %v", i, got, w)
		}
	}
}

func TestSpriteShaderSource(t *testing.T) {
	for _, want := range []string{
		"struct VertexInput",
		"struct TintParams",
		"struct CameraUniform",
		"struct ModelUniform",
		"fn vs_main",
		"fn fs_main",
	} {
		if !strings.Contains(SpriteShaderSource, want) {
			t.Errorf("sprite shader is missing %q", want)
		}
	}
	if strings.Index(SpriteShaderSource, "struct CameraUniform") > strings.Index(SpriteShaderSource, "var<uniform> camera") {
		t.Error("camera struct must be declared before its binding")
	}
}

func TestSpritePipelines(t *testing.T) {
	tests := []struct {
		mode material.BlendMode
		key  string
	}{
		{material.BlendAlpha, "sprite_alpha"},
		{material.BlendAdditive, "sprite_additive"},
	}
	for _, tt := range tests {
		p := newSpritePipeline(tt.mode)
		if p.PipelineKey() != tt.key || p.BlendMode() != tt.mode {
			t.Errorf("pipeline %q mode %v, want %q mode %v", p.PipelineKey(), p.BlendMode(), tt.key, tt.mode)
		}
		if len(p.VertexLayouts()) != 2 || len(p.BindGroupLayouts()) != 3 {
			t.Errorf("%s: %d vertex layouts, %d bind group layouts", tt.key, len(p.VertexLayouts()), len(p.BindGroupLayouts()))
		}
		if p.Topology() != wgpu.PrimitiveTopologyTriangleList || p.FrontFace() != wgpu.FrontFaceCCW {
			t.Errorf("%s: primitive state %v/%v", tt.key, p.Topology(), p.FrontFace())
		}
	}

	layouts := []struct {
		name    string
		entries int
		want    int
	}{
		{"camera", len(cameraLayout().Entries), 1},
		{"material", len(materialLayout().Entries), 3},
		{"model", len(modelLayout().Entries), 1},
	}
	for _, l := range layouts {
		if l.entries != l.want {
			t.Errorf("%s layout has %d entries, want %d", l.name, l.entries, l.want)
		}
	}
}

func TestRendererOptions(t *testing.T) {
	r := &renderer{atlasSampler: AtlasSampler}
	for _, opt := range []RendererBuilderOption{
		WithMSAA(MSAAOff),
		WithForceSoftwareRenderer(true),
		WithAtlasSampler(PixelArtSampler),
		WithPresentMode(PresentModeUncapped),
	} {
		opt(r)
	}

	if r.pendingMSAA == nil || *r.pendingMSAA != MSAAOff {
		t.Errorf("pendingMSAA = %v, want MSAAOff", r.pendingMSAA)
	}
	if !r.forceFallbackAdapter {
		t.Error("software renderer option not applied")
	}
	if r.atlasSampler.MagFilter != wgpu.FilterModeNearest || r.atlasSampler.AddressModeU != wgpu.AddressModeClampToEdge {
		t.Errorf("atlasSampler = %+v, want PixelArtSampler", r.atlasSampler)
	}
	if r.pendingPresentMode == nil || *r.pendingPresentMode != PresentModeUncapped {
		t.Error("present mode option not applied")
	}
}

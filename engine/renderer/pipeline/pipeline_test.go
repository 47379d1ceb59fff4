package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-flipbook/engine/material"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("sprite")

	if p.VertexEntryPoint() != "vs_main" || p.FragmentEntryPoint() != "fs_main" {
		t.Errorf("entry points %q/%q", p.VertexEntryPoint(), p.FragmentEntryPoint())
	}
	if !p.DepthTestEnabled() || p.DepthWriteEnabled() {
		t.Error("sprites should depth-test without writing depth")
	}
	if p.CullMode() != wgpu.CullModeNone {
		t.Error("billboards are two-sided")
	}
	if p.Topology() != wgpu.PrimitiveTopologyTriangleList || p.FrontFace() != wgpu.FrontFaceCCW {
		t.Error("unexpected primitive state")
	}
	if p.RenderPipeline() != nil {
		t.Error("render pipeline should be nil until registered")
	}
}

func TestPipelineOptions(t *testing.T) {
	p := NewPipeline("custom",
		WithShaderSource("// wgsl"),
		WithEntryPoints("v", "f"),
		WithDepthTestEnabled(false),
		WithDepthWriteEnabled(true),
		WithCullMode(wgpu.CullModeBack),
		WithWriteMask(wgpu.ColorWriteMaskRed),
	)
	if p.ShaderSource() != "// wgsl" || p.VertexEntryPoint() != "v" || p.FragmentEntryPoint() != "f" {
		t.Error("shader options not applied")
	}
	if p.DepthTestEnabled() || !p.DepthWriteEnabled() || p.CullMode() != wgpu.CullModeBack || p.WriteMask() != wgpu.ColorWriteMaskRed {
		t.Error("state options not applied")
	}
}

func TestBlendState(t *testing.T) {
	tests := []struct {
		mode    material.BlendMode
		dstRGB  wgpu.BlendFactor
		srcRGB  wgpu.BlendFactor
		comment string
	}{
		{material.BlendAlpha, wgpu.BlendFactorOneMinusSrcAlpha, wgpu.BlendFactorSrcAlpha, "source over"},
		{material.BlendAdditive, wgpu.BlendFactorOne, wgpu.BlendFactorSrcAlpha, "additive"},
	}
	for _, tt := range tests {
		bs := NewPipeline("p", WithBlendMode(tt.mode)).BlendState()
		if bs.Color.SrcFactor != tt.srcRGB || bs.Color.DstFactor != tt.dstRGB {
			t.Errorf("%s: color factors %v/%v", tt.comment, bs.Color.SrcFactor, bs.Color.DstFactor)
		}
		if bs.Color.Operation != wgpu.BlendOperationAdd {
			t.Errorf("%s: color operation %v", tt.comment, bs.Color.Operation)
		}
	}
}

package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-flipbook/common"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/camera"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/material"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/mesh"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// Bind group numbers of the sprite pipeline.
const (
	GroupCamera   = 0
	GroupMaterial = 1
	GroupModel    = 2
)

// Bindings inside GroupMaterial.
const (
	BindingAtlas   = 0
	BindingSampler = 1
	BindingTint    = 2
)

// meshResources tracks what the GPU currently holds for one mesh.
type meshResources struct {
	provider    bind_group_provider.BindGroupProvider
	vertexCount int
	indexCount  int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	pipelineCache   map[material.BlendMode]pipeline.Pipeline
	cameraProvider  bind_group_provider.BindGroupProvider
	meshes          map[mesh.Mesh]*meshResources
	materials       map[material.Material]bind_group_provider.BindGroupProvider
	defaultMaterial material.Material

	// Layouts shared by every mesh and material provider; owned by the renderer.
	modelLayout    *wgpu.BindGroupLayout
	materialLayout *wgpu.BindGroupLayout

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	pendingClearColor    *[4]float64
	atlasSampler         SamplerStagingData
}

// Renderer is the WebGPU rendering backend for flipbook sequences.
//
// It uploads meshes into separate position, UV and index buffers so a flipbook tick only
// rewrites the UV stream, keeps one bind group per material (atlas, sampler, tint) and one
// per mesh (world translation), and draws everything through a single sprite pipeline per
// blend mode. Renderer implements mesh.Uploader and scene.Drawer.
// Safe for concurrent use by one tick goroutine and one render goroutine.
type Renderer interface {
	// Upload writes a mesh's dirty buffers to the GPU. A mesh the renderer has never seen, or whose
	// vertex or index count changed, gets fresh buffers filled with all of its data.
	// Meshes with no vertices or no indices are skipped.
	//
	// Parameters:
	//   - m: the mesh to upload
	//
	// Returns:
	//   - error: an error if any buffer could not be created or written
	Upload(m mesh.Mesh) error

	// Forget releases the GPU buffers held for a mesh. It is a no-op for meshes never uploaded.
	//
	// Parameters:
	//   - m: the mesh to forget
	Forget(m mesh.Mesh)

	// RegisterMaterial decodes a material's atlas and creates its texture, sampler and tint uniform.
	// Materials that are already registered are skipped. A material without an atlas samples a
	// single white texel, so it renders as its tint.
	//
	// Parameters:
	//   - mat: the material to register
	//
	// Returns:
	//   - error: an error if the atlas could not be decoded or any GPU resource could not be created
	RegisterMaterial(mat material.Material) error

	// SetCamera uploads the camera's view-projection matrix and eye position.
	//
	// Parameters:
	//   - cam: the camera to render from
	//
	// Returns:
	//   - error: an error if the camera uniform could not be written
	SetCamera(cam camera.Camera) error

	// Resize reconfigures the surface and its attachments for a new framebuffer size.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// SetPresentMode changes the present mode, applied on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Pipeline returns the sprite pipeline used for a blend mode, or nil.
	//
	// Parameters:
	//   - mode: the blend mode
	//
	// Returns:
	//   - pipeline.Pipeline: the cached pipeline or nil
	Pipeline(mode material.BlendMode) pipeline.Pipeline

	// BeginFrame acquires the next surface texture and opens the render pass.
	//
	// Returns:
	//   - error: an error if the frame could not begin
	BeginFrame() error

	// DrawMesh draws an uploaded mesh with a material at a world translation. A nil material
	// draws with the default white material. Unregistered materials are registered on first use.
	//
	// Parameters:
	//   - m: a mesh previously passed to Upload
	//   - mat: the material to draw with, may be nil
	//   - position: the world-space translation
	//
	// Returns:
	//   - error: an error if the mesh was never uploaded or the draw could not be encoded
	DrawMesh(m mesh.Mesh, mat material.Material, position [3]float32) error

	// EndFrame ends the render pass and submits the frame.
	EndFrame()

	// Present presents the frame to the window.
	Present()

	// Release frees every mesh, material and pipeline resource and then the GPU device.
	Release()
}

var _ Renderer = &renderer{}
var _ mesh.Forgetter = &renderer{}

// NewRenderer creates a new Renderer for the given window. The GPU adapter and device are
// requested immediately; failures there panic, as the demo cannot continue without them.
//
// Parameters:
//   - win: the window whose surface the renderer draws to
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new Renderer
//   - error: an error if the sprite pipelines or the camera uniform could not be created
func NewRenderer(win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:              &sync.Mutex{},
		backendType:     BackendTypeWGPU,
		pipelineCache:   make(map[material.BlendMode]pipeline.Pipeline),
		meshes:          make(map[mesh.Mesh]*meshResources),
		materials:       make(map[material.Material]bind_group_provider.BindGroupProvider),
		defaultMaterial: material.NewMaterial(material.WithName("default")),
		atlasSampler:    AtlasSampler,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch r.backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingClearColor != nil {
		r.backend.SetClearColor(*r.pendingClearColor)
	}
	r.backend.ConfigureSurface(win.Width(), win.Height())

	for _, mode := range []material.BlendMode{material.BlendAlpha, material.BlendAdditive} {
		p := newSpritePipeline(mode)
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return nil, fmt.Errorf("failed to register %s sprite pipeline: %w", mode, err)
		}
		r.pipelineCache[mode] = p
	}

	var err error
	if r.modelLayout, err = r.backend.CreateBindGroupLayout(modelLayout()); err != nil {
		return nil, fmt.Errorf("failed to create model bind group layout: %w", err)
	}
	if r.materialLayout, err = r.backend.CreateBindGroupLayout(materialLayout()); err != nil {
		return nil, fmt.Errorf("failed to create material bind group layout: %w", err)
	}

	r.cameraProvider = bind_group_provider.NewBindGroupProvider("camera")
	if err := r.backend.InitBindGroup(r.cameraProvider, cameraLayout()); err != nil {
		return nil, fmt.Errorf("failed to create camera bind group: %w", err)
	}
	identity := camera.GPUCameraUniform{}
	common.Identity(identity.ViewProj[:])
	if err := r.writeCamera(identity); err != nil {
		return nil, err
	}

	return r, nil
}

// newSpritePipeline describes the sprite pipeline for one blend mode.
func newSpritePipeline(mode material.BlendMode) pipeline.Pipeline {
	return pipeline.NewPipeline("sprite_"+mode.String(),
		pipeline.WithShaderSource(SpriteShaderSource),
		pipeline.WithBlendMode(mode),
		pipeline.WithTopology(wgpu.PrimitiveTopologyTriangleList),
		pipeline.WithFrontFace(wgpu.FrontFaceCCW),
		pipeline.WithVertexLayouts(
			wgpu.VertexBufferLayout{
				ArrayStride: mesh.PositionStride,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				},
			},
			wgpu.VertexBufferLayout{
				ArrayStride: mesh.UVStride,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1},
				},
			},
		),
		pipeline.WithBindGroupLayouts(cameraLayout(), materialLayout(), modelLayout()),
	)
}

func cameraLayout() wgpu.BindGroupLayoutDescriptor {
	entry := wgpu.BindGroupLayoutEntry{Binding: 0, Visibility: wgpu.ShaderStageVertex}
	entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	entry.Buffer.MinBindingSize = camera.GPUCameraUniformSize
	return wgpu.BindGroupLayoutDescriptor{
		Label:   "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{entry},
	}
}

func materialLayout() wgpu.BindGroupLayoutDescriptor {
	atlas := wgpu.BindGroupLayoutEntry{Binding: BindingAtlas, Visibility: wgpu.ShaderStageFragment}
	atlas.Texture.SampleType = wgpu.TextureSampleTypeFloat
	atlas.Texture.ViewDimension = wgpu.TextureViewDimension2D

	samp := wgpu.BindGroupLayoutEntry{Binding: BindingSampler, Visibility: wgpu.ShaderStageFragment}
	samp.Sampler.Type = wgpu.SamplerBindingTypeFiltering

	tint := wgpu.BindGroupLayoutEntry{Binding: BindingTint, Visibility: wgpu.ShaderStageFragment}
	tint.Buffer.Type = wgpu.BufferBindingTypeUniform
	tint.Buffer.MinBindingSize = uint64((&material.GPUTintParams{}).Size())

	return wgpu.BindGroupLayoutDescriptor{
		Label:   "Material Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{atlas, samp, tint},
	}
}

func modelLayout() wgpu.BindGroupLayoutDescriptor {
	entry := wgpu.BindGroupLayoutEntry{Binding: 0, Visibility: wgpu.ShaderStageVertex}
	entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	entry.Buffer.MinBindingSize = GPUModelUniformSize
	return wgpu.BindGroupLayoutDescriptor{
		Label:   "Model Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{entry},
	}
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(mode material.BlendMode) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[mode]
}

func (r *renderer) Upload(m mesh.Mesh) error {
	if m == nil {
		return errors.New("cannot upload a nil mesh")
	}
	if m.VertexCount() == 0 || m.IndexCount() == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.meshes[m]
	if !ok {
		res = &meshResources{provider: bind_group_provider.NewBindGroupProvider("mesh:"+m.Name(),
			bind_group_provider.WithBindGroupLayout(r.modelLayout),
		)}
		if err := r.backend.InitBindGroup(res.provider, modelLayout()); err != nil {
			res.provider.Release()
			return fmt.Errorf("mesh %q: failed to create model bind group: %w", m.Name(), err)
		}
		r.meshes[m] = res
	}

	if !ok || res.vertexCount != m.VertexCount() || res.indexCount != m.IndexCount() {
		if err := r.backend.InitMeshBuffers(res.provider, m.PositionData(), m.UVData(), m.IndexData(), m.IndexCount()); err != nil {
			return fmt.Errorf("mesh %q: failed to create buffers: %w", m.Name(), err)
		}
		res.vertexCount = m.VertexCount()
		res.indexCount = m.IndexCount()
		return nil
	}

	dirty := m.Dirty()
	writes := make([]bind_group_provider.BufferWrite, 0, 3)
	if dirty.Has(mesh.DirtyPositions) {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: res.provider,
			Target:   bind_group_provider.BufferTargetVertex,
			Binding:  bind_group_provider.VertexSlotPosition,
			Data:     m.PositionData(),
		})
	}
	if dirty.Has(mesh.DirtyUVs) {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: res.provider,
			Target:   bind_group_provider.BufferTargetVertex,
			Binding:  bind_group_provider.VertexSlotUV,
			Data:     m.UVData(),
		})
	}
	if dirty.Has(mesh.DirtyIndices) {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: res.provider,
			Target:   bind_group_provider.BufferTargetIndex,
			Data:     m.IndexData(),
		})
	}
	if len(writes) == 0 {
		return nil
	}
	if err := r.backend.WriteBuffers(writes); err != nil {
		return fmt.Errorf("mesh %q: %w", m.Name(), err)
	}
	return nil
}

func (r *renderer) Forget(m mesh.Mesh) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res, ok := r.meshes[m]; ok {
		res.provider.Release()
		delete(r.meshes, m)
	}
}

func (r *renderer) RegisterMaterial(mat material.Material) error {
	if mat == nil {
		return errors.New("cannot register a nil material")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.materialProvider(mat)
	return err
}

// materialProvider returns the bind group provider of mat, creating it on first use.
// Caller must hold the mutex.
func (r *renderer) materialProvider(mat material.Material) (bind_group_provider.BindGroupProvider, error) {
	if p, ok := r.materials[mat]; ok {
		return p, nil
	}

	staging := common.TextureStagingData{Pixels: []byte{255, 255, 255, 255}, Width: 1, Height: 1}
	if atlas := mat.Atlas(); atlas != nil {
		decoded, err := atlas.Decode()
		if err != nil {
			return nil, fmt.Errorf("material %q: failed to decode atlas: %w", mat.Name(), err)
		}
		staging = decoded
	}

	p := bind_group_provider.NewBindGroupProvider("material:"+mat.Name(),
		bind_group_provider.WithBindGroupLayout(r.materialLayout),
	)
	if err := r.backend.InitTextureView(p, BindingAtlas, staging); err != nil {
		p.Release()
		return nil, fmt.Errorf("material %q: failed to create atlas texture: %w", mat.Name(), err)
	}
	if err := r.backend.InitSampler(p, BindingSampler, r.atlasSampler); err != nil {
		p.Release()
		return nil, fmt.Errorf("material %q: failed to create sampler: %w", mat.Name(), err)
	}
	if err := r.backend.InitBindGroup(p, materialLayout()); err != nil {
		p.Release()
		return nil, fmt.Errorf("material %q: failed to create bind group: %w", mat.Name(), err)
	}
	tint := mat.TintParams()
	if err := r.backend.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: p,
		Target:   bind_group_provider.BufferTargetUniform,
		Binding:  BindingTint,
		Data:     tint.Marshal(),
	}}); err != nil {
		p.Release()
		return nil, fmt.Errorf("material %q: %w", mat.Name(), err)
	}

	r.materials[mat] = p
	return p, nil
}

func (r *renderer) SetCamera(cam camera.Camera) error {
	if cam == nil {
		return errors.New("cannot render from a nil camera")
	}
	return r.writeCamera(cam.Uniform())
}

func (r *renderer) writeCamera(u camera.GPUCameraUniform) error {
	if err := r.backend.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: r.cameraProvider,
		Target:   bind_group_provider.BufferTargetUniform,
		Binding:  0,
		Data:     u.Marshal(),
	}}); err != nil {
		return fmt.Errorf("failed to write camera uniform: %w", err)
	}
	return nil
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawMesh(m mesh.Mesh, mat material.Material, position [3]float32) error {
	if m == nil {
		return errors.New("cannot draw a nil mesh")
	}
	if mat == nil {
		mat = r.defaultMaterial
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.meshes[m]
	if !ok {
		return fmt.Errorf("mesh %q was never uploaded", m.Name())
	}
	matProvider, err := r.materialProvider(mat)
	if err != nil {
		return err
	}
	p, ok := r.pipelineCache[mat.BlendMode()]
	if !ok {
		return fmt.Errorf("no sprite pipeline for blend mode %s", mat.BlendMode())
	}

	model := GPUModelUniform{Translation: position}
	if err := r.backend.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: res.provider,
		Target:   bind_group_provider.BufferTargetUniform,
		Binding:  0,
		Data:     model.Marshal(),
	}}); err != nil {
		return fmt.Errorf("mesh %q: %w", m.Name(), err)
	}

	return r.backend.DrawCall(p, res.provider, []bind_group_provider.BindGroupProvider{
		r.cameraProvider,
		matProvider,
		res.provider,
	})
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for m, res := range r.meshes {
		res.provider.Release()
		delete(r.meshes, m)
	}
	for mat, p := range r.materials {
		p.Release()
		delete(r.materials, mat)
	}
	if r.cameraProvider != nil {
		r.cameraProvider.Release()
		r.cameraProvider = nil
	}
	for mode, p := range r.pipelineCache {
		if rp := p.RenderPipeline(); rp != nil {
			rp.Release()
		}
		delete(r.pipelineCache, mode)
	}
	for _, layout := range []*wgpu.BindGroupLayout{r.modelLayout, r.materialLayout} {
		if layout != nil {
			layout.Release()
		}
	}
	r.modelLayout, r.materialLayout = nil, nil
	r.backend.Release()
}

package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Carmen-Shannon/oxy-flipbook/engine/material"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/mesh"
)

var (
	// ErrNoFrame is returned by DrawMesh outside BeginFrame/EndFrame.
	ErrNoFrame = errors.New("no frame in progress")
	// ErrNotUploaded is returned by DrawMesh for a mesh that was never uploaded.
	ErrNotUploaded = errors.New("mesh was never uploaded")
)

// additiveBlend adds source to destination, matching the WebGPU backend's additive pipeline.
var additiveBlend = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorSourceAlpha,
	BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// batch is one DrawTriangles call: vertices in view space with normalized texture coordinates.
type batch struct {
	mat      material.Material
	vertices []ebiten.Vertex
	indices  []uint16
}

// frame collects the batches recorded between BeginFrame and EndFrame.
type frame struct {
	batches []batch
	closed  bool
}

// preview is the implementation of the Preview interface.
type preview struct {
	mu sync.Mutex

	mirrors map[mesh.Mesh]*mirror

	recording *frame
	presented *frame

	images map[material.Material]*ebiten.Image
	white  *ebiten.Image

	pixelsPerUnit float32
	center        [2]float32
	clearColor    color.Color

	scratch []ebiten.Vertex
}

// Preview is an Ebitengine rendering backend that shows uploaded meshes in a flat
// front view: world X runs right and Y+Z runs up. It implements mesh.Uploader and scene.Drawer and records frames the same
// way the WebGPU renderer does; Draw replays the last presented frame onto a screen image.
//
// Upload, DrawMesh and the frame calls may run on a different goroutine from Draw.
type Preview interface {
	// Upload mirrors a mesh's dirty buffers. A mesh the preview has never seen, or whose
	// vertex count changed, is copied in full; otherwise only dirty UVs are rewritten.
	//
	// Parameters:
	//   - m: the mesh to upload
	//
	// Returns:
	//   - error: an error if the mesh buffers are inconsistent or cannot be chunked
	Upload(m mesh.Mesh) error

	// Forget drops the mirror of a mesh.
	//
	// Parameters:
	//   - m: a mesh previously passed to Upload
	Forget(m mesh.Mesh)

	// BeginFrame starts recording a new frame.
	//
	// Returns:
	//   - error: always nil
	BeginFrame() error

	// DrawMesh records one draw of an uploaded mesh at a world position.
	// Consecutive small meshes sharing a material are merged into one batch.
	//
	// Parameters:
	//   - m: the uploaded mesh
	//   - mat: the material to sample; nil draws untextured white
	//   - position: world translation applied to every vertex
	//
	// Returns:
	//   - error: ErrNoFrame or ErrNotUploaded
	DrawMesh(m mesh.Mesh, mat material.Material, position [3]float32) error

	// EndFrame stops recording.
	EndFrame()

	// Present makes the recorded frame the one Draw shows.
	Present()

	// Draw clears the screen and replays the presented frame. Must run on the Ebitengine draw thread.
	//
	// Parameters:
	//   - screen: the destination image
	Draw(screen *ebiten.Image)

	// SetView moves and zooms the top-down view.
	//
	// Parameters:
	//   - centerX, centerH: the view point (X, Y+Z) shown at the middle of the screen
	//   - pixelsPerUnit: zoom; ignored if <= 0
	SetView(centerX, centerH, pixelsPerUnit float32)

	// Batches returns how many DrawTriangles calls the presented frame needs.
	//
	// Returns:
	//   - int: the batch count
	Batches() int
}

var _ Preview = &preview{}
var _ mesh.Forgetter = &preview{}

// NewPreview creates a Preview with the given options.
//
// Parameters:
//   - options: functional options for view and clear color
//
// Returns:
//   - Preview: the new preview backend
func NewPreview(options ...PreviewBuilderOption) Preview {
	p := &preview{
		mirrors:       make(map[mesh.Mesh]*mirror),
		images:        make(map[material.Material]*ebiten.Image),
		pixelsPerUnit: 12,
		clearColor:    color.RGBA{R: 0x10, G: 0x10, B: 0x18, A: 0xff},
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *preview) Upload(m mesh.Mesh) error {
	if m == nil {
		return fmt.Errorf("cannot upload nil mesh")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	mr, ok := p.mirrors[m]
	dirty := m.Dirty()
	if !ok || len(mr.vertices) != m.VertexCount() || dirty.Has(mesh.DirtyPositions) || dirty.Has(mesh.DirtyIndices) {
		next := &mirror{}
		if err := next.rebuild(m); err != nil {
			return err
		}
		p.mirrors[m] = next
		return nil
	}

	if dirty.Has(mesh.DirtyUVs) {
		return mr.writeUVs(m.UVs())
	}
	return nil
}

func (p *preview) Forget(m mesh.Mesh) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.mirrors, m)
}

func (p *preview) BeginFrame() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recording = &frame{}
	return nil
}

func (p *preview) DrawMesh(m mesh.Mesh, mat material.Material, position [3]float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.recording == nil || p.recording.closed {
		return ErrNoFrame
	}
	mr, ok := p.mirrors[m]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotUploaded, m.Name())
	}

	tint := [4]float32{1, 1, 1, 1}
	if mat != nil {
		tint = mat.Tint()
	}

	for c, indices := range mr.chunks {
		src := mr.chunkVertices(c)
		b := p.batchFor(mat, len(src))
		offset := uint16(len(b.vertices))

		for _, v := range src {
			v.DstX += position[0]
			v.DstY += position[1] + position[2]
			v.ColorR, v.ColorG, v.ColorB, v.ColorA = tint[0], tint[1], tint[2], tint[3]
			b.vertices = append(b.vertices, v)
		}
		for _, idx := range indices {
			b.indices = append(b.indices, idx+offset)
		}
	}
	return nil
}

// batchFor returns the batch the next n vertices drawn with mat should join.
// The last batch is reused while the material matches and the vertex window has room.
func (p *preview) batchFor(mat material.Material, n int) *batch {
	batches := p.recording.batches
	if last := len(batches) - 1; last >= 0 && batches[last].mat == mat && len(batches[last].vertices)+n <= MaxChunkVertices {
		return &p.recording.batches[last]
	}
	p.recording.batches = append(batches, batch{mat: mat})
	return &p.recording.batches[len(p.recording.batches)-1]
}

func (p *preview) EndFrame() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.recording != nil {
		p.recording.closed = true
	}
}

func (p *preview) Present() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.recording == nil || !p.recording.closed {
		return
	}
	p.presented = p.recording
	p.recording = nil
}

func (p *preview) Draw(screen *ebiten.Image) {
	p.mu.Lock()
	defer p.mu.Unlock()

	screen.Fill(p.clearColor)
	if p.presented == nil {
		return
	}

	bounds := screen.Bounds()
	halfW := float32(bounds.Dx()) / 2
	halfH := float32(bounds.Dy()) / 2

	for _, b := range p.presented.batches {
		img := p.image(b.mat)
		texW := float32(img.Bounds().Dx())
		texH := float32(img.Bounds().Dy())
		minX := float32(img.Bounds().Min.X)
		minY := float32(img.Bounds().Min.Y)

		p.scratch = p.scratch[:0]
		for _, v := range b.vertices {
			v.DstX, v.DstY = p.project(v.DstX, v.DstY, halfW, halfH)
			v.SrcX = minX + v.SrcX*texW
			v.SrcY = minY + v.SrcY*texH
			p.scratch = append(p.scratch, v)
		}

		op := &ebiten.DrawTrianglesOptions{}
		if b.mat != nil && b.mat.BlendMode() == material.BlendAdditive {
			op.Blend = additiveBlend
		}
		screen.DrawTriangles(p.scratch, b.indices, img, op)
	}
}

// project maps view-space X and height to screen pixels.
func (p *preview) project(x, h, halfW, halfH float32) (float32, float32) {
	return halfW + (x-p.center[0])*p.pixelsPerUnit, halfH - (h-p.center[1])*p.pixelsPerUnit
}

// image returns the ebiten image for a material's atlas, decoding it on first use.
// Materials without an atlas, or whose atlas fails to decode, sample a white texel.
func (p *preview) image(mat material.Material) *ebiten.Image {
	if img, ok := p.images[mat]; ok {
		return img
	}

	img := p.whiteImage()
	if mat != nil && mat.Atlas() != nil {
		decoded, err := mat.Atlas().Image()
		if err != nil {
			log.Printf("preview: material %q atlas: %v", mat.Name(), err)
		} else {
			img = ebiten.NewImageFromImage(decoded)
		}
	}
	p.images[mat] = img
	return img
}

// whiteImage returns the inner pixel of a 3x3 white image so edge filtering stays white.
func (p *preview) whiteImage() *ebiten.Image {
	if p.white == nil {
		base := ebiten.NewImage(3, 3)
		base.Fill(color.White)
		p.white = base.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return p.white
}

func (p *preview) SetView(centerX, centerH, pixelsPerUnit float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.center = [2]float32{centerX, centerH}
	if pixelsPerUnit > 0 {
		p.pixelsPerUnit = pixelsPerUnit
	}
}

func (p *preview) Batches() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.presented == nil {
		return 0
	}
	return len(p.presented.batches)
}

package sequence

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-flipbook/engine/flipbook"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/game_object"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/material"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/mesh"
)

// unbatchedHost gives every sprite its own child object carrying a clone of the prefab quad.
// The animator writes a flat scratch buffer with the prefab slot order; each sprite's window
// is then copied into its own mesh.
type unbatchedHost struct {
	objects []game_object.GameObject
	quads   []mesh.Mesh
	scratch [][2]float32
	anim    flipbook.Animator
}

var _ host = &unbatchedHost{}

func newUnbatchedHost(cfg Config, prefab mesh.Mesh, mat material.Material, root game_object.GameObject) (*unbatchedHost, error) {
	if prefab == nil {
		return nil, &flipbook.ConfigurationError{Field: "spritePrefab", Reason: "is required when useBatching is false"}
	}
	if prefab.VertexCount() != 4 || len(prefab.UVs()) != 4 {
		return nil, &flipbook.ConfigurationError{
			Field:  "spritePrefab",
			Reason: fmt.Sprintf("must be a 4-vertex quad, %q has %d vertices", prefab.Name(), prefab.VertexCount()),
		}
	}

	h := &unbatchedHost{
		objects: make([]game_object.GameObject, cfg.Amount),
		quads:   make([]mesh.Mesh, cfg.Amount),
		scratch: make([][2]float32, cfg.Amount*4),
	}
	quads := make([]flipbook.Quad, cfg.Amount)
	sampler := flipbook.NewSampler(cfg.Seed)
	frames := cfg.Grid.FrameCount()

	for i := range quads {
		pos := sampler.Position(cfg.PositionRange)
		quads[i] = flipbook.Quad{Position: pos, Phase: sampler.Phase(frames)}

		name := fmt.Sprintf("%s/sprite-%d", cfg.Name, i)
		m := prefab.Clone(name)
		copy(h.scratch[i*4:i*4+4], m.UVs())

		obj := game_object.NewGameObject(
			game_object.WithID(uint64(i)),
			game_object.WithName(name),
			game_object.WithMesh(m),
			game_object.WithMaterial(mat),
			game_object.WithPosition(pos[0], pos[1], pos[2]),
		)
		root.AddChild(obj)

		h.objects[i] = obj
		h.quads[i] = m
	}

	h.anim = flipbook.NewAnimator(cfg.Grid, quads, h.scratch, flipbook.WithSlotOrder(flipbook.UnbatchedSlots))
	return h, nil
}

// upload sends each sprite in order and gives up at the first rejected one.
func (h *unbatchedHost) upload(up mesh.Uploader) error {
	for i, m := range h.quads {
		if err := mesh.Flush(up, m); err != nil {
			return fmt.Errorf("sprite %d: %w", i, err)
		}
	}
	return nil
}

// flush uploads every sprite, continuing past failures so no sprite is left a frame behind.
func (h *unbatchedHost) flush(up mesh.Uploader) error {
	var errs []error
	for i, m := range h.quads {
		if err := mesh.Flush(up, m); err != nil {
			errs = append(errs, fmt.Errorf("sprite %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (h *unbatchedHost) advance(up mesh.Uploader) error {
	if len(h.quads) == 0 {
		return nil
	}
	h.anim.Advance()
	for i, m := range h.quads {
		copy(m.UVs(), h.scratch[i*4:i*4+4])
		m.MarkDirty(mesh.DirtyUVs)
	}
	return h.flush(up)
}

func (h *unbatchedHost) animator() flipbook.Animator {
	return h.anim
}

func (h *unbatchedHost) mesh() mesh.Mesh {
	return nil
}

func (h *unbatchedHost) sprites() []game_object.GameObject {
	return h.objects
}

func (h *unbatchedHost) meshes() []mesh.Mesh {
	return h.quads
}

package sequence

import (
	"github.com/Carmen-Shannon/oxy-flipbook/engine/flipbook"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/game_object"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/material"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/mesh"
)

// batchedHost draws every sprite from one merged mesh attached to the sequence root.
// The animator writes straight into the mesh's UV slice.
type batchedHost struct {
	merged mesh.Mesh
	anim   flipbook.Animator
}

var _ host = &batchedHost{}

func newBatchedHost(cfg Config, mat material.Material, root game_object.GameObject) (*batchedHost, error) {
	geo, err := flipbook.BuildGeometry(cfg.Amount, cfg.IndividualScale, cfg.PositionRange, cfg.Grid, flipbook.NewSampler(cfg.Seed))
	if err != nil {
		return nil, err
	}

	merged := mesh.NewMesh(
		mesh.WithName(cfg.Name+"/merged"),
		mesh.WithPositions(geo.Positions),
		mesh.WithIndices(geo.Indices),
		mesh.WithUVs(geo.UVs),
	)
	root.SetMesh(merged)
	root.SetMaterial(mat)

	return &batchedHost{
		merged: merged,
		anim:   flipbook.NewAnimator(cfg.Grid, geo.Quads, merged.UVs()),
	}, nil
}

func (h *batchedHost) upload(up mesh.Uploader) error {
	return h.flush(up)
}

func (h *batchedHost) flush(up mesh.Uploader) error {
	if h.merged.VertexCount() == 0 {
		h.merged.ClearDirty(mesh.DirtyAll)
		return nil
	}
	return mesh.Flush(up, h.merged)
}

func (h *batchedHost) advance(up mesh.Uploader) error {
	if len(h.anim.Quads()) == 0 {
		return nil
	}
	h.anim.Advance()
	h.merged.MarkDirty(mesh.DirtyUVs)
	return h.flush(up)
}

func (h *batchedHost) animator() flipbook.Animator {
	return h.anim
}

func (h *batchedHost) mesh() mesh.Mesh {
	return h.merged
}

func (h *batchedHost) sprites() []game_object.GameObject {
	return nil
}

func (h *batchedHost) meshes() []mesh.Mesh {
	return []mesh.Mesh{h.merged}
}

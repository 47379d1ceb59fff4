package sequence

import (
	"github.com/Carmen-Shannon/oxy-flipbook/engine/flipbook"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/game_object"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/mesh"
)

// host is one sprite strategy. A host is built in full before anything is uploaded, so a
// construction error leaves nothing behind.
type host interface {
	// upload performs the first full upload and stops at the first failure.
	upload(up mesh.Uploader) error

	// flush uploads every dirty mesh the host owns.
	flush(up mesh.Uploader) error

	// advance steps the animator, propagates the new UVs to the host's meshes and flushes them.
	advance(up mesh.Uploader) error

	animator() flipbook.Animator
	mesh() mesh.Mesh
	sprites() []game_object.GameObject

	// meshes lists every mesh the host may have handed to the uploader.
	meshes() []mesh.Mesh
}

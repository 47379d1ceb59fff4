package mesh

import "sync"

// DirtyFlags marks which buffers of a Mesh changed since its last successful upload.
type DirtyFlags uint8

const (
	// DirtyPositions marks the position buffer.
	DirtyPositions DirtyFlags = 1 << iota
	// DirtyIndices marks the index buffer.
	DirtyIndices
	// DirtyUVs marks the UV buffer.
	DirtyUVs

	// DirtyAll marks every buffer. New meshes start fully dirty.
	DirtyAll = DirtyPositions | DirtyIndices | DirtyUVs
)

// Has reports whether every flag in f is set.
func (d DirtyFlags) Has(f DirtyFlags) bool {
	return d&f == f
}

// Uploader transfers mesh buffers to a rendering backend.
// Implementations decide which buffers to write from Mesh.Dirty(). A mesh the backend has
// never seen is always written in full.
type Uploader interface {
	// Upload writes the mesh's dirty buffers to the backend.
	//
	// Parameters:
	//   - m: the mesh to upload
	//
	// Returns:
	//   - error: an error if the backend rejected any buffer
	Upload(m Mesh) error
}

// Flush uploads m and clears its dirty flags if the upload succeeded.
// A failed upload leaves the flags set so the next flush retries with the newest data.
//
// Parameters:
//   - u: the backend uploader
//   - m: the mesh to flush
//
// Returns:
//   - error: the upload error, if any
func Flush(u Uploader, m Mesh) error {
	flags := m.Dirty()
	if err := u.Upload(m); err != nil {
		return err
	}
	m.ClearDirty(flags)
	return nil
}

// Forgetter is implemented by uploaders that hold backend resources per mesh.
type Forgetter interface {
	// Forget releases whatever the backend holds for m. Meshes never uploaded are ignored.
	//
	// Parameters:
	//   - m: the mesh to release
	Forget(m Mesh)
}

// Forget releases the backend resources of every mesh when u also implements Forgetter.
// Nil meshes are skipped.
//
// Parameters:
//   - u: the backend uploader
//   - meshes: the meshes to release
func Forget(u Uploader, meshes ...Mesh) {
	f, ok := u.(Forgetter)
	if !ok {
		return
	}
	for _, m := range meshes {
		if m != nil {
			f.Forget(m)
		}
	}
}

// ReleaseQueue holds meshes that are no longer drawn until the goroutine that draws them
// can release them. The zero value is ready to use and safe for concurrent use.
type ReleaseQueue struct {
	mu      sync.Mutex
	pending []Mesh
}

// Add queues meshes for release. Nil meshes are skipped.
//
// Parameters:
//   - meshes: the meshes to release later
func (q *ReleaseQueue) Add(meshes ...Mesh) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, m := range meshes {
		if m != nil {
			q.pending = append(q.pending, m)
		}
	}
}

// Release forgets every queued mesh on u and empties the queue.
//
// Parameters:
//   - u: the backend uploader that holds the meshes
func (q *ReleaseQueue) Release(u Uploader) {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()
	Forget(u, pending...)
}

// Len returns the number of meshes waiting for release.
func (q *ReleaseQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

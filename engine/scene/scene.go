package scene

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/game_object"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/material"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/mesh"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/sequence"
)

// Drawer is a rendering backend that can draw one mesh at a world position.
// Both the WebGPU renderer and the Ebitengine preview implement it.
type Drawer interface {
	// DrawMesh draws m with mat, translated to position.
	//
	// Parameters:
	//   - m: a mesh previously passed to the backend's Upload
	//   - mat: the material to draw with, may be nil
	//   - position: the world-space translation of the mesh
	//
	// Returns:
	//   - error: an error if the mesh was never uploaded or the draw failed
	DrawMesh(m mesh.Mesh, mat material.Material, position [3]float32) error
}

// Scene manages a collection of Sequences. Tick fans the frame time out to every sequence
// on a worker pool; DrawCalls walks each sequence's object tree and hands every enabled mesh
// to a Drawer. Scenes can be hot-swapped via the Active flag.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for ticking and rendering.
	Active() bool

	// SetActive sets whether this scene is active.
	SetActive(active bool)

	// Count returns the number of sequences in the scene.
	//
	// Returns:
	//   - int: the sequence count
	Count() int

	// Add appends a sequence to the scene. Uninitialized sequences are initialized on the next
	// call to Initialize.
	//
	// Parameters:
	//   - seq: the sequence to add
	Add(seq sequence.Sequence)

	// Get retrieves a sequence by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the sequence name
	//
	// Returns:
	//   - sequence.Sequence: the sequence or nil
	Get(name string) sequence.Sequence

	// Remove removes every sequence with the given name.
	//
	// Parameters:
	//   - name: the sequence name
	Remove(name string)

	// Replace swaps the sequence with the given name for seq, keeping its position in draw order.
	// If no sequence has that name, seq is appended.
	//
	// Parameters:
	//   - name: the name of the sequence to replace
	//   - seq: the new sequence
	Replace(name string, seq sequence.Sequence)

	// Sequences returns a snapshot of the scene's sequences in insertion order.
	//
	// Returns:
	//   - []sequence.Sequence: the sequences
	Sequences() []sequence.Sequence

	// Clear removes all sequences from the scene. Does not release backend resources.
	Clear()

	// Initialize initializes every sequence that is not yet initialized.
	//
	// Returns:
	//   - error: the joined errors of every sequence that failed
	Initialize() error

	// Tick advances every initialized sequence by deltaTime. Each sequence is ticked by exactly
	// one worker task; the call returns once all of them have finished. Failures are logged.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last tick in seconds
	Tick(deltaTime float32)

	// DrawCalls draws every enabled object with a mesh in every initialized sequence.
	// Must be called within a BeginFrame/EndFrame block on the backend.
	//
	// Parameters:
	//   - d: the backend to draw with
	//
	// Returns:
	//   - error: the joined draw errors
	DrawCalls(d Drawer) error

	// Release stops the scene's worker pool.
	Release()
}

type scene struct {
	mu        *sync.RWMutex
	name      string
	active    bool
	sequences []sequence.Sequence

	// tickPool manages a bounded set of reusable goroutines for the parallel tick fan-out.
	// Workers persist across frames, avoiding per-frame goroutine spawn/teardown overhead.
	tickPool    worker.DynamicWorkerPool
	tickWorkers int
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new, inactive Scene.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:          &sync.RWMutex{},
		name:        name,
		tickWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the pool after options so WithTickWorkers can override the default.
	s.tickPool = worker.NewDynamicWorkerPool(s.tickWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sequences)
}

func (s *scene) Add(seq sequence.Sequence) {
	if seq == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences = append(s.sequences, seq)
}

func (s *scene) Get(name string) sequence.Sequence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, seq := range s.sequences {
		if seq.Name() == name {
			return seq
		}
	}
	return nil
}

func (s *scene) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.sequences[:0]
	for _, seq := range s.sequences {
		if seq.Name() != name {
			kept = append(kept, seq)
		}
	}
	clear(s.sequences[len(kept):])
	s.sequences = kept
}

func (s *scene) Replace(name string, seq sequence.Sequence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.sequences {
		if existing.Name() == name {
			s.sequences[i] = seq
			return
		}
	}
	s.sequences = append(s.sequences, seq)
}

func (s *scene) Sequences() []sequence.Sequence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]sequence.Sequence, len(s.sequences))
	copy(out, s.sequences)
	return out
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences = nil
}

func (s *scene) Initialize() error {
	var errs []error
	for _, seq := range s.Sequences() {
		if seq.Initialized() {
			continue
		}
		if err := seq.Initialize(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *scene) Tick(deltaTime float32) {
	sequences := s.Sequences()
	name := s.Name()

	// A WaitGroup provides per-frame barrier sync since pool.Wait() blocks until
	// workers idle-exit which is unsuitable for frame-rate workloads.
	var wg sync.WaitGroup
	for i, seq := range sequences {
		if !seq.Initialized() {
			continue
		}

		wg.Add(1)
		idx := i
		sCap := seq
		s.tickPool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				if err := sCap.Tick(deltaTime); err != nil {
					log.Printf("scene %q: sequence %d tick failed: %v", name, idx, err)
					return nil, err
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (s *scene) DrawCalls(d Drawer) error {
	if d == nil {
		return fmt.Errorf("scene %q has no drawer attached", s.Name())
	}

	var errs []error
	for _, seq := range s.Sequences() {
		root := seq.Root()
		if root == nil {
			continue
		}
		root.Walk(func(obj game_object.GameObject) {
			if !obj.Enabled() || obj.Mesh() == nil || obj.Mesh().IndexCount() == 0 {
				return
			}
			if err := d.DrawMesh(obj.Mesh(), obj.Material(), obj.WorldPosition()); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", obj.Name(), err))
			}
		})
	}
	return errors.Join(errs...)
}

func (s *scene) Release() {
	s.tickPool.Stop()
}

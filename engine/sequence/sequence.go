package sequence

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-flipbook/engine/flipbook"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/game_object"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/material"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/mesh"
)

// sequence is the implementation of the Sequence interface.
type sequence struct {
	cfg      Config
	origin   [3]float32
	material material.Material
	prefab   mesh.Mesh
	uploader mesh.Uploader

	root     game_object.GameObject
	host     host
	throttle throttle
}

// Sequence is a field of flipbook-animated sprites driven by explicit Initialize and Tick calls.
//
// A Sequence is single-writer: Initialize, Tick and Advance must be called from one goroutine.
// Readers on other goroutines may walk Root() for drawing; backends see new UVs through
// their mesh.Uploader, not by reading the meshes directly.
type Sequence interface {
	// Initialize builds the sprites and uploads their meshes in full.
	// Initialization is all-or-nothing: on a configuration error nothing is uploaded and the
	// sequence stays uninitialized.
	//
	// Returns:
	//   - error: a *flipbook.ConfigurationError, a wrapped upload error, ErrNoUploader or ErrAlreadyInitialized
	Initialize() error

	// Tick feeds elapsed frame time into the sequence. Once the speed-scaled accumulator has
	// exceeded TickInterval, the next Tick advances every sprite by one frame, re-uploads the
	// UVs and resets the accumulator to zero.
	//
	// Parameters:
	//   - dt: seconds since the previous tick
	//
	// Returns:
	//   - error: ErrNotInitialized, or a wrapped upload error; phases stay advanced either way
	Tick(dt float32) error

	// Advance steps every sprite by one frame immediately, bypassing the tick accumulator.
	//
	// Returns:
	//   - error: ErrNotInitialized, or a wrapped upload error
	Advance() error

	// Initialized reports whether Initialize has succeeded.
	//
	// Returns:
	//   - bool: true once initialized
	Initialized() bool

	// Name returns the sequence name from its config.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Config returns the settings the sequence was built with.
	//
	// Returns:
	//   - Config: the config
	Config() Config

	// Batched reports whether the sequence uses one merged mesh.
	//
	// Returns:
	//   - bool: true in batched mode
	Batched() bool

	// Amount returns the number of sprites.
	//
	// Returns:
	//   - int: the sprite count
	Amount() int

	// Root returns the anchor object. In batched mode it carries the merged mesh; in unbatched
	// mode its children are the sprites. Nil before Initialize.
	//
	// Returns:
	//   - game_object.GameObject: the anchor or nil
	Root() game_object.GameObject

	// Animator returns the phase owner of the sequence. Nil before Initialize.
	//
	// Returns:
	//   - flipbook.Animator: the animator or nil
	Animator() flipbook.Animator

	// Mesh returns the merged mesh in batched mode, or nil.
	//
	// Returns:
	//   - mesh.Mesh: the merged mesh or nil
	Mesh() mesh.Mesh

	// Sprites returns the per-sprite objects in unbatched mode, or nil.
	//
	// Returns:
	//   - []game_object.GameObject: the sprite objects
	Sprites() []game_object.GameObject
}

var _ Sequence = &sequence{}

// NewSequence creates an uninitialized Sequence. Options are applied over DefaultConfig.
//
// Parameters:
//   - uploader: the backend that receives mesh uploads
//   - options: functional options to configure the sequence
//
// Returns:
//   - Sequence: the new sequence
func NewSequence(uploader mesh.Uploader, options ...SequenceBuilderOption) Sequence {
	s := &sequence{
		cfg:      DefaultConfig(),
		uploader: uploader,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// NewSequenceFromConfig creates an uninitialized Sequence from a config, resolving its
// material and prefab names through lib.
//
// Parameters:
//   - cfg: the sequence config
//   - lib: the resource library
//   - uploader: the backend that receives mesh uploads
//   - options: additional options applied after the config
//
// Returns:
//   - Sequence: the new sequence
//   - error: a *flipbook.ConfigurationError for an unknown resource name
func NewSequenceFromConfig(cfg Config, lib *Library, uploader mesh.Uploader, options ...SequenceBuilderOption) (Sequence, error) {
	mat, err := lib.Material(cfg.Material)
	if err != nil {
		return nil, err
	}
	prefab, err := lib.Prefab(cfg.SpritePrefab)
	if err != nil {
		return nil, err
	}

	opts := append([]SequenceBuilderOption{
		WithConfig(cfg),
		WithMaterial(mat),
		WithSpritePrefab(prefab),
	}, options...)
	return NewSequence(uploader, opts...), nil
}

func (s *sequence) Initialize() error {
	if s.host != nil {
		return ErrAlreadyInitialized
	}
	if s.uploader == nil {
		return ErrNoUploader
	}
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	root := game_object.NewGameObject(
		game_object.WithName(s.cfg.Name),
		game_object.WithPosition(s.origin[0], s.origin[1], s.origin[2]),
	)

	var h host
	var err error
	if s.cfg.UseBatching {
		h, err = newBatchedHost(s.cfg, s.material, root)
	} else {
		h, err = newUnbatchedHost(s.cfg, s.prefab, s.material, root)
	}
	if err != nil {
		return err
	}

	if err := h.upload(s.uploader); err != nil {
		mesh.Forget(s.uploader, h.meshes()...)
		return fmt.Errorf("sequence %q: initial upload failed: %w", s.cfg.Name, err)
	}

	s.root = root
	s.host = h
	s.throttle = throttle{}
	return nil
}

func (s *sequence) Tick(dt float32) error {
	if s.host == nil {
		return ErrNotInitialized
	}
	if !s.throttle.step(dt, s.cfg.AnimSpeed) {
		return nil
	}
	return s.advance()
}

func (s *sequence) Advance() error {
	if s.host == nil {
		return ErrNotInitialized
	}
	return s.advance()
}

func (s *sequence) advance() error {
	if err := s.host.advance(s.uploader); err != nil {
		return fmt.Errorf("sequence %q: uv upload failed: %w", s.cfg.Name, err)
	}
	return nil
}

func (s *sequence) Initialized() bool {
	return s.host != nil
}

func (s *sequence) Name() string {
	return s.cfg.Name
}

func (s *sequence) Config() Config {
	return s.cfg
}

func (s *sequence) Batched() bool {
	return s.cfg.UseBatching
}

func (s *sequence) Amount() int {
	return s.cfg.Amount
}

func (s *sequence) Root() game_object.GameObject {
	return s.root
}

func (s *sequence) Animator() flipbook.Animator {
	if s.host == nil {
		return nil
	}
	return s.host.animator()
}

func (s *sequence) Mesh() mesh.Mesh {
	if s.host == nil {
		return nil
	}
	return s.host.mesh()
}

func (s *sequence) Sprites() []game_object.GameObject {
	if s.host == nil {
		return nil
	}
	return s.host.sprites()
}

package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-flipbook/engine/material"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/mesh"
)

type gameObject struct {
	id       uint64
	name     string
	enabled  atomic.Bool
	mesh     mesh.Mesh
	material material.Material
	position [3]float32
	parent   *gameObject
	children []*gameObject
}

// GameObject defines the interface for a scene entity in a simple parent/child hierarchy.
// An object optionally carries a Mesh and a Material; objects without a mesh act as anchors
// that only contribute their position to their children.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the object's display name.
	//
	// Returns:
	//   - string: the object name
	Name() string

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Mesh returns the Mesh associated with this object, or nil if not set.
	//
	// Returns:
	//   - mesh.Mesh: the associated mesh or nil
	Mesh() mesh.Mesh

	// Material returns the Material associated with this object, or nil if not set.
	//
	// Returns:
	//   - material.Material: the associated material or nil
	Material() material.Material

	// Position returns the object's position relative to its parent.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// WorldPosition returns the object's position with every ancestor's position added.
	//
	// Returns:
	//   - [3]float32: the world-space position
	WorldPosition() [3]float32

	// Parent returns the object's parent, or nil for a root.
	//
	// Returns:
	//   - GameObject: the parent or nil
	Parent() GameObject

	// Children returns the object's direct children in insertion order.
	//
	// Returns:
	//   - []GameObject: the children
	Children() []GameObject

	// ChildCount returns the number of direct children.
	//
	// Returns:
	//   - int: the child count
	ChildCount() int

	// AddChild reparents child under this object. A child that already has a parent is
	// removed from it first.
	//
	// Parameters:
	//   - child: the object to attach
	AddChild(child GameObject)

	// Walk visits this object and all of its descendants depth-first, parents before children.
	//
	// Parameters:
	//   - fn: the visitor
	Walk(fn func(GameObject))

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetMesh assigns a Mesh to this object.
	//
	// Parameters:
	//   - m: the Mesh to associate
	SetMesh(m mesh.Mesh)

	// SetMaterial assigns a Material to this object.
	//
	// Parameters:
	//   - m: the Material to associate
	SetMaterial(m material.Material)

	// SetPosition sets the object's position relative to its parent.
	//
	// Parameters:
	//   - x, y, z: new position components
	SetPosition(x, y, z float32)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
// Objects are enabled unless WithEnabled(false) is passed.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Mesh() mesh.Mesh {
	return g.mesh
}

func (g *gameObject) Material() material.Material {
	return g.material
}

func (g *gameObject) Position() (x, y, z float32) {
	return g.position[0], g.position[1], g.position[2]
}

func (g *gameObject) WorldPosition() [3]float32 {
	pos := g.position
	for p := g.parent; p != nil; p = p.parent {
		pos[0] += p.position[0]
		pos[1] += p.position[1]
		pos[2] += p.position[2]
	}
	return pos
}

func (g *gameObject) Parent() GameObject {
	if g.parent == nil {
		return nil
	}
	return g.parent
}

func (g *gameObject) Children() []GameObject {
	children := make([]GameObject, len(g.children))
	for i, c := range g.children {
		children[i] = c
	}
	return children
}

func (g *gameObject) ChildCount() int {
	return len(g.children)
}

func (g *gameObject) AddChild(child GameObject) {
	c, ok := child.(*gameObject)
	if !ok || c == g {
		return
	}
	if c.parent != nil {
		c.parent.removeChild(c)
	}
	c.parent = g
	g.children = append(g.children, c)
}

func (g *gameObject) removeChild(child *gameObject) {
	for i, c := range g.children {
		if c == child {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return
		}
	}
}

func (g *gameObject) Walk(fn func(GameObject)) {
	fn(g)
	for _, c := range g.children {
		c.Walk(fn)
	}
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetMesh(m mesh.Mesh) {
	g.mesh = m
}

func (g *gameObject) SetMaterial(m material.Material) {
	g.material = m
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.position = [3]float32{x, y, z}
}

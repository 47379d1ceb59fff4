package sequence

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-flipbook/engine/flipbook"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/material"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/mesh"
)

// Library resolves the resource names used in a Config to materials and prefab meshes.
// It is safe for concurrent use.
type Library struct {
	mu        sync.RWMutex
	materials map[string]material.Material
	prefabs   map[string]mesh.Mesh
}

// NewLibrary creates an empty Library.
func NewLibrary() *Library {
	return &Library{
		materials: make(map[string]material.Material),
		prefabs:   make(map[string]mesh.Mesh),
	}
}

// AddMaterial registers m under its name, replacing any previous material of that name.
func (l *Library) AddMaterial(m material.Material) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.materials[m.Name()] = m
}

// AddPrefab registers m under its name, replacing any previous prefab of that name.
func (l *Library) AddPrefab(m mesh.Mesh) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefabs[m.Name()] = m
}

// Material looks up a material by name. An empty name resolves to nil without error.
//
// Parameters:
//   - name: the material name
//
// Returns:
//   - material.Material: the material, or nil for an empty name
//   - error: a *flipbook.ConfigurationError if the name is unknown
func (l *Library) Material(name string) (material.Material, error) {
	if name == "" {
		return nil, nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.materials[name]
	if !ok {
		return nil, &flipbook.ConfigurationError{Field: "material", Reason: fmt.Sprintf("unknown material %q", name)}
	}
	return m, nil
}

// Prefab looks up a prefab mesh by name. An empty name resolves to nil without error.
//
// Parameters:
//   - name: the prefab name
//
// Returns:
//   - mesh.Mesh: the prefab, or nil for an empty name
//   - error: a *flipbook.ConfigurationError if the name is unknown
func (l *Library) Prefab(name string) (mesh.Mesh, error) {
	if name == "" {
		return nil, nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.prefabs[name]
	if !ok {
		return nil, &flipbook.ConfigurationError{Field: "spritePrefab", Reason: fmt.Sprintf("unknown prefab %q", name)}
	}
	return m, nil
}

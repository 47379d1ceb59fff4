package sequence

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-flipbook/engine/flipbook"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/material"
	"github.com/Carmen-Shannon/oxy-flipbook/engine/mesh"
)

func TestLibraryResolve(t *testing.T) {
	lib := NewLibrary()
	mat := material.NewMaterial(material.WithName("smoke"))
	quad := mesh.NewQuad("quad")
	lib.AddMaterial(mat)
	lib.AddPrefab(quad)

	gotMat, err := lib.Material("smoke")
	if err != nil || gotMat != mat {
		t.Errorf("Material(smoke) = %v, %v", gotMat, err)
	}
	gotPrefab, err := lib.Prefab("quad")
	if err != nil || gotPrefab != quad {
		t.Errorf("Prefab(quad) = %v, %v", gotPrefab, err)
	}

	if m, err := lib.Material(""); m != nil || err != nil {
		t.Errorf("empty material name should resolve to nil, got %v, %v", m, err)
	}
	if p, err := lib.Prefab(""); p != nil || err != nil {
		t.Errorf("empty prefab name should resolve to nil, got %v, %v", p, err)
	}
}

func TestLibraryUnknownNames(t *testing.T) {
	lib := NewLibrary()

	_, err := lib.Material("fire")
	var cfgErr *flipbook.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "material" {
		t.Errorf("expected material ConfigurationError, got %v", err)
	}

	_, err = lib.Prefab("billboard")
	if !errors.As(err, &cfgErr) || cfgErr.Field != "spritePrefab" {
		t.Errorf("expected spritePrefab ConfigurationError, got %v", err)
	}
}

// Package collide answers binary collision queries between two posed triangle meshes.
//
// An Oracle turns meshes into immutable Models once, then answers queries for any pair
// of rigid transforms. Queries never mutate a Model so they are safe to run from many
// goroutines at once.
package collide

import (
	"github.com/akmonengine/unitworld/actor"
	"github.com/akmonengine/unitworld/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// Model is the oracle-specific acceleration structure built from a mesh.
type Model interface {
	Mesh() *mesh.Mesh
	// BoundingBox is the box of the mesh in its own frame
	BoundingBox() actor.AABB
}

// Oracle tests two models placed by world transforms.
type Oracle interface {
	NewModel(m *mesh.Mesh) Model
	Collide(a Model, ta mgl64.Mat4, b Model, tb mgl64.Mat4) bool
	// CollideBB only compares the bounding volumes of both models
	CollideBB(a Model, ta mgl64.Mat4, b Model, tb mgl64.Mat4) bool
}

// FacePair names one face of each model whose triangles intersect.
type FacePair struct {
	A, B int
}

// DetailOracle also reports which faces are in contact.
type DetailOracle interface {
	Oracle
	CollideForDetails(a Model, ta mgl64.Mat4, b Model, tb mgl64.Mat4) []FacePair
}

package scene

import (
	"github.com/echoflaresat/slidecam/colors"
	"github.com/echoflaresat/slidecam/vectors"
)

// Material shades a surface point given its texture coordinate.
// Shade is called from several render goroutines at once and must not
// mutate the material.
type Material interface {
	Shade(uv vectors.Vec2) colors.Color4
	Dispose()
}

// PlaneGeometry is a rectangle centred on the origin in the local XY plane.
type PlaneGeometry struct {
	Width, Height float64
	disposed      bool
}

func NewPlaneGeometry(width, height float64) *PlaneGeometry {
	return &PlaneGeometry{Width: width, Height: height}
}

// Dispose marks the geometry released. Later calls are no-ops.
func (g *PlaneGeometry) Dispose() {
	g.disposed = true
}

func (g *PlaneGeometry) Disposed() bool {
	return g.disposed
}

// Mesh binds a plane geometry and a material to a scene node.
type Mesh struct {
	*Node
	Geometry *PlaneGeometry
	Material Material
}

func NewMesh(name string, geometry *PlaneGeometry, material Material) *Mesh {
	m := &Mesh{Node: NewNode(name), Geometry: geometry, Material: material}
	m.Node.mesh = m
	return m
}

// BasicMaterial shades every point with one colour.
type BasicMaterial struct {
	Color colors.Color4
}

func (m BasicMaterial) Shade(vectors.Vec2) colors.Color4 {
	return m.Color
}

func (BasicMaterial) Dispose() {}

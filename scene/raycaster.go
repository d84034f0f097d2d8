package scene

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/echoflaresat/slidecam/vectors"
)

// Camera turns normalized device coordinates (x right, y up, both in
// [-1,1]) into a world-space ray.
type Camera interface {
	RayFromNDC(ndc vectors.Vec2) vectors.Ray
}

// Intersection is one ray hit on a mesh.
type Intersection struct {
	Distance float64
	Point    vectors.Vec3
	UV       vectors.Vec2
	Mesh     *Mesh
}

// Target is a mesh with its world transform frozen, ready for repeated
// ray tests. Targets are immutable and safe to share between goroutines.
type Target struct {
	Mesh    *Mesh
	world   mgl64.Mat4
	inverse mgl64.Mat4
	halfW   float64
	halfH   float64
}

func NewTarget(m *Mesh) Target {
	world := m.WorldMatrix()
	t := Target{Mesh: m, world: world, inverse: world.Inv()}
	if m.Geometry != nil {
		t.halfW = m.Geometry.Width / 2
		t.halfH = m.Geometry.Height / 2
	}
	return t
}

const parallelEpsilon = 1e-12

// Intersect tests r against the plane from both sides.
func (t Target) Intersect(r vectors.Ray) (Intersection, bool) {
	if t.halfW == 0 || t.halfH == 0 {
		return Intersection{}, false
	}
	o := t.inverse.Mul4x1(r.Origin.Mgl().Vec4(1))
	d := t.inverse.Mul4x1(r.Direction.Mgl().Vec4(0))
	if math.Abs(d.Z()) < parallelEpsilon {
		return Intersection{}, false
	}

	s := -o.Z() / d.Z()
	if s <= 0 {
		return Intersection{}, false
	}
	x := o.X() + d.X()*s
	y := o.Y() + d.Y()*s
	if math.Abs(x) > t.halfW || math.Abs(y) > t.halfH {
		return Intersection{}, false
	}

	world := t.world.Mul4x1(mgl64.Vec4{x, y, 0, 1}).Vec3()
	point := vectors.FromMgl(world)
	return Intersection{
		Distance: vectors.Distance(point, r.Origin),
		Point:    point,
		UV: vectors.Vec2{
			X: x/(2*t.halfW) + 0.5,
			Y: y/(2*t.halfH) + 0.5,
		},
		Mesh: t.Mesh,
	}, true
}

// Raycaster casts one ray into a set of meshes.
type Raycaster struct {
	Ray vectors.Ray
}

// SetFromCamera aims the ray through ndc.
func (rc *Raycaster) SetFromCamera(ndc vectors.Vec2, camera Camera) {
	rc.Ray = camera.RayFromNDC(ndc)
}

// IntersectObjects returns every hit on meshes, nearest first.
func (rc *Raycaster) IntersectObjects(meshes []*Mesh) []Intersection {
	var hits []Intersection
	for _, m := range meshes {
		if !m.Visible {
			continue
		}
		if hit, ok := NewTarget(m).Intersect(rc.Ray); ok {
			hits = append(hits, hit)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

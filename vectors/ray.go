package vectors

// Ray is a half-line Origin + t*Direction, t >= 0. Direction is expected
// to be normalized by whoever builds the ray.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

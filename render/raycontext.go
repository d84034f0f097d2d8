package render

import (
	"github.com/echoflaresat/slidecam/scene"
	"github.com/echoflaresat/slidecam/vectors"
)

// RayContext carries per-ray state. Each render worker owns one.
type RayContext struct {
	Origin       vectors.Vec3
	Forward      vectors.Vec3
	RayDirection vectors.Vec3
	// T is the distance to the nearest hit, or -1 when nothing was hit.
	T float64
	// Depth is the hit distance projected on the view axis, used for fog.
	Depth float64
	Hit   scene.Intersection

	targets []scene.Target
}

func NewRayContext(origin, forward vectors.Vec3, targets []scene.Target) *RayContext {
	return &RayContext{
		Origin:  origin,
		Forward: forward,
		T:       -1,
		targets: targets,
	}
}

// SetRayDirection finds the nearest surface along rayDirection.
func (c *RayContext) SetRayDirection(rayDirection vectors.Vec3) {
	c.RayDirection = rayDirection
	c.T = -1
	c.Depth = 0
	c.Hit = scene.Intersection{}

	ray := vectors.Ray{Origin: c.Origin, Direction: rayDirection}
	for _, t := range c.targets {
		hit, ok := t.Intersect(ray)
		if !ok {
			continue
		}
		if c.T < 0 || hit.Distance < c.T {
			c.T = hit.Distance
			c.Hit = hit
		}
	}
	if c.T > 0 {
		c.Depth = c.T * rayDirection.Dot(c.Forward)
	}
}

// Package render raytraces a scene of textured planes into an image.
package render

import (
	"context"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/echoflaresat/slidecam/colors"
	"github.com/echoflaresat/slidecam/scene"
)

// Smoothstep performs a Hermite interpolation between 0 and 1 across [edge0, edge1].
// Returns 0 if x < edge0, 1 if x > edge1.
func Smoothstep(edge0, edge1, x float64) float64 {
	// Avoid division by zero
	if edge0 == edge1 {
		if x < edge0 {
			return 0.0
		}
		return 1.0
	}

	t := (x - edge0) / (edge1 - edge0)
	if t < 0.0 {
		t = 0.0
	} else if t > 1.0 {
		t = 1.0
	}
	return t * t * (3.0 - 2.0*t)
}

// GenerateSupersamplingOffsets returns n×n offsets in [-0.5, +0.5] for
// supersampling, as pairs (dx, dy) with pixel-center spacing.
func GenerateSupersamplingOffsets(n int) [][2]float64 {
	if n <= 0 {
		return nil
	}
	step := 1.0 / float64(n)
	out := make([][2]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dx := (float64(i)+0.5)*step - 0.5
			dy := (float64(j)+0.5)*step - 0.5
			out = append(out, [2]float64{dx, dy})
		}
	}
	return out
}

// ApplyFog blends c toward the fog colour by view depth.
func ApplyFog(fog *scene.Fog, c colors.Color4, depth float64) colors.Color4 {
	if fog == nil {
		return c
	}
	return c.Mix(fog.Color, Smoothstep(fog.Near, fog.Far, depth))
}

// ShadePixel returns the surface colour seen along ctx's current ray.
func ShadePixel(ctx *RayContext, s *scene.Scene) colors.Color4 {
	if ctx.T <= 0 || ctx.Hit.Mesh == nil || ctx.Hit.Mesh.Material == nil {
		return s.Background
	}
	c := ctx.Hit.Mesh.Material.Shade(ctx.Hit.UV)
	c = ApplyFog(s.Fog, c, ctx.Depth)
	return s.Background.Mix(c, clamp01(c.A))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Renderer raytraces scenes. The zero value renders with one sample per
// pixel on GOMAXPROCS workers.
type Renderer struct {
	Workers     int
	Supersample int
}

// Render raytraces s through camera into a width x height image. Rows are
// traced in parallel over a snapshot of the scene's mesh transforms, so the
// scene graph must not change until Render returns. Materials are only read.
func (r Renderer) Render(ctx context.Context, s *scene.Scene, camera Camera, width, height int) (*image.NRGBA, error) {
	W, H := width, height
	offsets := GenerateSupersamplingOffsets(max(1, r.Supersample))
	N := float64(len(offsets))
	targets := s.Targets()

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	img := image.NewNRGBA(image.Rect(0, 0, W, H))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for y := 0; y < H; y++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rc := NewRayContext(camera.Position, camera.Forward, targets)
			for x := 0; x < W; x++ {
				colorAccum := colors.Color4{}
				for _, off := range offsets {
					dx, dy := off[0], off[1]
					rc.SetRayDirection(camera.ComputeRay(float64(x)+dx, float64(y)+dy, W, H))
					colorAccum = colorAccum.Add(ShadePixel(rc, s))
				}

				colorOut := colorAccum.Scale(1.0 / N)
				colorOut.A = 1
				img.SetNRGBA(x, y, colorOut.ToNRGBA())
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return img, nil
}

package carousel

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/echoflaresat/slidecam/easing"
	"github.com/echoflaresat/slidecam/events"
	"github.com/echoflaresat/slidecam/pointer"
	"github.com/echoflaresat/slidecam/scene"
	"github.com/echoflaresat/slidecam/stage"
	"github.com/echoflaresat/slidecam/texture"
	"github.com/echoflaresat/slidecam/vectors"
)

const (
	timeStep  = 0.01
	mouseEase = 0.1
)

// PlaneProps constructs a Plane.
type PlaneProps struct {
	Manager Manager
	Parent  *scene.Node
	Image   image.Image
	Index   int
	Pointer *pointer.Tracker
}

// RenderProps is the per-frame input of one plane.
type RenderProps struct {
	// LocalProgress is global progress minus the slide index.
	LocalProgress   float64
	ScrollYRotation float64
	MouseYRotation  float64
	MouseXRotation  float64
	XOffset         float64
	YOffset         float64
	ActiveProgress  float64
	// RaycastUV is the pointer hit on this plane, nil when the ray missed.
	RaycastUV *vectors.Vec2
}

// Plane is one slide: a viewport-sized textured mesh that it owns
// exclusively, posed every frame from its local progress.
type Plane struct {
	props PlaneProps

	startWidth  float64
	startHeight float64

	geometry *scene.PlaneGeometry
	texture  *texture.Texture
	material *SlideMaterial
	mesh     *scene.Mesh
	dominant color.RGBA

	mouseCurrent vectors.Vec2
	mouseTarget  vectors.Vec2

	scope     events.Scope
	destroyed bool
}

func NewPlane(props PlaneProps) *Plane {
	m := props.Manager
	w, h := m.Width(), m.Height()

	p := &Plane{
		props:       props,
		startWidth:  w,
		startHeight: h,
		geometry:    scene.NewPlaneGeometry(w, h),
		texture:     texture.New(props.Image, w/h),
	}
	p.dominant = p.texture.DominantColor()
	p.material = &SlideMaterial{
		Texture: p.texture,
		Aspect:  w / h,
		UVScale: p.texture.UVScale(),
	}
	p.mesh = scene.NewMesh(fmt.Sprintf("slide-%d", props.Index), p.geometry, p.material)
	props.Parent.Add(p.mesh.Node)

	p.scope.Add(m.OnResize(p.resize))
	return p
}

func (p *Plane) resize(size stage.Size) {
	p.mesh.Scale = vectors.Vec3{
		X: size.Width / p.startWidth,
		Y: size.Height / p.startHeight,
		Z: 1,
	}
	p.texture.Resize(size.Width / size.Height)
}

func (p *Plane) Index() int { return p.props.Index }

func (p *Plane) Mesh() *scene.Mesh { return p.mesh }

func (p *Plane) Material() *SlideMaterial { return p.material }

func (p *Plane) Texture() *texture.Texture { return p.texture }

func (p *Plane) Geometry() *scene.PlaneGeometry { return p.geometry }

// DominantColor is the slide's background tint.
func (p *Plane) DominantColor() color.RGBA { return p.dominant }

// MouseUV is the smoothed distortion centre.
func (p *Plane) MouseUV() vectors.Vec2 { return p.mouseCurrent }

// Render updates the pose and uniforms for one frame.
func (p *Plane) Render(rp RenderProps) {
	if p.destroyed {
		return
	}
	m := p.props.Manager
	em := m.EaseMultiplier()

	p.renderMouse(rp.RaycastUV, em)
	p.renderPosition(rp)

	intensity := p.props.Pointer.Intensity()
	u := p.material
	u.Time += timeStep*em + timeStep*intensity*10
	u.Aspect = m.Width() / m.Height()
	u.ActiveProgress = math.Sin(math.Pi * rp.ActiveProgress)
	u.MouseUV = p.mouseCurrent
	u.MouseIntensity = intensity * (1 - easing.Clamp(rp.LocalProgress, 0, 1))
	u.UVScale = p.texture.UVScale()
}

func (p *Plane) renderMouse(uv *vectors.Vec2, em float64) {
	if uv != nil {
		p.mouseTarget = *uv
	}
	ease := mouseEase * em
	p.mouseCurrent.X = easing.Lerp(p.mouseCurrent.X, p.mouseTarget.X, ease)
	p.mouseCurrent.Y = easing.Lerp(p.mouseCurrent.Y, p.mouseTarget.Y, ease)
}

func (p *Plane) renderPosition(rp RenderProps) {
	m := p.props.Manager
	lp := rp.LocalProgress
	reverse := 1 - rp.ActiveProgress

	zStatic := -m.Perspective() * 0.4 * reverse
	zIteration := zStatic * 1.5

	yRotation := rp.ScrollYRotation * reverse
	mouseYRotation := rp.MouseYRotation * reverse
	mouseXRotation := rp.MouseXRotation * reverse

	xShift := lp * m.Width() * -0.4
	x := rp.XOffset*reverse + xShift*reverse
	y := rp.YOffset * reverse

	mesh := p.mesh
	mesh.Position.X = x

	// entering from below
	if lp < 0 {
		mesh.Position.Y = m.Height()*1.25*lp*reverse + y
		mesh.Position.Z = zStatic
		mesh.Rotation.X = (math.Pi/2.5)*-lp*reverse + mouseXRotation
		mesh.Rotation.Y = yRotation*lp*0.5 + mouseYRotation
		return
	}

	// receding into depth
	mesh.Position.Y = m.Height()*lp*reverse*-0.1 + y
	mesh.Position.Z = zStatic + zIteration*lp
	mesh.Rotation.X = mouseXRotation
	mesh.Rotation.Y = yRotation*math.Min(lp, 1) + mouseYRotation
}

// Destroy detaches the mesh and releases its resources. Later calls are
// no-ops.
func (p *Plane) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.mesh.RemoveFromParent()
	p.texture.Dispose()
	p.material.Dispose()
	p.geometry.Dispose()
	p.scope.Release()
}

func (p *Plane) Destroyed() bool { return p.destroyed }

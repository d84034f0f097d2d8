// Package scene is a minimal scene graph: transform nodes, textured plane
// meshes, background and fog, and a ray caster against those planes.
package scene

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/echoflaresat/slidecam/vectors"
)

// Node is a transform in the scene graph. Rotation holds Euler angles in
// radians applied in X, Y, Z order.
type Node struct {
	Name     string
	Position vectors.Vec3
	Rotation vectors.Vec3
	Scale    vectors.Vec3
	Visible  bool

	parent   *Node
	children []*Node
	mesh     *Mesh
}

func NewNode(name string) *Node {
	return &Node{Name: name, Scale: vectors.One(), Visible: true}
}

// Add attaches child to n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	child.RemoveFromParent()
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child if it is a direct child of n.
func (n *Node) Remove(child *Node) {
	i := slices.Index(n.children, child)
	if i < 0 {
		return
	}
	n.children = slices.Delete(n.children, i, i+1)
	child.parent = nil
}

func (n *Node) RemoveFromParent() {
	if n.parent != nil {
		n.parent.Remove(n)
	}
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Children() []*Node {
	return n.children
}

// Mesh returns the mesh this node carries, if any.
func (n *Node) Mesh() *Mesh {
	return n.mesh
}

// LocalMatrix is T * Rx * Ry * Rz * S.
func (n *Node) LocalMatrix() mgl64.Mat4 {
	t := mgl64.Translate3D(n.Position.X, n.Position.Y, n.Position.Z)
	r := mgl64.HomogRotate3DX(n.Rotation.X).
		Mul4(mgl64.HomogRotate3DY(n.Rotation.Y)).
		Mul4(mgl64.HomogRotate3DZ(n.Rotation.Z))
	s := mgl64.Scale3D(n.Scale.X, n.Scale.Y, n.Scale.Z)
	return t.Mul4(r).Mul4(s)
}

// WorldMatrix composes the local matrices from the root down to n.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// Traverse calls fn for n and its visible descendants, depth first.
// Invisible subtrees are skipped.
func (n *Node) Traverse(fn func(*Node)) {
	if !n.Visible {
		return
	}
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

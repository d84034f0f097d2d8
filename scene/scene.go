package scene

import (
	"github.com/echoflaresat/slidecam/colors"
)

// Fog fades surfaces into Color between Near and Far view depth.
type Fog struct {
	Color     colors.Color4
	Near, Far float64
}

// Scene is the root of everything the renderer draws.
type Scene struct {
	Root       *Node
	Background colors.Color4
	Fog        *Fog
}

func New() *Scene {
	return &Scene{Root: NewNode("scene"), Background: colors.Black()}
}

// Add attaches n to the scene root.
func (s *Scene) Add(n *Node) {
	s.Root.Add(n)
}

// Remove detaches n from the scene root.
func (s *Scene) Remove(n *Node) {
	s.Root.Remove(n)
}

// Meshes lists the visible meshes in traversal order.
func (s *Scene) Meshes() []*Mesh {
	var out []*Mesh
	s.Root.Traverse(func(n *Node) {
		if m := n.Mesh(); m != nil {
			out = append(out, m)
		}
	})
	return out
}

// Targets snapshots the world transforms of every visible mesh.
func (s *Scene) Targets() []Target {
	meshes := s.Meshes()
	out := make([]Target, 0, len(meshes))
	for _, m := range meshes {
		out = append(out, NewTarget(m))
	}
	return out
}

package present

import (
	"sort"
	"sync"
)

// Node is one drawable object in the scene.
type Node struct {
	Name     string `json:"name"`
	Model    Model  `json:"model"`
	Position Vec3   `json:"position"`
	Scale    Vec3   `json:"scale"`
	Rotation Euler  `json:"rotation"`
}

// Scene is an in-memory scene graph. Entity factories add nodes from their
// own goroutines while the tick goroutine mutates transforms, so every
// method takes the lock.
type Scene struct {
	mu     sync.Mutex
	pool   *handlePool
	nodes  map[Handle]*Node
	byName map[string]Handle
}

func NewScene() *Scene {
	return &Scene{
		pool:   newHandlePool(),
		nodes:  make(map[Handle]*Node, 16),
		byName: make(map[string]Handle, 16),
	}
}

func (s *Scene) FindByName(name string) (Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.byName[name]
	return h, ok
}

// Add inserts a node and returns its handle. A later Add under the same
// name shadows the earlier node for FindByName.
func (s *Scene) Add(name string, m Model) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.pool.acquire()
	scale := m.Scale
	if scale == 0 {
		scale = 1
	}
	s.nodes[h] = &Node{
		Name:  name,
		Model: m,
		Scale: Vec3{X: scale, Y: scale, Z: scale},
	}
	s.byName[name] = h
	return h
}

func (s *Scene) Remove(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[h]
	if !ok || !s.pool.release(h) {
		return false
	}
	delete(s.nodes, h)
	if s.byName[n.Name] == h {
		delete(s.byName, n.Name)
	}
	return true
}

func (s *Scene) SetPosition(h Handle, p Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.nodes[h]; ok {
		n.Position = p
	}
}

// SetScale applies a uniform factor on top of the model's base scale.
func (s *Scene) SetScale(h Handle, f float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.nodes[h]; ok {
		base := n.Model.Scale
		if base == 0 {
			base = 1
		}
		v := base * f
		n.Scale = Vec3{X: v, Y: v, Z: v}
	}
}

func (s *Scene) SetRotation(h Handle, r Euler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.nodes[h]; ok {
		n.Rotation = r
	}
}

// Node returns a copy of the node behind h.
func (s *Scene) Node(h Handle) (Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[h]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

// Snapshot copies every node, sorted by name.
func (s *Scene) Snapshot() []Node {
	s.mu.Lock()
	out := make([]Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, *n)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

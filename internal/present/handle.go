package present

import "fmt"

// Handle is an opaque reference to a scene node. The lower 32 bits hold the
// slot index, the upper 32 bits a generation that is bumped when the slot is
// freed, so a handle kept past removal never resolves to a recycled node.
// The zero Handle is never issued.
type Handle uint64

func newHandle(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) index() uint32      { return uint32(h) }
func (h Handle) generation() uint32 { return uint32(h >> 32) }

// IsZero reports whether h is the unset handle.
func (h Handle) IsZero() bool { return h == 0 }

func (h Handle) String() string {
	return fmt.Sprintf("%d/%d", h.index(), h.generation())
}

// handlePool allocates handles with generational indices and a free list.
// Generations start at 1 so no live handle equals zero.
type handlePool struct {
	generations []uint32
	freeList    []uint32
}

func newHandlePool() *handlePool {
	return &handlePool{
		generations: make([]uint32, 0, 64),
		freeList:    make([]uint32, 0, 16),
	}
}

func (p *handlePool) acquire() Handle {
	if n := len(p.freeList); n > 0 {
		idx := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		return newHandle(idx, p.generations[idx])
	}
	idx := uint32(len(p.generations))
	p.generations = append(p.generations, 1)
	return newHandle(idx, 1)
}

func (p *handlePool) alive(h Handle) bool {
	idx := h.index()
	if int(idx) >= len(p.generations) {
		return false
	}
	return p.generations[idx] == h.generation()
}

// release invalidates h. Releasing a stale handle is a no-op.
func (p *handlePool) release(h Handle) bool {
	if !p.alive(h) {
		return false
	}
	idx := h.index()
	p.generations[idx]++
	if p.generations[idx] == 0 {
		p.generations[idx] = 1
	}
	p.freeList = append(p.freeList, idx)
	return true
}

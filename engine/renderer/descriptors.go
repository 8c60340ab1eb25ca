package renderer

import (
	"github.com/spaghettifunk/prisma/engine/core"
)

const (
	// DescriptorPoolCapacity is the total number of GPU-visible view
	// slots a backend allocates at startup.
	DescriptorPoolCapacity = 64
	// FontDescriptorSlot is permanently reserved for the UI font
	// texture and never enters the general pool.
	FontDescriptorSlot = 0
)

// DescriptorSlot is an opaque index into a backend's fixed descriptor
// table.
type DescriptorSlot uint32

// FontSlot returns the reserved UI font slot. Backends claim it at
// startup; Allocate never hands it out.
func FontSlot() DescriptorSlot {
	return FontDescriptorSlot
}

// DescriptorPool hands out slots from a fixed-capacity table. Freed
// slots are reused LIFO before the high-water mark advances.
type DescriptorPool struct {
	capacity uint32
	next     uint32
	freeList []DescriptorSlot
}

// NewDescriptorPool creates a pool over [first, capacity). Slot 0 is
// assumed reserved by the caller and handed out never.
func NewDescriptorPool(capacity uint32) *DescriptorPool {
	return &DescriptorPool{
		capacity: capacity,
		next:     FontDescriptorSlot + 1,
	}
}

// Allocate returns a free slot, preferring the most recently freed one.
// Once the free list is empty and the high-water mark reaches capacity
// it returns core.ErrPoolExhausted.
func (p *DescriptorPool) Allocate() (DescriptorSlot, error) {
	if n := len(p.freeList); n > 0 {
		slot := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		return slot, nil
	}
	if p.next >= p.capacity {
		return 0, core.ErrPoolExhausted
	}
	slot := DescriptorSlot(p.next)
	p.next++
	return slot, nil
}

// Free returns a slot to the pool. Handles outside the pool's range,
// the reserved font slot included, are ignored.
func (p *DescriptorPool) Free(slot DescriptorSlot) {
	if slot <= FontDescriptorSlot || uint32(slot) >= p.capacity {
		return
	}
	p.freeList = append(p.freeList, slot)
}

// InUse returns how many slots are currently handed out.
func (p *DescriptorPool) InUse() int {
	return int(p.next) - (FontDescriptorSlot + 1) - len(p.freeList)
}

// Reset drops all allocations. Only valid after the GPU is idle.
func (p *DescriptorPool) Reset() {
	p.next = FontDescriptorSlot + 1
	p.freeList = p.freeList[:0]
}

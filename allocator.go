package archecs

import "sync"

const defaultBlockSize = 1024

// blockAllocator hands out disjoint ranges of entity indices to
// EntityAllocators so that two Worlds created from the same Factory
// never assign the same index, even though each World tracks its own
// generation counters and free list independently. It is shared
// behind a mutex rather than requiring its callers to coordinate.
type blockAllocator struct {
	mu        sync.Mutex
	next      uint32
	blockSize uint32
}

func newBlockAllocator() *blockAllocator {
	return &blockAllocator{blockSize: defaultBlockSize}
}

// nextBlock reserves and returns the [start, end) half-open range of
// the next block of indices.
func (b *blockAllocator) nextBlock() (start, end uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	start = b.next
	end = start + b.blockSize
	b.next = end
	return start, end
}

// entitySlot tracks one index's current generation and, while the
// index is in use, its EntityLocation.
type entitySlot struct {
	generation uint32
	location   EntityLocation
	alive      bool
}

// entityAllocator issues, tracks the liveness of, and locates every
// Entity handle belonging to one World. Indices are drawn in blocks
// from a shared blockAllocator and recycled through a free list once
// deleted, with the generation counter bumped on reuse so a stale
// handle is never mistaken for the entity now occupying its slot.
type entityAllocator struct {
	blocks    *blockAllocator
	slots     []entitySlot
	free      []uint32
	nextIndex uint32
	blockEnd  uint32
	allocated []Entity // entities created since the last clearAllocationBuffer
}

func newEntityAllocator(blocks *blockAllocator) *entityAllocator {
	return &entityAllocator{blocks: blocks}
}

// ensureSlot grows the slot table so index is valid, filling every
// newly created slot with invalidLocation.
func (a *entityAllocator) ensureSlot(index uint32) {
	if uint32(len(a.slots)) > index {
		return
	}
	start := len(a.slots)
	a.slots = extendSlice(a.slots, int(index)+1-start)
	for i := start; i < len(a.slots); i++ {
		a.slots[i].location = invalidLocation
	}
}

// createEntity allocates a fresh Entity: reused from the free list if
// one is available, otherwise drawn from the next free index in the
// allocator's current block (requesting a new block from the shared
// blockAllocator once the current one is exhausted). The entity is
// recorded in the allocation buffer until clearAllocationBuffer is
// called.
func (a *entityAllocator) createEntity() Entity {
	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		if a.nextIndex >= a.blockEnd {
			start, end := a.blocks.nextBlock()
			a.nextIndex = start
			a.blockEnd = end
		}
		index = a.nextIndex
		a.nextIndex++
		a.ensureSlot(index)
	}
	a.ensureSlot(index)
	slot := &a.slots[index]
	slot.alive = true
	slot.location = invalidLocation
	entity := Entity{Index: index, Generation: slot.generation}
	a.allocated = append(a.allocated, entity)
	return entity
}

// isAlive reports whether entity's index is currently in use and its
// generation matches, so a stale handle into a recycled slot reports
// false.
func (a *entityAllocator) isAlive(entity Entity) bool {
	if int(entity.Index) >= len(a.slots) {
		return false
	}
	slot := &a.slots[entity.Index]
	return slot.alive && slot.generation == entity.Generation
}

// deleteEntity marks entity's slot free, bumps its generation so any
// remaining handle to it is invalidated, and returns the location it
// occupied (so the caller can remove its data from storage), or !ok if
// the entity was already dead.
func (a *entityAllocator) deleteEntity(entity Entity) (EntityLocation, bool) {
	if !a.isAlive(entity) {
		return EntityLocation{}, false
	}
	slot := &a.slots[entity.Index]
	location := slot.location
	slot.alive = false
	slot.generation++
	slot.location = invalidLocation
	a.free = append(a.free, entity.Index)
	return location, true
}

func (a *entityAllocator) getLocation(entity Entity) (EntityLocation, bool) {
	if !a.isAlive(entity) {
		return EntityLocation{}, false
	}
	return a.slots[entity.Index].location, true
}

func (a *entityAllocator) setLocation(index uint32, location EntityLocation) {
	a.ensureSlot(index)
	a.slots[index].location = location
}

// allocationBuffer returns the entities created since the last
// clearAllocationBuffer call, in creation order. World.Insert returns
// this slice to its caller.
func (a *entityAllocator) allocationBuffer() []Entity {
	return a.allocated
}

func (a *entityAllocator) clearAllocationBuffer() {
	a.allocated = a.allocated[:0]
}

// merge absorbs other's live entities and their slots into a. Indices
// drawn from the same shared blockAllocator never collide between a
// and other, so this only needs to extend a's slot table and copy
// liveness/location/generation state across; it must run before the
// owning World merges its Storage, since storage merge does not touch
// entity slots itself.
func (a *entityAllocator) merge(other *entityAllocator) {
	for index, slot := range other.slots {
		if !slot.alive {
			continue
		}
		a.ensureSlot(uint32(index))
		a.slots[index] = slot
	}
	a.allocated = append(a.allocated, other.allocated...)
	other.slots = nil
	other.free = nil
	other.allocated = nil
}

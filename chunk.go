package archecs

import (
	"sort"
	"unsafe"
)

// maxChunkSizeBytes bounds how much Structure-of-Arrays storage a
// single chunk buffer may occupy, used to derive chunk capacity from
// the widest registered component in an archetype.
const maxChunkSizeBytes = 16 * 1024

// componentStorageAlignment is the floor every component's offset is
// rounded up to before its own alignment is applied, so that no two
// components ever share a cache line boundary region.
const componentStorageAlignment = 64

// chunkLayout is the packing plan shared by every chunk in every
// chunk-set of one archetype: which component types are present (in
// registration order), their byte offsets into the shared buffer
// shape, the per-chunk capacity, and the total buffer size/alignment
// needed to allocate one chunk's buffer. It is computed once per
// archetype and never mutated afterwards.
type chunkLayout struct {
	componentIDs []ComponentTypeId // sorted ascending, binary-searchable
	metas        []ComponentMeta
	offsets      []uintptr
	capacity     int
	bufferSize   uintptr
	bufferAlign  uintptr
}

// newChunkLayout plans the packing of the given component types in
// registration order, following ArchetypeData::new's layout algorithm
// (original_source/src/storage.rs): capacity is derived from the
// larger of the widest component type and sizeof(Entity), then
// each component's offset is advanced to the componentStorageAlignment
// floor and then to its own alignment.
func newChunkLayout(componentIDs []ComponentTypeId) *chunkLayout {
	sorted := append([]ComponentTypeId(nil), componentIDs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	metas := make([]ComponentMeta, len(sorted))
	maxSize := unsafe.Sizeof(Entity{})
	maxAlign := unsafe.Alignof(Entity{})
	for i, id := range sorted {
		meta := componentTypeMeta[id]
		metas[i] = meta
		if meta.Size > maxSize {
			maxSize = meta.Size
		}
		if meta.Align > maxAlign {
			maxAlign = meta.Align
		}
	}

	capacity := int(uintptr(maxChunkSizeBytes) / maxSize)
	if capacity < 1 {
		capacity = 1
	}

	offsets := make([]uintptr, len(sorted))
	offset := uintptr(0)
	for i, meta := range metas {
		if meta.Size == 0 {
			offsets[i] = 0
			continue
		}
		offset = alignUp(offset, componentStorageAlignment)
		offset = alignUp(offset, meta.Align)
		offsets[i] = offset
		offset += meta.Size * uintptr(capacity)
	}

	return &chunkLayout{
		componentIDs: sorted,
		metas:        metas,
		offsets:      offsets,
		capacity:     capacity,
		bufferSize:   offset,
		// the whole buffer is allocated at the fixed storage alignment
		// floor rather than the widest component's own alignment,
		// matching ArchetypeData::new's std::alloc::Layout construction.
		bufferAlign: componentStorageAlignment,
	}
}

// indexOf returns the position of id within the layout's sorted
// component list via binary search, mirroring the sorted-small-vector
// dictionaries used throughout (Sorted small-vectors).
func (l *chunkLayout) indexOf(id ComponentTypeId) (int, bool) {
	n := len(l.componentIDs)
	i := sort.Search(n, func(i int) bool { return l.componentIDs[i] >= id })
	if i < n && l.componentIDs[i] == id {
		return i, true
	}
	return 0, false
}

func (l *chunkLayout) has(id ComponentTypeId) bool {
	_, ok := l.indexOf(id)
	return ok
}

// ChunkID identifies a chunk's position within its owning World, used
// for diagnostics and as the stable key passed to a defrag moved-entity
// callback.
type ChunkID struct {
	ArchetypeIndex int
	SetIndex       int
	ChunkIndex     int
}

// Chunk is one fixed-capacity, contiguous Structure-of-Arrays block:
// a dense slice of live Entity handles and one ComponentAccessor per
// registered component type in the owning archetype, all sharing one
// lazily-allocated backing buffer.
type Chunk struct {
	id        ChunkID
	layout    *chunkLayout
	buffer    unsafe.Pointer
	allocated bool
	entities  []Entity
	accessors []ComponentAccessor
}

// newChunk creates an unallocated chunk for the given layout; no
// buffer is reserved until the first entity is pushed.
func newChunk(id ChunkID, layout *chunkLayout) *Chunk {
	c := &Chunk{id: id, layout: layout}
	c.accessors = make([]ComponentAccessor, len(layout.componentIDs))
	for i, cid := range layout.componentIDs {
		c.accessors[i] = ComponentAccessor{typeID: cid, meta: layout.metas[i], cap: layout.capacity}
	}
	return c
}

// Len reports the number of live entities in the chunk.
func (c *Chunk) Len() int { return len(c.entities) }

// Capacity reports the chunk's fixed entity capacity.
func (c *Chunk) Capacity() int { return c.layout.capacity }

// IsEmpty reports whether the chunk holds no entities.
func (c *Chunk) IsEmpty() bool { return len(c.entities) == 0 }

// IsFull reports whether the chunk has reached its capacity.
func (c *Chunk) IsFull() bool { return len(c.entities) >= c.layout.capacity }

// IsAllocated reports whether the chunk's backing buffer has been
// reserved. A chunk that has never held an entity, or that was just
// freed back to empty, reports false.
func (c *Chunk) IsAllocated() bool { return c.allocated }

// Entities returns the chunk's live entity handles in slot order.
func (c *Chunk) Entities() []Entity { return c.entities }

// Component returns the accessor for the given component type, or nil
// if the chunk's archetype does not carry that type.
func (c *Chunk) Component(id ComponentTypeId) *ComponentAccessor {
	i, ok := c.layout.indexOf(id)
	if !ok {
		return nil
	}
	return &c.accessors[i]
}

// ensureAllocated reserves the chunk's backing buffer and points every
// accessor at its planned offset within it, following
// ComponentStorage::allocate. It is a no-op if already allocated.
func (c *Chunk) ensureAllocated() {
	if c.allocated {
		return
	}
	if c.layout.bufferSize > 0 {
		c.buffer = alignedAlloc(c.layout.bufferSize, c.layout.bufferAlign)
	}
	for i, meta := range c.layout.metas {
		if meta.Size == 0 {
			c.accessors[i].ptr = unsafe.Pointer(meta.Align)
			continue
		}
		c.accessors[i].ptr = unsafe.Add(c.buffer, c.layout.offsets[i])
	}
	c.entities = make([]Entity, 0, c.layout.capacity)
	c.allocated = true
}

// free releases the chunk's backing buffer once it has become empty,
// following ComponentStorage::free. The chunk's accessors are left with
// stale-but-aligned pointers; every accessor's length is 0, so no
// caller observes them. It is a programming error to call free on a
// non-empty chunk.
func (c *Chunk) free() {
	if !c.allocated {
		return
	}
	if len(c.entities) != 0 {
		abortf("archecs: free called on a non-empty chunk (%d entities)", len(c.entities))
	}
	c.buffer = nil
	c.entities = nil
	c.allocated = false
}

// PushEntity appends a new, already-allocated slot holding entity and
// returns its index within the chunk. The caller is responsible for
// then writing every accessor's slot at that index. It is a
// programming error to call this on a full chunk.
func (c *Chunk) PushEntity(entity Entity) int {
	c.ensureAllocated()
	if len(c.entities) >= c.layout.capacity {
		abortf("archecs: PushEntity called on a full chunk (capacity %d)", c.layout.capacity)
	}
	c.entities = append(c.entities, entity)
	return len(c.entities) - 1
}

// SwapRemove removes the entity at index, moving the last entity into
// its place (unless index is already last), and frees the chunk's
// buffer if it becomes empty. It returns the entity that now
// occupies index (the zero entity if index was last) and whether a
// move occurred, so the caller can update that entity's
// EntityLocation. drop controls whether the removed slot's component
// values run their Drop function, matching ComponentStorage::swap_remove.
func (c *Chunk) SwapRemove(index int, drop bool) (moved Entity, didMove bool) {
	last := len(c.entities) - 1
	if index < 0 || index > last {
		abortf("archecs: SwapRemove index %d out of range [0,%d]", index, last)
	}
	for i := range c.accessors {
		c.accessors[i].swapRemove(index, last, drop)
	}
	if index != last {
		c.entities[index] = c.entities[last]
		moved = c.entities[index]
		didMove = true
	}
	c.entities = c.entities[:last]
	if len(c.entities) == 0 {
		c.free()
	}
	return moved, didMove
}

// MoveEntity transfers the entity at index from c into target,
// bitwise-copying every component type target retains and dropping
// every component type it does not, then swap-removes the slot from
// c. It follows storage.rs's move_entity: the drop-or-copy loop runs
// over the source chunk's own component set before the swap_remove
// call (drop=false there, since the retained values have already been
// moved out and the dropped ones already dropped in place). It returns
// the entity that now occupies index in c (if any) the same way
// SwapRemove does.
func (c *Chunk) MoveEntity(target *Chunk, index int) (moved Entity, didMove bool) {
	entity := c.entities[index]
	targetIndex := target.PushEntity(entity)
	for i := range c.accessors {
		src := &c.accessors[i]
		if dst := target.Component(src.typeID); dst != nil {
			dst.pushRaw(src.at(index))
		} else {
			src.dropAt(index)
		}
	}
	_ = targetIndex
	return c.SwapRemove(index, false)
}

package archecs

import "unsafe"

const tagStorageInitialCapacity = 4

// TagStorage is a dense, growable vector of erased tag values of one
// type, indexed by chunk-set ordinal. Non-zero-sized elements own an
// aligned heap allocation that doubles on growth; zero-sized elements
// never allocate and report an unbounded capacity, with their data
// pointer set to the alignment value as a sentinel that is never
// dereferenced.
type TagStorage struct {
	meta     TagMeta
	data     unsafe.Pointer
	length   int
	capacity int
}

// NewTagStorage creates an empty TagStorage for the given tag meta.
func NewTagStorage(meta TagMeta) *TagStorage {
	ts := &TagStorage{meta: meta}
	if meta.Size == 0 {
		ts.data = unsafe.Pointer(meta.Align)
		ts.capacity = -1 // sentinel: unbounded
	}
	return ts
}

// Len reports the number of tag values stored.
func (ts *TagStorage) Len() int {
	return ts.length
}

// Meta returns the element metadata for this storage's tag type.
func (ts *TagStorage) Meta() TagMeta {
	return ts.meta
}

// isZeroSized reports whether this storage holds a zero-sized tag type.
func (ts *TagStorage) isZeroSized() bool {
	return ts.meta.Size == 0
}

// Get returns a pointer to the tag value at index, which must be < Len.
func (ts *TagStorage) Get(index int) unsafe.Pointer {
	if ts.isZeroSized() {
		return ts.data
	}
	return unsafe.Add(ts.data, uintptr(index)*ts.meta.Size)
}

// Push bitwise-copies size bytes from src, taking ownership of the
// value, and appends it as a new element.
func (ts *TagStorage) Push(src unsafe.Pointer) {
	if ts.isZeroSized() {
		ts.length++
		return
	}
	if ts.length == ts.capacity {
		ts.grow()
	}
	dst := unsafe.Add(ts.data, uintptr(ts.length)*ts.meta.Size)
	copy(unsafe.Slice((*byte)(dst), ts.meta.Size), unsafe.Slice((*byte)(src), ts.meta.Size))
	ts.length++
}

// PushClone clones the value at src (rather than transferring
// ownership of it) and appends it. Used when duplicating a tag value
// into a second chunk-set's storage, e.g. during archetype.merge.
func (ts *TagStorage) PushClone(src unsafe.Pointer) {
	if ts.isZeroSized() {
		ts.length++
		return
	}
	if ts.length == ts.capacity {
		ts.grow()
	}
	dst := unsafe.Add(ts.data, uintptr(ts.length)*ts.meta.Size)
	ts.meta.Clone(dst, src)
	ts.length++
}

func (ts *TagStorage) grow() {
	newCap := tagStorageInitialCapacity
	if ts.capacity > 0 {
		newCap = ts.capacity * 2
	}
	newData := alignedAlloc(ts.meta.Size*uintptr(newCap), ts.meta.Align)
	if ts.length > 0 {
		copy(unsafe.Slice((*byte)(newData), uintptr(ts.length)*ts.meta.Size),
			unsafe.Slice((*byte)(ts.data), uintptr(ts.length)*ts.meta.Size))
	}
	ts.data = newData
	ts.capacity = newCap
}

// Drop runs the element drop function over every stored value. The
// backing allocation is left to the garbage collector (it was
// obtained from alignedAlloc, a Go-heap-backed allocator, see utils.go).
func (ts *TagStorage) Drop() {
	if ts.isZeroSized() || ts.meta.Drop == nil {
		return
	}
	for i := 0; i < ts.length; i++ {
		ts.meta.Drop(ts.Get(i))
	}
}

package archecs

import "unsafe"

// ComponentAccessor is the typed Structure-of-Arrays slice for one
// component type within one chunk: a raw pointer into the chunk's
// shared backing buffer, the live count, the fixed capacity, a
// monotonically increasing version, a changed flag, and the borrow
// cell guarding concurrent shared/exclusive access.
type ComponentAccessor struct {
	typeID  ComponentTypeId
	meta    ComponentMeta
	ptr     unsafe.Pointer
	length  int
	cap     int
	version uint64
	changed bool
	borrow  borrowCell
}

// TypeID returns the component type this accessor exposes.
func (a *ComponentAccessor) TypeID() ComponentTypeId { return a.typeID }

// Len reports the number of live components in this chunk's slice for
// the type, equal to the chunk's entity count.
func (a *ComponentAccessor) Len() int { return a.length }

// Capacity reports the chunk's fixed capacity.
func (a *ComponentAccessor) Capacity() int { return a.cap }

// Version returns the monotonically increasing mutation counter.
// Callers should compare for inequality, not ordering, since it wraps.
func (a *ComponentAccessor) Version() uint64 { return a.version }

// Changed reports whether a write has occurred since the flag was
// last cleared.
func (a *ComponentAccessor) Changed() bool { return a.changed }

// ClearChanged clears the changed flag, as a reader observing the
// current state may do.
func (a *ComponentAccessor) ClearChanged() { a.changed = false }

// IsZeroSized reports whether the component type has no footprint in
// the chunk buffer.
func (a *ComponentAccessor) IsZeroSized() bool { return a.meta.Size == 0 }

func (a *ComponentAccessor) at(index int) unsafe.Pointer {
	if a.meta.Size == 0 {
		return a.ptr
	}
	return unsafe.Add(a.ptr, uintptr(index)*a.meta.Size)
}

// pushRaw bitwise-copies one element from src and appends it. Callers
// must ensure len < capacity; archecs never calls this without that
// having already been established by chunk capacity checks.
func (a *ComponentAccessor) pushRaw(src unsafe.Pointer) {
	if a.length >= a.cap {
		abortf("archecs: component writer overflow: capacity %d exceeded", a.cap)
	}
	if a.meta.Size > 0 {
		dst := a.at(a.length)
		copy(unsafe.Slice((*byte)(dst), a.meta.Size), unsafe.Slice((*byte)(src), a.meta.Size))
	}
	a.length++
	a.version++
	a.changed = true
}

// setRaw overwrites the element at index in place (used by
// add_component's same-type replace-in-place path).
func (a *ComponentAccessor) setRaw(index int, src unsafe.Pointer) {
	if a.meta.Size > 0 {
		dst := a.at(index)
		copy(unsafe.Slice((*byte)(dst), a.meta.Size), unsafe.Slice((*byte)(src), a.meta.Size))
	}
	a.version++
	a.changed = true
}

// dropAt runs the drop function over the element at index without
// moving any data, used by move_entity for component types not
// retained in the target archetype.
func (a *ComponentAccessor) dropAt(index int) {
	if a.meta.Drop != nil && a.meta.Size > 0 {
		a.meta.Drop(a.at(index))
	}
}

// swapRemove moves the element at lastIndex into index (dropping the
// original index element first if requested), then shrinks length by
// one. It mirrors Chunk.SwapRemove's per-type loop body.
func (a *ComponentAccessor) swapRemove(index, lastIndex int, drop bool) {
	if drop {
		a.dropAt(index)
	}
	if index != lastIndex {
		if a.meta.Size > 0 {
			dst := a.at(index)
			src := a.at(lastIndex)
			copy(unsafe.Slice((*byte)(dst), a.meta.Size), unsafe.Slice((*byte)(src), a.meta.Size))
		}
		a.version++
		a.changed = true
	}
	a.length--
}

// ComponentSlice returns a read-only typed view of the accessor's
// live elements plus a release function that must be called when the
// caller is done reading. It aborts if an exclusive borrow is active.
func ComponentSlice[T any](a *ComponentAccessor) ([]T, func()) {
	a.borrow.borrowShared()
	var slice []T
	if a.length > 0 && a.meta.Size > 0 {
		slice = unsafe.Slice((*T)(a.ptr), a.length)
	}
	return slice, a.borrow.releaseShared
}

// ComponentSliceMut returns a mutable typed view of the accessor's
// live elements plus a release function. It aborts if any borrow,
// shared or exclusive, is already active.
func ComponentSliceMut[T any](a *ComponentAccessor) ([]T, func()) {
	a.borrow.borrowExclusive()
	var slice []T
	if a.length > 0 && a.meta.Size > 0 {
		slice = unsafe.Slice((*T)(a.ptr), a.length)
	}
	a.version++
	a.changed = true
	return slice, a.borrow.releaseExclusive
}

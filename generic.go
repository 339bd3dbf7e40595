package archecs

import "unsafe"

func (w *World) locate(entity Entity) (*archetype, EntityLocation, bool) {
	loc, ok := w.allocator.getLocation(entity)
	if !ok {
		return nil, EntityLocation{}, false
	}
	return w.storage.archetypeAt(loc.ArchetypeIndex), loc, true
}

func (w *World) chunkAt(arch *archetype, loc EntityLocation) *Chunk {
	return arch.chunkSets[loc.SetIndex].chunks[loc.ChunkIndex]
}

// GetComponent returns a shared, read-only pointer to entity's T
// component plus a release function the caller must call once done
// reading, or !ok if the entity is dead, carries no T, or the accessor
// is already exclusively borrowed elsewhere.
func GetComponent[T any](w *World, entity Entity) (value *T, release func(), ok bool) {
	arch, loc, found := w.locate(entity)
	if !found {
		return nil, nil, false
	}
	id, registered := tryComponentID[T]()
	if !registered {
		return nil, nil, false
	}
	acc := w.chunkAt(arch, loc).Component(id)
	if acc == nil {
		return nil, nil, false
	}
	if !acc.borrow.tryBorrowShared() {
		return nil, nil, false
	}
	return (*T)(acc.at(loc.ComponentIndex)), acc.borrow.releaseShared, true
}

// GetComponentMut returns an exclusive, mutable pointer to entity's T
// component plus a release function. The accessor's version and
// changed flag are bumped at borrow time, treating any exclusive
// borrow as a write.
func GetComponentMut[T any](w *World, entity Entity) (value *T, release func(), ok bool) {
	arch, loc, found := w.locate(entity)
	if !found {
		return nil, nil, false
	}
	id, registered := tryComponentID[T]()
	if !registered {
		return nil, nil, false
	}
	acc := w.chunkAt(arch, loc).Component(id)
	if acc == nil {
		return nil, nil, false
	}
	if !acc.borrow.tryBorrowExclusive() {
		return nil, nil, false
	}
	acc.version++
	acc.changed = true
	return (*T)(acc.at(loc.ComponentIndex)), acc.borrow.releaseExclusive, true
}

// GetComponentChanged reports whether entity's T component's chunk
// accessor has been written since its changed flag was last cleared,
// or !ok if the entity is dead or carries no T.
func GetComponentChanged[T any](w *World, entity Entity) (changed bool, ok bool) {
	arch, loc, found := w.locate(entity)
	if !found {
		return false, false
	}
	id, registered := tryComponentID[T]()
	if !registered {
		return false, false
	}
	acc := w.chunkAt(arch, loc).Component(id)
	if acc == nil {
		return false, false
	}
	return acc.Changed(), true
}

// GetTag returns a copy of entity's T tag value, or !ok if the entity
// is dead or carries no T tag.
func GetTag[T any](w *World, entity Entity) (value T, ok bool) {
	arch, loc, found := w.locate(entity)
	if !found {
		return value, false
	}
	id, registered := tryTagID[T]()
	if !registered {
		return value, false
	}
	storage := arch.tagStorage(id)
	if storage == nil {
		return value, false
	}
	ptr := storage.Get(loc.SetIndex)
	return *(*T)(ptr), true
}

// AddComponent attaches component to entity, or overwrites its value
// in place if entity already carries a T, mirroring
// World::add_component's fast path.
func AddComponent[T any](w *World, entity Entity, component T) {
	if existing, release, ok := GetComponentMut[T](w, entity); ok {
		*existing = component
		release()
		return
	}
	id := componentID[T]()
	chunk, _ := w.moveEntity(entity, func(desc *ArchetypeDescription) {
		desc.Components.set(uint16(id))
	}, 0, nil, false)
	chunk.Component(id).pushRaw(unsafe.Pointer(&component))
}

// RemoveComponent detaches entity's T component, if it has one.
func RemoveComponent[T any](w *World, entity Entity) {
	id, registered := tryComponentID[T]()
	if !registered {
		return
	}
	_, release, ok := GetComponent[T](w, entity)
	if !ok {
		return
	}
	release()
	w.moveEntity(entity, func(desc *ArchetypeDescription) {
		desc.Components.unset(uint16(id))
	}, 0, nil, false)
}

// AddTag attaches tag to entity, replacing any existing T tag value
// (a tag change is always a structural move since chunk-sets are keyed
// by tag value).
func AddTag[T any](w *World, entity Entity, tag T) {
	if _, ok := GetTag[T](w, entity); ok {
		RemoveTag[T](w, entity)
	}
	id := tagID[T]()
	w.moveEntity(entity, func(desc *ArchetypeDescription) {
		desc.Tags.set(uint16(id))
	}, id, unsafe.Pointer(&tag), true)
}

// RemoveTag detaches entity's T tag value, if it has one.
func RemoveTag[T any](w *World, entity Entity) {
	id, registered := tryTagID[T]()
	if !registered {
		return
	}
	if _, ok := GetTag[T](w, entity); !ok {
		return
	}
	w.moveEntity(entity, func(desc *ArchetypeDescription) {
		desc.Tags.unset(uint16(id))
	}, 0, nil, false)
}

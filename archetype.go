package archecs

import (
	"sort"
	"unsafe"
)

// ArchetypeDescription is the full type signature an archetype is
// keyed on: the sorted set of component types its chunks store, and
// the sorted set of tag types its chunk-sets are distinguished by.
// Two descriptions are equivalent iff both bitsets are equal.
type ArchetypeDescription struct {
	Components bitset256
	Tags       bitset256
}

// archetype is the vector of chunk-sets sharing one component/tag
// type signature. Every chunk in every chunk-set shares the
// same chunkLayout, computed once here.
type archetype struct {
	index     int
	desc      ArchetypeDescription
	componentIDs []ComponentTypeId
	tagIDs    []TagTypeId
	tags      []*TagStorage // parallel to tagIDs, sorted by tag type id
	layout    *chunkLayout
	chunkSets []*ChunkSet
}

// newArchetype builds an empty archetype for the given description,
// planning its chunk layout up front the way ArchetypeData::new does.
func newArchetype(index int, desc ArchetypeDescription) *archetype {
	componentIDs := make([]ComponentTypeId, 0, desc.Components.count())
	for _, id := range desc.Components.ids() {
		componentIDs = append(componentIDs, ComponentTypeId(id))
	}

	tagIDRaw := desc.Tags.ids()
	tagIDs := make([]TagTypeId, len(tagIDRaw))
	tags := make([]*TagStorage, len(tagIDRaw))
	for i, id := range tagIDRaw {
		tagIDs[i] = TagTypeId(id)
		tags[i] = NewTagStorage(tagTypeMeta[id])
	}

	return &archetype{
		index:        index,
		desc:         desc,
		componentIDs: componentIDs,
		tagIDs:       tagIDs,
		tags:         tags,
		layout:       newChunkLayout(componentIDs),
	}
}

// tagStorage returns the archetype's tag storage for id via binary
// search over the sorted tagIDs list, or nil if the archetype does not
// carry that tag type.
func (a *archetype) tagStorage(id TagTypeId) *TagStorage {
	i := sort.Search(len(a.tagIDs), func(i int) bool { return a.tagIDs[i] >= id })
	if i < len(a.tagIDs) && a.tagIDs[i] == id {
		return a.tags[i]
	}
	return nil
}

// Len reports the number of chunk-sets in the archetype.
func (a *archetype) Len() int { return len(a.chunkSets) }

// IsEmpty reports whether the archetype has no chunk-sets at all.
func (a *archetype) IsEmpty() bool { return len(a.chunkSets) == 0 }

// allocChunkSet appends a new, empty chunk-set and lets initialize
// push one tag value per archetype tag type onto it, mirroring
// ArchetypeData::alloc_chunk_set. It returns the new set's index.
func (a *archetype) allocChunkSet(initialize func(tags []*TagStorage)) int {
	a.chunkSets = append(a.chunkSets, &ChunkSet{})
	initialize(a.tags)
	return len(a.chunkSets) - 1
}

// getFreeChunk finds a chunk in setIndex with room for one more
// entity, allocating a new chunk if every existing one is full.
func (a *archetype) getFreeChunk(setIndex int) int {
	set := a.chunkSets[setIndex]
	return set.getFreeChunk(a.layout, ChunkID{ArchetypeIndex: a.index, SetIndex: setIndex})
}

// findOrCreateChunkSetLike finds a chunk-set in this archetype whose
// tag values equal srcArch's chunk-set at srcSetIndex, except for
// overrideID, whose value is taken from overridePtr instead (used by
// move-with-delta operations that add or replace one tag value while
// carrying every other tag value across unchanged). A new
// chunk-set is allocated, with values cloned across the same way, if
// no existing one matches.
func (a *archetype) findOrCreateChunkSetLike(srcArch *archetype, srcSetIndex int, overrideID TagTypeId, overridePtr unsafe.Pointer, hasOverride bool) int {
	valueFor := func(id TagTypeId) unsafe.Pointer {
		if hasOverride && id == overrideID {
			return overridePtr
		}
		return srcArch.tagStorage(id).Get(srcSetIndex)
	}

	for index := range a.chunkSets {
		matches := true
		for i, id := range a.tagIDs {
			meta := tagTypeMeta[id]
			if !meta.Eq(a.tags[i].Get(index), valueFor(id)) {
				matches = false
				break
			}
		}
		if matches {
			return index
		}
	}

	return a.allocChunkSet(func(tags []*TagStorage) {
		for i, id := range a.tagIDs {
			tags[i].PushClone(valueFor(id))
		}
	})
}

// chunkSetMatches reports whether every tag value in other's chunk-set
// otherSet equals this archetype's chunk-set at index, tag type by
// tag type.
func (a *archetype) chunkSetMatches(index int, other *archetype, otherSet int) bool {
	for i, id := range a.tagIDs {
		meta := tagTypeMeta[id]
		otherStorage := other.tagStorage(id)
		if otherStorage == nil {
			return false
		}
		if !meta.Eq(a.tags[i].Get(index), otherStorage.Get(otherSet)) {
			return false
		}
	}
	return true
}

// notifyChunkMoved reports chunk's current entities at their current
// id to onMoved, used whenever a merge reassigns a chunk's id so the
// owning World can correct its EntityLocation bookkeeping.
func notifyChunkMoved(chunk *Chunk, onMoved func(Entity, EntityLocation)) {
	if onMoved == nil {
		return
	}
	for i, e := range chunk.entities {
		onMoved(e, newEntityLocation(chunk.id.ArchetypeIndex, chunk.id.SetIndex, chunk.id.ChunkIndex, i))
	}
}

// merge absorbs every chunk-set from other into this archetype,
// following ArchetypeData::merge: each of other's chunk-sets is
// matched, in ascending order, against the first of this archetype's
// existing chunk-sets whose tag values are all equal (first-match, not
// best-match); chunks are appended into that set if found, otherwise
// other's chunk-set (and its tag values, already carried by other's
// TagStorage) becomes a new chunk-set here. onMoved is invoked for
// every entity whose chunk id changes as a result, so the caller can
// update its EntityLocation bookkeeping to match.
func (a *archetype) merge(other *archetype, onMoved func(Entity, EntityLocation)) {
	for otherIndex, set := range other.chunkSets {
		matchedAt := -1
		for index := range a.chunkSets {
			if a.chunkSetMatches(index, other, otherIndex) {
				matchedAt = index
				break
			}
		}

		if matchedAt >= 0 {
			target := a.chunkSets[matchedAt]
			for _, chunk := range set.chunks {
				chunk.id = ChunkID{ArchetypeIndex: a.index, SetIndex: matchedAt, ChunkIndex: len(target.chunks)}
				target.push(chunk)
				notifyChunkMoved(chunk, onMoved)
			}
			continue
		}

		newIndex := a.allocChunkSet(func(tags []*TagStorage) {
			for i, id := range a.tagIDs {
				otherStorage := other.tagStorage(id)
				tags[i].PushClone(otherStorage.Get(otherIndex))
			}
		})
		target := a.chunkSets[newIndex]
		for i, chunk := range set.chunks {
			chunk.id = ChunkID{ArchetypeIndex: a.index, SetIndex: newIndex, ChunkIndex: i}
			target.push(chunk)
			notifyChunkMoved(chunk, onMoved)
		}
	}
	other.chunkSets = nil
}

// defrag compacts every chunk-set in the archetype, in order,
// decrementing budget as entities move and invoking onMoved with each
// moved entity's new location. It stops and returns false as soon as
// one chunk-set reports incomplete, following ArchetypeData::defrag.
func (a *archetype) defrag(budget *int, onMoved func(Entity, EntityLocation)) bool {
	for setIndex, set := range a.chunkSets {
		complete := set.defrag(budget, func(e Entity, chunkIndex, componentIndex int) {
			onMoved(e, newEntityLocation(a.index, setIndex, chunkIndex, componentIndex))
		})
		if !complete {
			return false
		}
	}
	return true
}

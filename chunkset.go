package archecs

// ChunkSet holds every chunk sharing one assignment of tag values
// within an archetype. Chunks are appended in creation order
// and never reordered except by defrag, which compacts entities
// toward the low-index chunks.
type ChunkSet struct {
	chunks []*Chunk
}

// Len reports the number of chunks in the set, including empty ones
// still holding onto a freed (lazily-deallocated) buffer slot.
func (cs *ChunkSet) Len() int { return len(cs.chunks) }

// Chunks returns the set's chunks in index order.
func (cs *ChunkSet) Chunks() []*Chunk { return cs.chunks }

func (cs *ChunkSet) push(chunk *Chunk) {
	cs.chunks = append(cs.chunks, chunk)
}

// occupiedLen returns the length of the set's occupied prefix: the
// chunks slice up to (but not including) the longest suffix of empty
// chunks, following Chunkset::occupied.
func (cs *ChunkSet) occupiedLen() int {
	n := len(cs.chunks)
	for n > 0 && cs.chunks[n-1].IsEmpty() {
		n--
	}
	return n
}

// getFreeChunk returns the index of a chunk with room for at least
// one more entity, allocating a new one if every existing chunk is
// full, mirroring Archetype::get_free_chunk.
func (cs *ChunkSet) getFreeChunk(layout *chunkLayout, id ChunkID) int {
	for i, chunk := range cs.chunks {
		if !chunk.IsFull() {
			return i
		}
	}
	id.ChunkIndex = len(cs.chunks)
	cs.push(newChunk(id, layout))
	return len(cs.chunks) - 1
}

// chunkSetMovedFunc receives a moved entity's new chunk and component
// (slot) index; the caller translates this into an EntityLocation
// update.
type chunkSetMovedFunc func(entity Entity, chunkIndex, componentIndex int)

// defrag compacts entities in the set toward its lowest-index chunks,
// preferring to fill one chunk completely before moving to the next.
// It decrements budget by one for every entity moved and returns false
// (leaving work for a later call) as soon as budget reaches zero,
// following Chunkset::defrag's two-cursor algorithm.
//
// An empty chunk-set is considered already fully defragmented: the
// upstream algorithm computes last as occupiedLen()-1 without checking
// for the empty case, which underflows for a zero-length slice. This
// package instead reports completion for that case explicitly.
func (cs *ChunkSet) defrag(budget *int, onMoved chunkSetMovedFunc) bool {
	slice := cs.chunks[:cs.occupiedLen()]
	if len(slice) == 0 {
		return true
	}

	first := 0
	last := len(slice) - 1

	for {
		for first < last && slice[first].IsFull() {
			first++
		}
		for last > first && slice[last].IsEmpty() {
			last--
		}
		if first == last {
			return true
		}

		target := slice[first]
		source := slice[last]

		for {
			if *budget == 0 {
				return false
			}
			*budget--

			_, didMove := source.MoveEntity(target, source.Len()-1)
			if didMove {
				abortf("archecs: unexpected swap during chunk-set defrag move")
			}
			onMoved(target.entities[target.Len()-1], first, target.Len()-1)

			if target.IsFull() || source.IsEmpty() {
				break
			}
		}
	}
}

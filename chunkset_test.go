package archecs

import (
	"testing"
	"unsafe"
)

type chunksetTestMarker struct {
	N int
}

func newTestChunkSetWithMarkers(t *testing.T, markerID ComponentTypeId, layout *chunkLayout, perChunk []int) *ChunkSet {
	t.Helper()
	cs := &ChunkSet{}
	for ci, count := range perChunk {
		chunk := newChunk(ChunkID{ChunkIndex: ci}, layout)
		for i := 0; i < count; i++ {
			chunk.PushEntity(Entity{Index: uint32(ci*1000 + i), Generation: 1})
			v := chunksetTestMarker{N: ci*1000 + i}
			chunk.Component(markerID).pushRaw(unsafe.Pointer(&v))
		}
		cs.push(chunk)
	}
	return cs
}

func TestChunkSetDefragEmptySetCompletesImmediately(t *testing.T) {
	cs := &ChunkSet{}
	budget := 10
	moved := 0
	complete := cs.defrag(&budget, func(Entity, int, int) { moved++ })
	if !complete {
		t.Fatalf("expected an empty chunk-set to report complete immediately")
	}
	if moved != 0 {
		t.Fatalf("expected no moves for an empty chunk-set, got %d", moved)
	}
}

func TestChunkSetDefragCompactsTowardFirstChunk(t *testing.T) {
	ResetTypeRegistry()
	markerID := RegisterComponent[chunksetTestMarker]()
	layout := newChunkLayout([]ComponentTypeId{markerID})

	// a chunk two short of full, followed by a chunk with two entities: defrag
	// should move both from the last chunk into the first.
	cs := newTestChunkSetWithMarkers(t, markerID, layout, []int{layout.capacity - 2, 2})

	budget := 1000
	var movedLocations []int
	complete := cs.defrag(&budget, func(e Entity, chunkIndex, componentIndex int) {
		movedLocations = append(movedLocations, chunkIndex)
	})

	if !complete {
		t.Fatalf("expected defrag to complete within a generous budget")
	}
	if cs.chunks[0].Len() != layout.capacity {
		t.Fatalf("expected first chunk to be filled to capacity, got %d/%d", cs.chunks[0].Len(), layout.capacity)
	}
	if !cs.chunks[1].IsEmpty() {
		t.Fatalf("expected second chunk to be emptied and freed, got len %d", cs.chunks[1].Len())
	}
	if cs.chunks[1].IsAllocated() {
		t.Fatalf("expected emptied chunk to release its buffer")
	}
	for _, idx := range movedLocations {
		if idx != 0 {
			t.Fatalf("expected every move to land in chunk 0, got chunk %d", idx)
		}
	}
}

func TestChunkSetDefragRespectsBudget(t *testing.T) {
	ResetTypeRegistry()
	markerID := RegisterComponent[chunksetTestMarker]()
	layout := newChunkLayout([]ComponentTypeId{markerID})

	cs := newTestChunkSetWithMarkers(t, markerID, layout, []int{layout.capacity - 2, 2})

	budget := 1
	complete := cs.defrag(&budget, func(Entity, int, int) {})
	if complete {
		t.Fatalf("expected a budget of 1 to leave work remaining")
	}
	if budget != 0 {
		t.Fatalf("expected budget to be fully consumed, got %d", budget)
	}
}

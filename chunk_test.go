package archecs

import (
	"testing"
	"unsafe"
)

type chunkTestPosition struct {
	X, Y float64
}

type chunkTestVelocity struct {
	X, Y float64
}

func TestChunkLazyAllocationAndFree(t *testing.T) {
	ResetTypeRegistry()
	posID := RegisterComponent[chunkTestPosition]()
	layout := newChunkLayout([]ComponentTypeId{posID})
	c := newChunk(ChunkID{}, layout)

	if c.IsAllocated() {
		t.Fatalf("expected a fresh chunk to be unallocated")
	}

	row := c.PushEntity(Entity{Index: 1, Generation: 1})
	if !c.IsAllocated() {
		t.Fatalf("expected chunk to be allocated after first push")
	}
	c.Component(posID).pushRaw(unsafe.Pointer(&chunkTestPosition{X: 1, Y: 2}))

	if c.Len() != 1 {
		t.Fatalf("expected len 1, got %d", c.Len())
	}

	moved, didMove := c.SwapRemove(row, true)
	if didMove {
		t.Fatalf("did not expect a move when removing the only entity, got %+v", moved)
	}
	if c.IsAllocated() {
		t.Fatalf("expected chunk to free its buffer once empty")
	}
}

func TestChunkSwapRemoveMovesLastEntity(t *testing.T) {
	ResetTypeRegistry()
	posID := RegisterComponent[chunkTestPosition]()
	layout := newChunkLayout([]ComponentTypeId{posID})
	c := newChunk(ChunkID{}, layout)

	entities := []Entity{{Index: 1, Generation: 0}, {Index: 2, Generation: 0}, {Index: 3, Generation: 0}}
	for i, e := range entities {
		c.PushEntity(e)
		c.Component(posID).pushRaw(unsafe.Pointer(&chunkTestPosition{X: float64(i)}))
	}

	moved, didMove := c.SwapRemove(0, true)
	if !didMove || moved != entities[2] {
		t.Fatalf("expected entity %+v to move into slot 0, got %+v (didMove=%v)", entities[2], moved, didMove)
	}
	if c.Entities()[0] != entities[2] {
		t.Fatalf("expected slot 0 to now hold %+v, got %+v", entities[2], c.Entities()[0])
	}
	if c.Len() != 2 {
		t.Fatalf("expected len 2 after remove, got %d", c.Len())
	}
}

func TestChunkMoveEntityDropsNonRetainedComponents(t *testing.T) {
	ResetTypeRegistry()
	posID := RegisterComponent[chunkTestPosition]()
	velID := RegisterComponent[chunkTestVelocity]()

	sourceLayout := newChunkLayout([]ComponentTypeId{posID, velID})
	targetLayout := newChunkLayout([]ComponentTypeId{posID})

	source := newChunk(ChunkID{}, sourceLayout)
	target := newChunk(ChunkID{}, targetLayout)

	e := Entity{Index: 5, Generation: 0}
	source.PushEntity(e)
	source.Component(posID).pushRaw(unsafe.Pointer(&chunkTestPosition{X: 9, Y: 9}))
	source.Component(velID).pushRaw(unsafe.Pointer(&chunkTestVelocity{X: 1, Y: 1}))

	_, didMove := source.MoveEntity(target, 0)
	if didMove {
		t.Fatalf("did not expect a swap when moving the only source entity")
	}
	if target.Len() != 1 {
		t.Fatalf("expected target to gain one entity, got %d", target.Len())
	}
	if source.Len() != 0 {
		t.Fatalf("expected source to lose its entity, got %d", source.Len())
	}
	gotPos := *(*chunkTestPosition)(target.Component(posID).at(0))
	if gotPos.X != 9 || gotPos.Y != 9 {
		t.Fatalf("expected position to survive the move, got %+v", gotPos)
	}
}

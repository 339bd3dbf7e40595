package archecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type worldTestPosition struct {
	X, Y float64
}

type worldTestHealth struct {
	HP int
}

type worldTestFaction struct {
	Name string
}

func TestWorldInsertAndGetComponent(t *testing.T) {
	ResetTypeRegistry()
	factory := NewFactory()
	world := factory.CreateWorld()

	positions := []worldTestPosition{{X: 1, Y: 1}, {X: 2, Y: 2}}
	source := NewSource1(positions)
	entities := world.Insert(NoTags{}, &source)
	require.Len(t, entities, 2)

	pos, release, ok := GetComponent[worldTestPosition](world, entities[1])
	require.True(t, ok)
	require.Equal(t, worldTestPosition{X: 2, Y: 2}, *pos)
	release()
}

func TestWorldDeleteSwapsLastEntityIntoFreedSlot(t *testing.T) {
	ResetTypeRegistry()
	factory := NewFactory()
	world := factory.CreateWorld()

	source := NewSource1([]worldTestHealth{{HP: 1}, {HP: 2}, {HP: 3}})
	entities := world.Insert(NoTags{}, &source)

	require.True(t, world.Delete(entities[0]))
	require.False(t, world.IsAlive(entities[0]))
	require.True(t, world.IsAlive(entities[2]))

	hp, release, ok := GetComponent[worldTestHealth](world, entities[2])
	require.True(t, ok)
	require.Equal(t, 3, hp.HP)
	release()
}

func TestWorldAddComponentMovesEntityToNewArchetype(t *testing.T) {
	ResetTypeRegistry()
	factory := NewFactory()
	world := factory.CreateWorld()

	source := NewSource1([]worldTestPosition{{X: 1, Y: 1}})
	entities := world.Insert(NoTags{}, &source)
	entity := entities[0]

	AddComponent(world, entity, worldTestHealth{HP: 10})

	pos, releasePos, ok := GetComponent[worldTestPosition](world, entity)
	require.True(t, ok)
	require.Equal(t, worldTestPosition{X: 1, Y: 1}, *pos)
	releasePos()

	hp, releaseHP, ok := GetComponent[worldTestHealth](world, entity)
	require.True(t, ok)
	require.Equal(t, 10, hp.HP)
	releaseHP()
}

func TestWorldAddComponentOverwritesExistingValue(t *testing.T) {
	ResetTypeRegistry()
	factory := NewFactory()
	world := factory.CreateWorld()

	source := NewSource1([]worldTestHealth{{HP: 1}})
	entities := world.Insert(NoTags{}, &source)

	AddComponent(world, entities[0], worldTestHealth{HP: 99})

	hp, release, ok := GetComponent[worldTestHealth](world, entities[0])
	require.True(t, ok)
	require.Equal(t, 99, hp.HP)
	release()
}

func TestWorldRemoveComponentDropsType(t *testing.T) {
	ResetTypeRegistry()
	factory := NewFactory()
	world := factory.CreateWorld()

	src := NewSource2([]worldTestPosition{{X: 1, Y: 1}}, []worldTestHealth{{HP: 5}})
	entities := world.Insert(NoTags{}, &src)

	RemoveComponent[worldTestHealth](world, entities[0])

	_, _, ok := GetComponent[worldTestHealth](world, entities[0])
	require.False(t, ok)

	pos, release, ok := GetComponent[worldTestPosition](world, entities[0])
	require.True(t, ok)
	require.Equal(t, worldTestPosition{X: 1, Y: 1}, *pos)
	release()
}

func TestWorldAddTagMovesEntityAndRemoveTagReverts(t *testing.T) {
	ResetTypeRegistry()
	factory := NewFactory()
	world := factory.CreateWorld()

	source := NewSource1([]worldTestPosition{{X: 0, Y: 0}})
	entities := world.Insert(NoTags{}, &source)
	entity := entities[0]

	AddTag(world, entity, worldTestFaction{Name: "red"})
	tag, ok := GetTag[worldTestFaction](world, entity)
	require.True(t, ok)
	require.Equal(t, "red", tag.Name)

	AddTag(world, entity, worldTestFaction{Name: "blue"})
	tag, ok = GetTag[worldTestFaction](world, entity)
	require.True(t, ok)
	require.Equal(t, "blue", tag.Name)

	RemoveTag[worldTestFaction](world, entity)
	_, ok = GetTag[worldTestFaction](world, entity)
	require.False(t, ok)
}

func TestWorldInsertGroupsByTagValue(t *testing.T) {
	ResetTypeRegistry()
	factory := NewFactory()
	world := factory.CreateWorld()

	src1 := NewSource1([]worldTestPosition{{X: 1}})
	world.Insert(Tag1[worldTestFaction]{A: worldTestFaction{Name: "red"}}, &src1)

	src2 := NewSource1([]worldTestPosition{{X: 2}})
	world.Insert(Tag1[worldTestFaction]{A: worldTestFaction{Name: "blue"}}, &src2)

	src3 := NewSource1([]worldTestPosition{{X: 3}})
	world.Insert(Tag1[worldTestFaction]{A: worldTestFaction{Name: "red"}}, &src3)

	stats := world.Stats()
	require.Equal(t, 1, stats.Archetypes)
	require.Equal(t, 2, stats.ChunkSets, "expected distinct tag values to land in distinct chunk-sets")
	require.Equal(t, 3, stats.Entities)
}

func TestWorldMergeCombinesDisjointEntities(t *testing.T) {
	ResetTypeRegistry()
	factory := NewFactory()
	a := factory.CreateWorld()
	b := factory.CreateWorld()

	srcA := NewSource1([]worldTestPosition{{X: 1}})
	entitiesA := a.Insert(NoTags{}, &srcA)

	srcB := NewSource1([]worldTestPosition{{X: 2}})
	entitiesB := b.Insert(NoTags{}, &srcB)

	require.NotEqual(t, entitiesA[0], entitiesB[0], "disjoint blockAllocator ranges must give the two worlds distinct entity indices")

	a.Merge(b)

	require.True(t, a.IsAlive(entitiesA[0]))
	require.True(t, a.IsAlive(entitiesB[0]))
	require.Equal(t, 2, a.Stats().Entities)

	posA, releaseA, ok := GetComponent[worldTestPosition](a, entitiesA[0])
	require.True(t, ok)
	require.Equal(t, worldTestPosition{X: 1}, *posA)
	releaseA()

	posB, releaseB, ok := GetComponent[worldTestPosition](a, entitiesB[0])
	require.True(t, ok)
	require.Equal(t, worldTestPosition{X: 2}, *posB)
	releaseB()
}

func TestWorldDefragCompactsFragmentedChunkSet(t *testing.T) {
	ResetTypeRegistry()
	factory := NewFactory()
	world := factory.CreateWorld()

	// 3000 entities span three 1024-slot chunks; deleting every other
	// one leaves each chunk partly empty, so defrag has to move entities.
	data := make([]worldTestPosition, 3000)
	src := NewSource1(data)
	entities := world.Insert(NoTags{}, &src)
	for i, e := range entities {
		if i%2 == 0 {
			world.Delete(e)
		}
	}

	complete := world.Defrag(1000, nil)
	require.True(t, complete)
	require.Equal(t, 1500, world.Stats().Entities)
}

package archecs

import "unsafe"

// ComponentSource is the collaborator an insert operation drains into
// one or more chunks: it knows the component types it carries, how
// many elements remain, and how to write as many of them as fit into
// one chunk, creating a fresh Entity for each . The
// hand-specialized arities below favor a per-arity generated-code
// style over a single reflection-driven variadic path.
type ComponentSource interface {
	describe(desc *ArchetypeDescription)
	isEmpty() bool
	write(chunk *Chunk, createEntity func() Entity) int
}

// Source1 carries one component type per entity.
type Source1[A any] struct {
	data []A
}

// NewSource1 builds a ComponentSource from a slice of component
// values, one entity per element.
func NewSource1[A any](data []A) Source1[A] { return Source1[A]{data: data} }

func (s Source1[A]) describe(desc *ArchetypeDescription) {
	desc.Components.set(uint16(componentID[A]()))
}

func (s Source1[A]) isEmpty() bool { return len(s.data) == 0 }

func (s *Source1[A]) write(chunk *Chunk, createEntity func() Entity) int {
	id := componentID[A]()
	acc := chunk.Component(id)
	n := 0
	for len(s.data) > 0 && !chunk.IsFull() {
		chunk.PushEntity(createEntity())
		acc.pushRaw(unsafe.Pointer(&s.data[0]))
		s.data = s.data[1:]
		n++
	}
	return n
}

// Source2 carries two component types per entity.
type Source2[A, B any] struct {
	a []A
	b []B
}

func NewSource2[A, B any](a []A, b []B) Source2[A, B] { return Source2[A, B]{a: a, b: b} }

func (s Source2[A, B]) describe(desc *ArchetypeDescription) {
	desc.Components.set(uint16(componentID[A]()))
	desc.Components.set(uint16(componentID[B]()))
}

func (s Source2[A, B]) isEmpty() bool { return len(s.a) == 0 }

func (s *Source2[A, B]) write(chunk *Chunk, createEntity func() Entity) int {
	accA := chunk.Component(componentID[A]())
	accB := chunk.Component(componentID[B]())
	n := 0
	for len(s.a) > 0 && !chunk.IsFull() {
		chunk.PushEntity(createEntity())
		accA.pushRaw(unsafe.Pointer(&s.a[0]))
		accB.pushRaw(unsafe.Pointer(&s.b[0]))
		s.a = s.a[1:]
		s.b = s.b[1:]
		n++
	}
	return n
}

// Source3 carries three component types per entity.
type Source3[A, B, C any] struct {
	a []A
	b []B
	c []C
}

func NewSource3[A, B, C any](a []A, b []B, c []C) Source3[A, B, C] {
	return Source3[A, B, C]{a: a, b: b, c: c}
}

func (s Source3[A, B, C]) describe(desc *ArchetypeDescription) {
	desc.Components.set(uint16(componentID[A]()))
	desc.Components.set(uint16(componentID[B]()))
	desc.Components.set(uint16(componentID[C]()))
}

func (s Source3[A, B, C]) isEmpty() bool { return len(s.a) == 0 }

func (s *Source3[A, B, C]) write(chunk *Chunk, createEntity func() Entity) int {
	accA := chunk.Component(componentID[A]())
	accB := chunk.Component(componentID[B]())
	accC := chunk.Component(componentID[C]())
	n := 0
	for len(s.a) > 0 && !chunk.IsFull() {
		chunk.PushEntity(createEntity())
		accA.pushRaw(unsafe.Pointer(&s.a[0]))
		accB.pushRaw(unsafe.Pointer(&s.b[0]))
		accC.pushRaw(unsafe.Pointer(&s.c[0]))
		s.a = s.a[1:]
		s.b = s.b[1:]
		s.c = s.c[1:]
		n++
	}
	return n
}

// Source4 carries four component types per entity.
type Source4[A, B, C, D any] struct {
	a []A
	b []B
	c []C
	d []D
}

func NewSource4[A, B, C, D any](a []A, b []B, c []C, d []D) Source4[A, B, C, D] {
	return Source4[A, B, C, D]{a: a, b: b, c: c, d: d}
}

func (s Source4[A, B, C, D]) describe(desc *ArchetypeDescription) {
	desc.Components.set(uint16(componentID[A]()))
	desc.Components.set(uint16(componentID[B]()))
	desc.Components.set(uint16(componentID[C]()))
	desc.Components.set(uint16(componentID[D]()))
}

func (s Source4[A, B, C, D]) isEmpty() bool { return len(s.a) == 0 }

func (s *Source4[A, B, C, D]) write(chunk *Chunk, createEntity func() Entity) int {
	accA := chunk.Component(componentID[A]())
	accB := chunk.Component(componentID[B]())
	accC := chunk.Component(componentID[C]())
	accD := chunk.Component(componentID[D]())
	n := 0
	for len(s.a) > 0 && !chunk.IsFull() {
		chunk.PushEntity(createEntity())
		accA.pushRaw(unsafe.Pointer(&s.a[0]))
		accB.pushRaw(unsafe.Pointer(&s.b[0]))
		accC.pushRaw(unsafe.Pointer(&s.c[0]))
		accD.pushRaw(unsafe.Pointer(&s.d[0]))
		s.a = s.a[1:]
		s.b = s.b[1:]
		s.c = s.c[1:]
		s.d = s.d[1:]
		n++
	}
	return n
}

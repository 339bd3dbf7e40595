package archecs

import "unsafe"

// TagSet is the collaborator an insert operation hands the World: it knows which tag types it carries, can add its
// bits to an ArchetypeDescription being built, can push its values
// onto a freshly allocated chunk-set's tag storages, and can report
// whether it matches the values a chunk-set already holds at a given
// index, so inserts with identical tag values land in the same
// chunk-set.
type TagSet interface {
	describe(desc *ArchetypeDescription)
	push(tags []*TagStorage, tagIDs []TagTypeId)
	matches(tags []*TagStorage, tagIDs []TagTypeId, index int) bool
}

func tagIndexOf(tagIDs []TagTypeId, id TagTypeId) int {
	for i, t := range tagIDs {
		if t == id {
			return i
		}
	}
	return -1
}

// Tag1 is a one-tag-type TagSet, the hand-specialized arity-1 case in
// the family used alongside Source1..Source4 in World.Insert.
type Tag1[A any] struct {
	A A
}

func (t Tag1[A]) describe(desc *ArchetypeDescription) {
	desc.Tags.set(uint16(tagID[A]()))
}

func (t Tag1[A]) push(tags []*TagStorage, tagIDs []TagTypeId) {
	i := tagIndexOf(tagIDs, tagID[A]())
	tags[i].Push(unsafe.Pointer(&t.A))
}

func (t Tag1[A]) matches(tags []*TagStorage, tagIDs []TagTypeId, index int) bool {
	i := tagIndexOf(tagIDs, tagID[A]())
	meta := tagTypeMeta[tagID[A]()]
	return meta.Eq(unsafe.Pointer(&t.A), tags[i].Get(index))
}

// Tag2 is the two-tag-type TagSet.
type Tag2[A, B any] struct {
	A A
	B B
}

func (t Tag2[A, B]) describe(desc *ArchetypeDescription) {
	desc.Tags.set(uint16(tagID[A]()))
	desc.Tags.set(uint16(tagID[B]()))
}

func (t Tag2[A, B]) push(tags []*TagStorage, tagIDs []TagTypeId) {
	tags[tagIndexOf(tagIDs, tagID[A]())].Push(unsafe.Pointer(&t.A))
	tags[tagIndexOf(tagIDs, tagID[B]())].Push(unsafe.Pointer(&t.B))
}

func (t Tag2[A, B]) matches(tags []*TagStorage, tagIDs []TagTypeId, index int) bool {
	ai, bi := tagIndexOf(tagIDs, tagID[A]()), tagIndexOf(tagIDs, tagID[B]())
	return tagTypeMeta[tagID[A]()].Eq(unsafe.Pointer(&t.A), tags[ai].Get(index)) &&
		tagTypeMeta[tagID[B]()].Eq(unsafe.Pointer(&t.B), tags[bi].Get(index))
}

// Tag3 is the three-tag-type TagSet.
type Tag3[A, B, C any] struct {
	A A
	B B
	C C
}

func (t Tag3[A, B, C]) describe(desc *ArchetypeDescription) {
	desc.Tags.set(uint16(tagID[A]()))
	desc.Tags.set(uint16(tagID[B]()))
	desc.Tags.set(uint16(tagID[C]()))
}

func (t Tag3[A, B, C]) push(tags []*TagStorage, tagIDs []TagTypeId) {
	tags[tagIndexOf(tagIDs, tagID[A]())].Push(unsafe.Pointer(&t.A))
	tags[tagIndexOf(tagIDs, tagID[B]())].Push(unsafe.Pointer(&t.B))
	tags[tagIndexOf(tagIDs, tagID[C]())].Push(unsafe.Pointer(&t.C))
}

func (t Tag3[A, B, C]) matches(tags []*TagStorage, tagIDs []TagTypeId, index int) bool {
	ai, bi, ci := tagIndexOf(tagIDs, tagID[A]()), tagIndexOf(tagIDs, tagID[B]()), tagIndexOf(tagIDs, tagID[C]())
	return tagTypeMeta[tagID[A]()].Eq(unsafe.Pointer(&t.A), tags[ai].Get(index)) &&
		tagTypeMeta[tagID[B]()].Eq(unsafe.Pointer(&t.B), tags[bi].Get(index)) &&
		tagTypeMeta[tagID[C]()].Eq(unsafe.Pointer(&t.C), tags[ci].Get(index))
}

// Tag4 is the four-tag-type TagSet.
type Tag4[A, B, C, D any] struct {
	A A
	B B
	C C
	D D
}

func (t Tag4[A, B, C, D]) describe(desc *ArchetypeDescription) {
	desc.Tags.set(uint16(tagID[A]()))
	desc.Tags.set(uint16(tagID[B]()))
	desc.Tags.set(uint16(tagID[C]()))
	desc.Tags.set(uint16(tagID[D]()))
}

func (t Tag4[A, B, C, D]) push(tags []*TagStorage, tagIDs []TagTypeId) {
	tags[tagIndexOf(tagIDs, tagID[A]())].Push(unsafe.Pointer(&t.A))
	tags[tagIndexOf(tagIDs, tagID[B]())].Push(unsafe.Pointer(&t.B))
	tags[tagIndexOf(tagIDs, tagID[C]())].Push(unsafe.Pointer(&t.C))
	tags[tagIndexOf(tagIDs, tagID[D]())].Push(unsafe.Pointer(&t.D))
}

func (t Tag4[A, B, C, D]) matches(tags []*TagStorage, tagIDs []TagTypeId, index int) bool {
	ai := tagIndexOf(tagIDs, tagID[A]())
	bi := tagIndexOf(tagIDs, tagID[B]())
	ci := tagIndexOf(tagIDs, tagID[C]())
	di := tagIndexOf(tagIDs, tagID[D]())
	return tagTypeMeta[tagID[A]()].Eq(unsafe.Pointer(&t.A), tags[ai].Get(index)) &&
		tagTypeMeta[tagID[B]()].Eq(unsafe.Pointer(&t.B), tags[bi].Get(index)) &&
		tagTypeMeta[tagID[C]()].Eq(unsafe.Pointer(&t.C), tags[ci].Get(index)) &&
		tagTypeMeta[tagID[D]()].Eq(unsafe.Pointer(&t.D), tags[di].Get(index))
}

// NoTags is the empty TagSet, used for inserts that carry no tag
// values at all.
type NoTags struct{}

func (NoTags) describe(*ArchetypeDescription)           {}
func (NoTags) push([]*TagStorage, []TagTypeId)           {}
func (NoTags) matches([]*TagStorage, []TagTypeId, int) bool { return true }

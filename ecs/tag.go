package ecs

// MaxTags is the width of a TagMask and the hard upper bound on distinct tag
// names a world can register.
const MaxTags = 256

// TagMask is a fixed 256-bit set of tag bits for one entity.
type TagMask [4]uint64

// set sets bit b.
func (m *TagMask) set(b int) {
	m[b>>6] |= 1 << (b & 63)
}

// clear clears bit b.
func (m *TagMask) clear(b int) {
	m[b>>6] &^= 1 << (b & 63)
}

// Has reports whether bit b is set.
func (m TagMask) Has(b int) bool {
	return m[b>>6]&(1<<(b&63)) != 0
}

// ContainsAll reports whether every bit in other is also set in m.
func (m TagMask) ContainsAll(other TagMask) bool {
	for i := range m {
		if m[i]&other[i] != other[i] {
			return false
		}
	}
	return true
}

// Intersects reports whether m and other share any bit.
func (m TagMask) Intersects(other TagMask) bool {
	for i := range m {
		if m[i]&other[i] != 0 {
			return true
		}
	}
	return false
}

// IsZero reports whether no bit is set.
func (m TagMask) IsZero() bool {
	return m == TagMask{}
}

// tagIndex maps tag names to stable bit positions and stores one TagMask per
// entity slot. Bit positions are assigned on first use and never change for
// the lifetime of the world.
type tagIndex struct {
	capacity int            // Fixed at world construction, at most MaxTags
	registry map[string]int // Tag name -> bit position
	names    []string       // Bit position -> tag name, for inspection
	masks    []TagMask      // Per-slot tag bits, indexed by entity slot
}

// newTagIndex creates a tag index with the given registry capacity.
func newTagIndex(capacity int) tagIndex {
	return tagIndex{
		capacity: capacity,
		registry: make(map[string]int, capacity),
		names:    make([]string, 0, capacity),
		masks:    make([]TagMask, 0, sparseCapacity),
	}
}

// bitOf returns the bit position for a registered tag name.
func (ti *tagIndex) bitOf(name string) (int, bool) {
	b, ok := ti.registry[name]
	return b, ok
}

// register returns the bit position for a tag name, assigning the next free
// bit on first use. Fails once the registry capacity is reached.
func (ti *tagIndex) register(name string) (int, error) {
	if b, ok := ti.registry[name]; ok {
		return b, nil
	}
	b := len(ti.names)
	if b >= ti.capacity {
		return 0, ErrTagCapacityExceeded
	}
	ti.registry[name] = b
	ti.names = append(ti.names, name)
	return b, nil
}

// add sets the tag bit for a slot, growing the mask table if needed.
func (ti *tagIndex) add(slot uint32, bit int) {
	for int(slot) >= len(ti.masks) {
		ti.masks = append(ti.masks, TagMask{})
	}
	ti.masks[slot].set(bit)
}

// remove clears the tag bit for a slot.
func (ti *tagIndex) remove(slot uint32, bit int) {
	if int(slot) < len(ti.masks) {
		ti.masks[slot].clear(bit)
	}
}

// maskOf returns the tag mask for a slot.
func (ti *tagIndex) maskOf(slot uint32) TagMask {
	if int(slot) >= len(ti.masks) {
		return TagMask{}
	}
	return ti.masks[slot]
}

// clearSlot drops every tag bit for a slot. Called on despawn.
func (ti *tagIndex) clearSlot(slot uint32) {
	if int(slot) < len(ti.masks) {
		ti.masks[slot] = TagMask{}
	}
}

// namesOf returns the tag names set for a slot, for inspection.
func (ti *tagIndex) namesOf(slot uint32) []string {
	mask := ti.maskOf(slot)
	var names []string
	for b, name := range ti.names {
		if mask.Has(b) {
			names = append(names, name)
		}
	}
	return names
}

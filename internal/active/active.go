// Package active tracks in-flight rule activations during a parse.
//
// The match engine enters an activation when it starts matching a rule at
// an input position and exits it when that attempt completes. Re-entering
// an activation that is already in flight means the grammar is left
// recursive at that position; the engine fails such a branch instead of
// recursing forever.
//
// Activations are keyed by rule*(inputLen+1)+pos. For small key spaces a
// sparse set gives O(1) enter/exit with two flat arrays; oversized key
// spaces fall back to a map so memory stays bounded regardless of input
// length.
package active

import "github.com/coregx/gram/internal/conv"

// Tracker records which (rule, position) pairs are currently being matched.
type Tracker struct {
	stride int // inputLen + 1

	// Exactly one of set and overflow is in use.
	set      *Set
	overflow map[uint64]struct{}
}

// NewTracker creates a tracker for numRules rules over an input of
// inputLen bytes. When the key space exceeds maxEntries the tracker uses a
// map instead of a sparse set.
func NewTracker(numRules, inputLen, maxEntries int) *Tracker {
	t := &Tracker{stride: inputLen + 1}
	keys := uint64(numRules) * uint64(inputLen+1)
	if keys > 0 && keys <= uint64(maxEntries) {
		t.set = NewSet(conv.Uint64ToUint32(keys))
	} else {
		t.overflow = make(map[uint64]struct{})
	}
	return t
}

// Enter records that rule is being matched at pos. It returns false, and
// records nothing, when that activation is already in flight.
func (t *Tracker) Enter(rule, pos int) bool {
	if t.set != nil {
		return t.set.Insert(t.key(rule, pos))
	}
	key := uint64(rule)*uint64(t.stride) + uint64(pos)
	if _, ok := t.overflow[key]; ok {
		return false
	}
	t.overflow[key] = struct{}{}
	return true
}

// Exit removes the activation of rule at pos. Exiting an activation that
// is not in flight is a no-op.
func (t *Tracker) Exit(rule, pos int) {
	if t.set != nil {
		t.set.Remove(t.key(rule, pos))
		return
	}
	delete(t.overflow, uint64(rule)*uint64(t.stride)+uint64(pos))
}

// Reset drops all activations, keeping allocations for reuse.
func (t *Tracker) Reset() {
	if t.set != nil {
		t.set.Clear()
		return
	}
	clear(t.overflow)
}

// key computes the flat activation key for (rule, pos).
func (t *Tracker) key(rule, pos int) uint32 {
	return conv.IntToUint32(rule*t.stride + pos)
}

// Set is a sparse set of uint32 keys supporting O(1) insert, remove,
// membership and clear. It keeps a sparse array mapping keys to indices in
// a dense array of live keys, so Clear need not touch the sparse array.
type Set struct {
	sparse []uint32
	dense  []uint32
	size   uint32
}

// NewSet creates a sparse set holding keys in [0, capacity).
func NewSet(capacity uint32) *Set {
	return &Set{sparse: make([]uint32, capacity)}
}

// Insert adds key to the set. It returns false, and leaves the set
// unchanged, when key is already present.
func (s *Set) Insert(key uint32) bool {
	if s.Contains(key) {
		return false
	}
	s.dense = append(s.dense, key)
	s.sparse[key] = s.size
	s.size++
	return true
}

// Contains reports whether key is in the set.
func (s *Set) Contains(key uint32) bool {
	idx := s.sparse[key]
	return idx < s.size && s.dense[idx] == key
}

// Remove deletes key from the set. Removing an absent key is a no-op.
func (s *Set) Remove(key uint32) {
	if !s.Contains(key) {
		return
	}
	idx := s.sparse[key]
	last := s.dense[s.size-1]
	s.dense[idx] = last
	s.sparse[last] = idx
	s.size--
	s.dense = s.dense[:s.size]
}

// Clear removes all keys in O(1).
func (s *Set) Clear() {
	s.size = 0
	s.dense = s.dense[:0]
}

// Size returns the number of live keys.
func (s *Set) Size() int { return int(s.size) }

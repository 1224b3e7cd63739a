package saveslot

import (
	"maps"
	"sort"
)

// Store is the in-memory layered cache: one default bucket plus named
// slots, each subdivided into named files of string-keyed values.
//
// Values are opaque pre-serialized strings; the Store never inspects them.
// Last write to a key wins. Buckets are materialized lazily on first write.
//
// Store is not safe for concurrent use; see the package documentation for
// the single-owner model.
type Store struct {
	defaults map[string]string
	slots    map[string]map[string]map[string]string
	active   string
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		defaults: make(map[string]string),
		slots:    make(map[string]map[string]map[string]string),
	}
}

// --- Default bucket ---

// SetDefault stores value under key in the default bucket.
func (s *Store) SetDefault(key, value string) {
	s.defaults[key] = value
}

// GetDefault retrieves the value stored under key in the default bucket.
func (s *Store) GetDefault(key string) (string, bool) {
	v, ok := s.defaults[key]

	return v, ok
}

// ClearDefault removes all keys from the default bucket.
func (s *Store) ClearDefault() {
	s.defaults = make(map[string]string)
}

// --- Slot buckets ---

// SetSlot stores value under key in the given slot file, creating the slot
// and file buckets on demand.
func (s *Store) SetSlot(slot, file, key, value string) {
	s.bucket(slot, file)[key] = value
}

// GetSlot retrieves the value stored under key in the given slot file.
// Returns ("", false) if the slot, file, or key does not exist.
func (s *Store) GetSlot(slot, file, key string) (string, bool) {
	files, ok := s.slots[slot]
	if !ok {
		return "", false
	}

	bucket, ok := files[file]
	if !ok {
		return "", false
	}

	v, ok := bucket[key]

	return v, ok
}

// ClearSlot removes the named slot and all its file buckets from memory.
func (s *Store) ClearSlot(slot string) {
	delete(s.slots, slot)
}

// ClearAllSlots removes every slot from memory. The default bucket is
// untouched.
func (s *Store) ClearAllSlots() {
	s.slots = make(map[string]map[string]map[string]string)
}

// ClearAll removes the default bucket and every slot from memory.
func (s *Store) ClearAll() {
	s.ClearDefault()
	s.ClearAllSlots()
}

// --- Active slot ---

// ActiveSlot returns the current active-slot name, or "" if none is set.
func (s *Store) ActiveSlot() string {
	return s.active
}

// SetActive stores value under key in the active slot's file bucket.
// If no active slot is set this is a no-op; the engine's typed helpers
// surface [ErrNoActiveSlot] instead.
func (s *Store) SetActive(file, key, value string) {
	if s.active == "" {
		return
	}

	s.SetSlot(s.active, file, key, value)
}

// GetActive retrieves the value stored under key in the active slot's file
// bucket.
func (s *Store) GetActive(file, key string) (string, bool) {
	if s.active == "" {
		return "", false
	}

	return s.GetSlot(s.active, file, key)
}

// setActive updates the active-slot pointer. It does not create the slot;
// the pointer is pure indirection. Notification dispatch is the engine's
// job.
func (s *Store) setActive(slot string) {
	s.active = slot
}

// --- Internal bucket access ---

// bucket returns the key->value bucket for slot/file, creating both levels
// on demand. All lazy materialization funnels through here.
func (s *Store) bucket(slot, file string) map[string]string {
	files, ok := s.slots[slot]
	if !ok {
		files = make(map[string]map[string]string)
		s.slots[slot] = files
	}

	b, ok := files[file]
	if !ok {
		b = make(map[string]string)
		files[file] = b
	}

	return b
}

// ensureSlot materializes an empty slot bucket if it does not exist.
// Used when discovering slots from disk during a load of all slots.
func (s *Store) ensureSlot(slot string) {
	if _, ok := s.slots[slot]; !ok {
		s.slots[slot] = make(map[string]map[string]string)
	}
}

// SlotNames returns the in-memory slot names in sorted order. For the
// slots present on disk, see [Engine.ListSlotNames].
func (s *Store) SlotNames() []string {
	names := make([]string, 0, len(s.slots))
	for name := range s.slots {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// FileNames returns the in-memory file names of a slot in sorted order.
func (s *Store) FileNames(slot string) []string {
	files := s.slots[slot]

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// DefaultKeys returns the keys of the default bucket in sorted order.
func (s *Store) DefaultKeys() []string {
	keys := make([]string, 0, len(s.defaults))
	for key := range s.defaults {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// SlotFileKeys returns the keys of a slot file bucket in sorted order.
func (s *Store) SlotFileKeys(slot, file string) []string {
	files, ok := s.slots[slot]
	if !ok {
		return nil
	}

	bucket, ok := files[file]
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(bucket))
	for key := range bucket {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// snapshotDefault returns a copy of the default bucket for serialization.
func (s *Store) snapshotDefault() map[string]string {
	return maps.Clone(s.defaults)
}

// snapshotSlotFile returns a copy of a slot file bucket for serialization.
// Returns an empty map if the bucket does not exist.
func (s *Store) snapshotSlotFile(slot, file string) map[string]string {
	if files, ok := s.slots[slot]; ok {
		if b, ok := files[file]; ok {
			return maps.Clone(b)
		}
	}

	return map[string]string{}
}

// replaceDefault replaces the default bucket's contents wholesale.
func (s *Store) replaceDefault(m map[string]string) {
	s.defaults = m
}

// replaceSlotFile replaces a slot file bucket's contents wholesale,
// creating the slot on demand.
func (s *Store) replaceSlotFile(slot, file string, m map[string]string) {
	files, ok := s.slots[slot]
	if !ok {
		files = make(map[string]map[string]string)
		s.slots[slot] = files
	}

	files[file] = m
}

package commands

import (
	"slices"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
)

// SlotLocker serializes commands that read and then mutate the same batches.
//
// Keys name a zone within a slot, the courier pool of a slot, or a single courier.
// Lock takes every key a command needs in one call and in sorted order, so two
// commands can never wait on each other in a cycle. Entries are reference counted
// and dropped once nobody holds or waits for them.
type SlotLocker struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewSlotLocker() *SlotLocker {
	return &SlotLocker{locks: make(map[string]*lockEntry)}
}

// ZoneKey guards the batches owned by zoneID in slot.
func ZoneKey(slot kernel.Slot, zoneID zone.ID) string {
	return "slot/" + slot.String() + "/zone/" + zoneID.String()
}

// AreaKeys guards zoneID and every neighbor in slot. Order assignment mutates a
// neighbor's batch on an adjacent join and counts the neighbors' orders for capacity.
func AreaKeys(slot kernel.Slot, area []zone.ID) []string {
	keys := make([]string, 0, len(area))
	for _, id := range area {
		keys = append(keys, ZoneKey(slot, id))
	}
	return keys
}

// CourierPoolKey guards courier attachment in slot.
func CourierPoolKey(slot kernel.Slot) string {
	return "slot/" + slot.String() + "/couriers"
}

// CourierKey guards the status of one courier.
func CourierKey(courierID kernel.UUID) string {
	return "courier/" + courierID.String()
}

// Lock blocks until every key is held and returns the function that releases them.
func (l *SlotLocker) Lock(keys ...string) (unlock func()) {
	keys = slices.Clone(keys)
	slices.Sort(keys)
	keys = slices.Compact(keys)

	entries := make([]*lockEntry, 0, len(keys))
	l.mu.Lock()
	for _, key := range keys {
		e, ok := l.locks[key]
		if !ok {
			e = &lockEntry{}
			l.locks[key] = e
		}
		e.refs++
		entries = append(entries, e)
	}
	l.mu.Unlock()

	for _, e := range entries {
		e.mu.Lock()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(entries) - 1; i >= 0; i-- {
				entries[i].mu.Unlock()
			}

			l.mu.Lock()
			defer l.mu.Unlock()
			for i, key := range keys {
				entries[i].refs--
				if entries[i].refs == 0 {
					delete(l.locks, key)
				}
			}
		})
	}
}

// held reports how many keys currently have an entry.
func (l *SlotLocker) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

package schedule

import (
	"sort"
	"sync"
)

// IndexEntry is one live slot in the availability index.
type IndexEntry struct {
	ReservationID string
	Requester     string
	TimeSlot
}

// AvailabilityIndex keeps, per resource, the slots of all non-cancelled
// reservations ordered by start. It is a rebuildable projection over the
// reservations table, never a source of truth: on doubt, Rebuild from the
// store. Mutations and queries are safe to interleave from any goroutine.
type AvailabilityIndex struct {
	mu         sync.RWMutex
	byResource map[string][]IndexEntry
	locations  map[string]string // reservation id -> resource id
}

func NewAvailabilityIndex() *AvailabilityIndex {
	return &AvailabilityIndex{
		byResource: make(map[string][]IndexEntry),
		locations:  make(map[string]string),
	}
}

// Insert adds an entry keeping the per-resource slice sorted by start.
// Inserting an id that is already present is a no-op.
func (ix *AvailabilityIndex) Insert(resourceID string, entry IndexEntry) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, ok := ix.locations[entry.ReservationID]; ok {
		return
	}

	entries := ix.byResource[resourceID]
	pos := sort.Search(len(entries), func(i int) bool {
		return entries[i].Start.After(entry.Start)
	})

	entries = append(entries, IndexEntry{})
	copy(entries[pos+1:], entries[pos:])
	entries[pos] = entry

	ix.byResource[resourceID] = entries
	ix.locations[entry.ReservationID] = resourceID
}

// Remove drops the entry for a reservation id. Unknown ids are ignored so
// removal stays idempotent alongside cancel.
func (ix *AvailabilityIndex) Remove(reservationID string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	resourceID, ok := ix.locations[reservationID]
	if !ok {
		return
	}
	delete(ix.locations, reservationID)

	entries := ix.byResource[resourceID]
	for i, e := range entries {
		if e.ReservationID == reservationID {
			ix.byResource[resourceID] = append(entries[:i], entries[i+1:]...)
			break
		}
	}

	if len(ix.byResource[resourceID]) == 0 {
		delete(ix.byResource, resourceID)
	}
}

// Overlapping returns all entries for the resource whose slots overlap the
// query slot under the half-open rule, ordered by start.
func (ix *AvailabilityIndex) Overlapping(resourceID string, slot TimeSlot) []IndexEntry {
	return ix.overlapping(resourceID, slot, "")
}

// CountOverlapping is the cardinality shortcut used for capacity checks.
// excludeID, when non-empty, leaves that reservation out of the count.
func (ix *AvailabilityIndex) CountOverlapping(resourceID string, slot TimeSlot, excludeID string) int {
	return len(ix.overlapping(resourceID, slot, excludeID))
}

func (ix *AvailabilityIndex) overlapping(resourceID string, slot TimeSlot, excludeID string) []IndexEntry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	entries := ix.byResource[resourceID]

	// Entries are sorted by start, so nothing at or past slot.End can
	// overlap. Earlier entries still need their ends checked.
	hi := sort.Search(len(entries), func(i int) bool {
		return !entries[i].Start.Before(slot.End)
	})

	var out []IndexEntry
	for _, e := range entries[:hi] {
		if e.ReservationID == excludeID {
			continue
		}
		if e.End.After(slot.Start) {
			out = append(out, e)
		}
	}

	return out
}

// Len reports the number of live entries for a resource.
func (ix *AvailabilityIndex) Len(resourceID string) int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.byResource[resourceID])
}

// Rebuild replaces the whole index with the given reservations, typically
// everything non-cancelled from the store.
func (ix *AvailabilityIndex) Rebuild(reservations []Reservation) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.byResource = make(map[string][]IndexEntry)
	ix.locations = make(map[string]string)

	for _, r := range reservations {
		entries := ix.byResource[r.ResourceID]
		entries = append(entries, IndexEntry{
			ReservationID: r.ID,
			Requester:     r.Requester,
			TimeSlot:      r.TimeSlot,
		})
		ix.byResource[r.ResourceID] = entries
		ix.locations[r.ID] = r.ResourceID
	}

	for resourceID, entries := range ix.byResource {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Start.Before(entries[j].Start)
		})
		ix.byResource[resourceID] = entries
	}
}

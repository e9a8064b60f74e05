package schedule

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id string, startHour, endHour int) IndexEntry {
	return IndexEntry{
		ReservationID: id,
		Requester:     "alice@example.com",
		TimeSlot:      slotAt(startHour, endHour),
	}
}

func TestIndexInsertKeepsOrder(t *testing.T) {
	ix := NewAvailabilityIndex()

	ix.Insert("laser-1", entry("r3", 14, 15))
	ix.Insert("laser-1", entry("r1", 9, 10))
	ix.Insert("laser-1", entry("r2", 11, 12))

	got := ix.Overlapping("laser-1", slotAt(0, 24))
	require.Len(t, got, 3)
	assert.Equal(t, "r1", got[0].ReservationID)
	assert.Equal(t, "r2", got[1].ReservationID)
	assert.Equal(t, "r3", got[2].ReservationID)
}

func TestIndexOverlappingHalfOpen(t *testing.T) {
	ix := NewAvailabilityIndex()
	ix.Insert("laser-1", entry("r1", 10, 11))

	// Adjacent slots share an endpoint but do not overlap.
	assert.Empty(t, ix.Overlapping("laser-1", slotAt(11, 12)))
	assert.Empty(t, ix.Overlapping("laser-1", slotAt(9, 10)))

	assert.Len(t, ix.Overlapping("laser-1", slotAt(10, 11)), 1)
	assert.Len(t, ix.Overlapping("laser-1", slotAt(10, 12)), 1)

	// Other resources are untouched.
	assert.Empty(t, ix.Overlapping("mill-1", slotAt(10, 11)))
}

func TestIndexCountMatchesOverlapping(t *testing.T) {
	ix := NewAvailabilityIndex()
	ix.Insert("studio", entry("r1", 10, 12))
	ix.Insert("studio", entry("r2", 11, 13))
	ix.Insert("studio", entry("r3", 12, 14))

	query := slotAt(11, 12)
	assert.Equal(t, len(ix.Overlapping("studio", query)), ix.CountOverlapping("studio", query, ""))
	assert.Equal(t, 2, ix.CountOverlapping("studio", query, ""))

	// Exclusion leaves the named reservation out of the count.
	assert.Equal(t, 1, ix.CountOverlapping("studio", query, "r1"))
}

func TestIndexRemove(t *testing.T) {
	ix := NewAvailabilityIndex()
	ix.Insert("laser-1", entry("r1", 10, 11))
	ix.Insert("laser-1", entry("r2", 11, 12))

	ix.Remove("r1")
	assert.Equal(t, 1, ix.Len("laser-1"))
	assert.Empty(t, ix.Overlapping("laser-1", slotAt(10, 11)))

	// Removing twice is a no-op.
	ix.Remove("r1")
	assert.Equal(t, 1, ix.Len("laser-1"))

	ix.Remove("r2")
	assert.Equal(t, 0, ix.Len("laser-1"))
}

func TestIndexInsertDuplicateIsNoop(t *testing.T) {
	ix := NewAvailabilityIndex()
	ix.Insert("laser-1", entry("r1", 10, 11))
	ix.Insert("laser-1", entry("r1", 10, 11))

	assert.Equal(t, 1, ix.Len("laser-1"))
}

func TestIndexRebuild(t *testing.T) {
	ix := NewAvailabilityIndex()
	ix.Insert("laser-1", entry("stale", 8, 9))

	reservations := []Reservation{
		{ID: "r2", ResourceID: "laser-1", Requester: "bob@example.com", TimeSlot: slotAt(12, 13), Status: StatusConfirmed},
		{ID: "r1", ResourceID: "laser-1", Requester: "alice@example.com", TimeSlot: slotAt(10, 11), Status: StatusConfirmed},
		{ID: "r3", ResourceID: "studio", Requester: "carol@example.com", TimeSlot: slotAt(10, 11), Status: StatusConfirmed},
	}

	ix.Rebuild(reservations)

	assert.Equal(t, 2, ix.Len("laser-1"))
	assert.Equal(t, 1, ix.Len("studio"))
	assert.Empty(t, ix.Overlapping("laser-1", slotAt(8, 9)))

	got := ix.Overlapping("laser-1", slotAt(0, 24))
	require.Len(t, got, 2)
	assert.Equal(t, "r1", got[0].ReservationID)
}

func TestIndexConcurrentAccess(t *testing.T) {
	ix := NewAvailabilityIndex()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		id := fmt.Sprintf("r%d", i)
		go func(id string, hour int) {
			defer wg.Done()
			ix.Insert("laser-1", entry(id, hour%20, hour%20+1))
		}(id, i)
		go func() {
			defer wg.Done()
			ix.CountOverlapping("laser-1", slotAt(0, 24), "")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, ix.Len("laser-1"))
}

package schedule

import (
	"context"
	"database/sql"
	"errors"

	"makerslot/internal/certification"
	"makerslot/internal/logger"
	"makerslot/internal/metrics"
	"makerslot/internal/resource"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrNotOwner            = errors.New("can only modify own reservations")
	ErrNotConfirmed        = errors.New("only confirmed reservations can be rescheduled")
	ErrInvalidSlot         = errors.New("invalid time slot")
)

// Notifier is informed after a commit, fire-and-forget. A failure here
// never rolls back the reservation.
type Notifier interface {
	ReservationConfirmed(ctx context.Context, reservation *Reservation)
	ReservationCancelled(ctx context.Context, reservation *Reservation)
	ReservationRescheduled(ctx context.Context, old, replacement *Reservation)
}

type Service interface {
	Book(ctx context.Context, resourceID, requester string, slot TimeSlot) (*Reservation, Decision, error)
	Cancel(ctx context.Context, requester, reservationID string) error
	Reschedule(ctx context.Context, requester, reservationID string, newSlot TimeSlot) (*Reservation, Decision, error)
	Availability(ctx context.Context, resourceID string, slot TimeSlot) (*AvailabilityResult, error)
	ListMine(ctx context.Context, requester string) ([]Reservation, error)
	ListForResource(ctx context.Context, resourceID string, slot TimeSlot) ([]Reservation, error)
	RebuildIndex(ctx context.Context) error
}

type service struct {
	repo      Repository
	resources resource.Repository
	detector  *Detector
	index     *AvailabilityIndex
	locks     *resourceLocks
	notifier  Notifier
}

// NewService wires the booking core. notifier may be nil.
func NewService(
	repo Repository,
	resources resource.Repository,
	gate certification.Gate,
	index *AvailabilityIndex,
	notifier Notifier,
) Service {
	return &service{
		repo:      repo,
		resources: resources,
		detector:  NewDetector(resources, gate, index),
		index:     index,
		locks:     newResourceLocks(),
		notifier:  notifier,
	}
}

// Book serializes the evaluate-then-commit sequence per resource: the lock
// is held for exactly one decision and never across the notifier. Requests
// for other resources proceed concurrently.
func (s *service) Book(ctx context.Context, resourceID, requester string, slot TimeSlot) (*Reservation, Decision, error) {
	lock := s.locks.forResource(resourceID)
	lock.Lock()

	reservation, decision, err := s.bookLocked(ctx, resourceID, requester, slot)
	lock.Unlock()

	if err != nil {
		return nil, Decision{}, err
	}

	if decision.Admitted {
		metrics.RecordBooking("confirmed", "")
		if s.notifier != nil {
			s.notifier.ReservationConfirmed(ctx, reservation)
		}
	} else {
		metrics.RecordBooking("rejected", string(decision.Reason))
	}

	return reservation, decision, nil
}

func (s *service) bookLocked(ctx context.Context, resourceID, requester string, slot TimeSlot) (*Reservation, Decision, error) {
	req := BookingRequest{ResourceID: resourceID, Requester: requester, Slot: slot}

	decision, err := s.detector.Evaluate(ctx, req)
	if err != nil {
		return nil, Decision{}, err
	}

	// Unknown resources and malformed slots cannot be persisted (the store
	// enforces both), so those rejections carry no audit record.
	if !decision.Admitted && (decision.Reason == ReasonNotFound || decision.Reason == ReasonInvalidSlot) {
		return nil, decision, nil
	}

	pending, err := s.repo.CreatePending(ctx, &Reservation{
		ID:         uuid.NewString(),
		ResourceID: resourceID,
		Requester:  requester,
		TimeSlot:   slot,
	})
	if err != nil {
		return nil, Decision{}, err
	}

	if !decision.Admitted {
		if err := s.repo.Cancel(ctx, pending.ID); err != nil {
			return nil, Decision{}, err
		}
		pending.Status = StatusCancelled
		return pending, decision, nil
	}

	if err := s.repo.Confirm(ctx, pending.ID); err != nil {
		// Leave the pending record behind for the audit trail; it carries
		// no capacity weight because it never reaches the index.
		return nil, Decision{}, err
	}
	pending.Status = StatusConfirmed

	s.index.Insert(resourceID, IndexEntry{
		ReservationID: pending.ID,
		Requester:     requester,
		TimeSlot:      slot,
	})
	metrics.IndexedSlots.WithLabelValues(resourceID).Set(float64(s.index.Len(resourceID)))

	return pending, decision, nil
}

// Cancel is idempotent: cancelling an already-cancelled reservation is a
// no-op success. requester == "" skips the ownership check (staff path).
func (s *service) Cancel(ctx context.Context, requester, reservationID string) error {
	reservation, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReservationNotFound
		}
		return err
	}

	if requester != "" && reservation.Requester != requester {
		return ErrNotOwner
	}

	if reservation.Status == StatusCancelled {
		return nil
	}

	lock := s.locks.forResource(reservation.ResourceID)
	lock.Lock()

	err = s.repo.Cancel(ctx, reservationID)
	if err != nil && !errors.Is(err, ErrAlreadyCancelled) {
		lock.Unlock()
		return err
	}
	alreadyCancelled := errors.Is(err, ErrAlreadyCancelled)

	s.index.Remove(reservationID)
	metrics.IndexedSlots.WithLabelValues(reservation.ResourceID).Set(float64(s.index.Len(reservation.ResourceID)))
	lock.Unlock()

	if alreadyCancelled {
		return nil
	}

	metrics.RecordCancellation()
	if s.notifier != nil {
		reservation.Status = StatusCancelled
		s.notifier.ReservationCancelled(ctx, reservation)
	}

	return nil
}

// Reschedule evaluates the new slot as a fresh booking on the same
// resource with the old reservation excluded. On admit the swap is atomic;
// on reject the original reservation is untouched.
func (s *service) Reschedule(ctx context.Context, requester, reservationID string, newSlot TimeSlot) (*Reservation, Decision, error) {
	old, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, Decision{}, ErrReservationNotFound
		}
		return nil, Decision{}, err
	}

	if requester != "" && old.Requester != requester {
		return nil, Decision{}, ErrNotOwner
	}

	if old.Status != StatusConfirmed {
		return nil, Decision{}, ErrNotConfirmed
	}

	lock := s.locks.forResource(old.ResourceID)
	lock.Lock()

	replacement, decision, err := s.rescheduleLocked(ctx, old, newSlot)
	lock.Unlock()

	if err != nil {
		return nil, Decision{}, err
	}

	if decision.Admitted {
		metrics.RecordReschedule("confirmed")
		if s.notifier != nil {
			old.Status = StatusCancelled
			s.notifier.ReservationRescheduled(ctx, old, replacement)
		}
	} else {
		metrics.RecordReschedule("rejected")
	}

	return replacement, decision, nil
}

func (s *service) rescheduleLocked(ctx context.Context, old *Reservation, newSlot TimeSlot) (*Reservation, Decision, error) {
	decision, err := s.detector.Evaluate(ctx, BookingRequest{
		ResourceID:           old.ResourceID,
		Requester:            old.Requester,
		Slot:                 newSlot,
		ExcludeReservationID: old.ID,
	})
	if err != nil {
		return nil, Decision{}, err
	}

	if !decision.Admitted {
		return nil, decision, nil
	}

	replacement, err := s.repo.SwapForReschedule(ctx, old.ID, &Reservation{
		ID:         uuid.NewString(),
		ResourceID: old.ResourceID,
		Requester:  old.Requester,
		TimeSlot:   newSlot,
	})
	if err != nil {
		// The swap updates the old row only while it is still confirmed. A
		// cancel racing in after the status check above makes that a zero-row
		// update, which is the same conflict as rescheduling a cancelled
		// reservation.
		if errors.Is(err, ErrReservationNotFoundInStore) {
			return nil, Decision{}, ErrNotConfirmed
		}
		return nil, Decision{}, err
	}

	s.index.Remove(old.ID)
	s.index.Insert(replacement.ResourceID, IndexEntry{
		ReservationID: replacement.ID,
		Requester:     replacement.Requester,
		TimeSlot:      replacement.TimeSlot,
	})

	return replacement, decision, nil
}

// Availability answers "is this resource free on this slot" from the index
// snapshot, without the resource lock. The answer is best-effort and not a
// reservation guarantee; only Book binds.
func (s *service) Availability(ctx context.Context, resourceID string, slot TimeSlot) (*AvailabilityResult, error) {
	res, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, resource.ErrResourceNotFound
		}
		return nil, err
	}

	if !slot.Valid() {
		return nil, ErrInvalidSlot
	}

	entries := s.index.Overlapping(resourceID, slot)

	result := &AvailabilityResult{
		ResourceID:  resourceID,
		Slot:        slot,
		Available:   len(entries) < res.Capacity,
		BookedCount: len(entries),
		Capacity:    res.Capacity,
	}

	if !result.Available {
		first := entries[0]
		result.Conflict = &ConflictDetail{
			ReservationID: first.ReservationID,
			Requester:     first.Requester,
			Start:         first.Start,
			End:           first.End,
		}
	}

	return result, nil
}

func (s *service) ListMine(ctx context.Context, requester string) ([]Reservation, error) {
	return s.repo.ListForRequester(ctx, requester)
}

func (s *service) ListForResource(ctx context.Context, resourceID string, slot TimeSlot) ([]Reservation, error) {
	if _, err := s.resources.GetByID(ctx, resourceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, resource.ErrResourceNotFound
		}
		return nil, err
	}
	return s.repo.ListOverlapping(ctx, resourceID, slot)
}

// RebuildIndex reloads the availability projection from the reservations
// table. The table is the source of truth; the index never is.
func (s *service) RebuildIndex(ctx context.Context) error {
	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return err
	}

	// Pending leftovers (from a crash between create and confirm) stay out
	// of the index, same as on the booking path.
	confirmed := active[:0:0]
	for _, r := range active {
		if r.Status == StatusConfirmed {
			confirmed = append(confirmed, r)
		}
	}

	s.index.Rebuild(confirmed)
	logger.Infof("Availability index rebuilt with %d reservations", len(confirmed))
	return nil
}

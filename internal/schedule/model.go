package schedule

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// TimeSlot is a half-open interval [Start, End). Two slots overlap iff
// max(startA, startB) < min(endA, endB); back-to-back slots do not conflict.
type TimeSlot struct {
	Start time.Time `db:"start_time" json:"start"`
	End   time.Time `db:"end_time" json:"end"`
}

func (s TimeSlot) Valid() bool {
	return s.Start.Before(s.End)
}

func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start.Before(other.End) && other.Start.Before(s.End)
}

// Reservation is the audit record of one booking decision. Time changes
// never mutate a reservation in place; a reschedule cancels the old record
// and confirms a new one.
type Reservation struct {
	ID         string `db:"id" json:"id"`
	ResourceID string `db:"resource_id" json:"resource_id"`
	Requester  string `db:"requester" json:"requester"`
	TimeSlot
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type RejectReason string

const (
	ReasonNotFound         RejectReason = "not_found"
	ReasonInvalidSlot      RejectReason = "invalid_slot"
	ReasonNotCertified     RejectReason = "not_certified"
	ReasonCapacityExceeded RejectReason = "capacity_exceeded"
)

// Decision is the outcome of conflict evaluation. A rejection is a normal
// answer, not a service failure; infrastructure faults travel as errors.
type Decision struct {
	Admitted bool         `json:"admitted"`
	Reason   RejectReason `json:"reason,omitempty"`
}

func Admit() Decision {
	return Decision{Admitted: true}
}

func Reject(reason RejectReason) Decision {
	return Decision{Admitted: false, Reason: reason}
}

// BookingRequest is what the detector evaluates. ExcludeReservationID makes
// a reschedule ignore the reservation it replaces.
type BookingRequest struct {
	ResourceID           string
	Requester            string
	Slot                 TimeSlot
	ExcludeReservationID string
}

type SlotRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type BookResponse struct {
	Reservation *Reservation `json:"reservation"`
	Decision    Decision     `json:"decision"`
}

type AvailabilityResult struct {
	ResourceID  string          `json:"resource_id"`
	Slot        TimeSlot        `json:"slot"`
	Available   bool            `json:"available"`
	BookedCount int             `json:"booked_count"`
	Capacity    int             `json:"capacity"`
	Conflict    *ConflictDetail `json:"conflict,omitempty"`
}

// ConflictDetail identifies one representative overlapping reservation,
// the earliest by start.
type ConflictDetail struct {
	ReservationID string    `json:"reservation_id"`
	Requester     string    `json:"requester"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
}

package schedule

import "context"

type Repository interface {
	CreatePending(ctx context.Context, reservation *Reservation) (*Reservation, error)
	GetByID(ctx context.Context, id string) (*Reservation, error)
	Confirm(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	// SwapForReschedule atomically cancels the old reservation and inserts
	// the replacement as confirmed, in one transaction.
	SwapForReschedule(ctx context.Context, oldID string, replacement *Reservation) (*Reservation, error)
	ListActive(ctx context.Context) ([]Reservation, error)
	ListForRequester(ctx context.Context, requester string) ([]Reservation, error)
	ListOverlapping(ctx context.Context, resourceID string, slot TimeSlot) ([]Reservation, error)
}

package schedule

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrReservationNotFoundInStore = errors.New("reservation not found in store")
	ErrAlreadyCancelled           = errors.New("reservation already cancelled")
	ErrNotPending                 = errors.New("reservation is not pending")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePending(ctx context.Context, reservation *Reservation) (*Reservation, error) {
	query := `
		INSERT INTO reservations (id, resource_id, requester, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING id, resource_id, requester, start_time, end_time, status, created_at
	`

	var created Reservation
	err := r.db.GetContext(ctx, &created, query,
		reservation.ID, reservation.ResourceID, reservation.Requester,
		reservation.Start, reservation.End)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	query := `
		SELECT id, resource_id, requester, start_time, end_time, status, created_at
		FROM reservations
		WHERE id = $1
	`

	var reservation Reservation
	err := r.db.GetContext(ctx, &reservation, query, id)
	if err != nil {
		return nil, err
	}

	return &reservation, nil
}

func (r *repository) Confirm(ctx context.Context, id string) error {
	query := `
		UPDATE reservations
		SET status = 'confirmed'
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotPending
	}

	return nil
}

func (r *repository) Cancel(ctx context.Context, id string) error {
	query := `
		UPDATE reservations
		SET status = 'cancelled'
		WHERE id = $1 AND status <> 'cancelled'
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrAlreadyCancelled
	}

	return nil
}

func (r *repository) SwapForReschedule(ctx context.Context, oldID string, replacement *Reservation) (*Reservation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	cancelQuery := `
		UPDATE reservations
		SET status = 'cancelled'
		WHERE id = $1 AND status = 'confirmed'
	`

	result, err := tx.ExecContext(ctx, cancelQuery, oldID)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrReservationNotFoundInStore
	}

	insertQuery := `
		INSERT INTO reservations (id, resource_id, requester, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, 'confirmed')
		RETURNING id, resource_id, requester, start_time, end_time, status, created_at
	`

	var created Reservation
	err = tx.GetContext(ctx, &created, insertQuery,
		replacement.ID, replacement.ResourceID, replacement.Requester,
		replacement.Start, replacement.End)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) ListActive(ctx context.Context) ([]Reservation, error) {
	query := `
		SELECT id, resource_id, requester, start_time, end_time, status, created_at
		FROM reservations
		WHERE status <> 'cancelled'
		ORDER BY resource_id, start_time
	`

	var reservations []Reservation
	err := r.db.SelectContext(ctx, &reservations, query)
	if err != nil {
		return nil, err
	}

	return reservations, nil
}

func (r *repository) ListForRequester(ctx context.Context, requester string) ([]Reservation, error) {
	query := `
		SELECT id, resource_id, requester, start_time, end_time, status, created_at
		FROM reservations
		WHERE requester = $1
		ORDER BY created_at DESC
	`

	var reservations []Reservation
	err := r.db.SelectContext(ctx, &reservations, query, requester)
	if err != nil {
		return nil, err
	}

	return reservations, nil
}

func (r *repository) ListOverlapping(ctx context.Context, resourceID string, slot TimeSlot) ([]Reservation, error) {
	query := `
		SELECT id, resource_id, requester, start_time, end_time, status, created_at
		FROM reservations
		WHERE resource_id = $1
		  AND start_time < $3
		  AND end_time > $2
		  AND status = 'confirmed'
		ORDER BY start_time
	`

	var reservations []Reservation
	err := r.db.SelectContext(ctx, &reservations, query, resourceID, slot.Start, slot.End)
	if err != nil {
		return nil, err
	}

	return reservations, nil
}

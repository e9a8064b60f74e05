package certification

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Upsert(ctx context.Context, requester, machineID string, expiresAt *time.Time) (*Certification, error) {
	query := `
		INSERT INTO certifications (requester, machine_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (requester, machine_id) DO UPDATE SET expires_at = EXCLUDED.expires_at
		RETURNING id, requester, machine_id, granted_at, expires_at
	`

	var cert Certification
	err := r.db.GetContext(ctx, &cert, query, requester, machineID, expiresAt)
	if err != nil {
		return nil, err
	}

	return &cert, nil
}

func (r *repository) Delete(ctx context.Context, requester, machineID string) error {
	query := `
		DELETE FROM certifications
		WHERE requester = $1 AND machine_id = $2
	`

	_, err := r.db.ExecContext(ctx, query, requester, machineID)
	return err
}

func (r *repository) Find(ctx context.Context, requester, machineID string) (*Certification, error) {
	query := `
		SELECT id, requester, machine_id, granted_at, expires_at
		FROM certifications
		WHERE requester = $1 AND machine_id = $2
	`

	var cert Certification
	err := r.db.GetContext(ctx, &cert, query, requester, machineID)
	if err != nil {
		return nil, err
	}

	return &cert, nil
}

func (r *repository) ListForRequester(ctx context.Context, requester string) ([]Certification, error) {
	query := `
		SELECT id, requester, machine_id, granted_at, expires_at
		FROM certifications
		WHERE requester = $1
		ORDER BY granted_at DESC
	`

	var certs []Certification
	err := r.db.SelectContext(ctx, &certs, query, requester)
	if err != nil {
		return nil, err
	}

	return certs, nil
}

package resource

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrResourceNotFoundInStore = errors.New("resource not found in store")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, res *Resource) (*Resource, error) {
	query := `
		INSERT INTO resources (id, name, kind, capacity, certification_required)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, kind, capacity, certification_required, created_at
	`

	var created Resource
	err := r.db.GetContext(ctx, &created, query, res.ID, res.Name, res.Kind, res.Capacity, res.CertificationRequired)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateResource
		}
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Resource, error) {
	query := `
		SELECT id, name, kind, capacity, certification_required, created_at
		FROM resources
		WHERE id = $1
	`

	var res Resource
	err := r.db.GetContext(ctx, &res, query, id)
	if err != nil {
		return nil, err
	}

	return &res, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Resource, error) {
	query := `
		SELECT id, name, kind, capacity, certification_required, created_at
		FROM resources
		ORDER BY kind, name
	`

	var resources []Resource
	err := r.db.SelectContext(ctx, &resources, query)
	if err != nil {
		return nil, err
	}

	return resources, nil
}

func (r *repository) UpdateCapacity(ctx context.Context, id string, capacity int) error {
	query := `
		UPDATE resources
		SET capacity = $2
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, capacity)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrResourceNotFoundInStore
	}

	return nil
}

func (r *repository) SetCertificationRequired(ctx context.Context, id string, required bool) error {
	query := `
		UPDATE resources
		SET certification_required = $2
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, required)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrResourceNotFoundInStore
	}

	return nil
}

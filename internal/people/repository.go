package people

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrPersonNotFoundInStore = errors.New("person not found in store")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, firstName, lastName, email, passwordHash, role string) (*Person, error) {
	query := `
		INSERT INTO people (first_name, last_name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, first_name, last_name, email, password_hash, role, is_team_lead, created_at
	`

	var person Person
	err := r.db.GetContext(ctx, &person, query, firstName, lastName, email, passwordHash, role)
	if err != nil {
		return nil, err
	}

	return &person, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Person, error) {
	query := `
		SELECT id, first_name, last_name, email, password_hash, role, is_team_lead, created_at
		FROM people
		WHERE email = $1
	`

	var person Person
	err := r.db.GetContext(ctx, &person, query, email)
	if err != nil {
		return nil, err
	}

	return &person, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*Person, error) {
	query := `
		SELECT id, first_name, last_name, email, password_hash, role, is_team_lead, created_at
		FROM people
		WHERE id = $1
	`

	var person Person
	err := r.db.GetContext(ctx, &person, query, id)
	if err != nil {
		return nil, err
	}

	return &person, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM people
			WHERE email = $1
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, email)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *repository) List(ctx context.Context) ([]Person, error) {
	query := `
		SELECT id, first_name, last_name, email, password_hash, role, is_team_lead, created_at
		FROM people
		ORDER BY last_name, first_name
	`

	var persons []Person
	err := r.db.SelectContext(ctx, &persons, query)
	if err != nil {
		return nil, err
	}

	return persons, nil
}

func (r *repository) UpdateRole(ctx context.Context, id int, role string, isTeamLead bool) error {
	query := `
		UPDATE people
		SET role = $2, is_team_lead = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, role, isTeamLead)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrPersonNotFoundInStore
	}

	return nil
}

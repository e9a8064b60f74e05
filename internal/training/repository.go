package training

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrDuplicateCourse = errors.New("course with this name, category and level already exists")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateCourse(ctx context.Context, name, category string, level int) (*TrainingCourse, error) {
	query := `
		INSERT INTO training_courses (name, category, level)
		VALUES ($1, $2, $3)
		RETURNING id, name, category, level, created_at
	`

	var course TrainingCourse
	err := r.db.GetContext(ctx, &course, query, name, category, level)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateCourse
		}
		return nil, err
	}

	return &course, nil
}

func (r *repository) GetCourseByID(ctx context.Context, id int) (*TrainingCourse, error) {
	query := `
		SELECT id, name, category, level, created_at
		FROM training_courses
		WHERE id = $1
	`

	var course TrainingCourse
	err := r.db.GetContext(ctx, &course, query, id)
	if err != nil {
		return nil, err
	}

	return &course, nil
}

func (r *repository) ListCourses(ctx context.Context) ([]TrainingCourse, error) {
	query := `
		SELECT id, name, category, level, created_at
		FROM training_courses
		ORDER BY category, level, name
	`

	var courses []TrainingCourse
	err := r.db.SelectContext(ctx, &courses, query)
	if err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *repository) CreateRecord(ctx context.Context, personEmail, courseName string, courseID *int) (*TrainingRecord, error) {
	query := `
		INSERT INTO training_records (person_email, course_name, course_id)
		VALUES ($1, $2, $3)
		RETURNING id, person_email, course_name, course_id, completed_at
	`

	var record TrainingRecord
	err := r.db.GetContext(ctx, &record, query, personEmail, courseName, courseID)
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *repository) ListRecordsForPerson(ctx context.Context, personEmail string) ([]TrainingRecord, error) {
	query := `
		SELECT id, person_email, course_name, course_id, completed_at
		FROM training_records
		WHERE person_email = $1
		ORDER BY completed_at DESC
	`

	var records []TrainingRecord
	err := r.db.SelectContext(ctx, &records, query, personEmail)
	if err != nil {
		return nil, err
	}

	return records, nil
}

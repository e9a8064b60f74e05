package training

import (
	"time"

	"makerslot/internal/certification"
)

// TrainingCourse is a catalog entry, unique per (name, category, level).
// Category matches the machine families in the resource catalog.
type TrainingCourse struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Category  string    `db:"category" json:"category"`
	Level     int       `db:"level" json:"level"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TrainingRecord links a person to a completed course. CourseID is optional;
// free-text courses keep only the name.
type TrainingRecord struct {
	ID          int       `db:"id" json:"id"`
	PersonEmail string    `db:"person_email" json:"person_email"`
	CourseName  string    `db:"course_name" json:"course_name"`
	CourseID    *int      `db:"course_id" json:"course_id,omitempty"`
	CompletedAt time.Time `db:"completed_at" json:"completed_at"`
}

type CreateCourseRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
	Level    int    `json:"level" binding:"required,min=1"`
}

type RecordTrainingRequest struct {
	PersonEmail string `json:"person_email" binding:"required,email"`
	CourseName  string `json:"course_name"`
	CourseID    *int   `json:"course_id"`
}

// Summary is the profile view: who the person is plus everything they are
// certified and trained on.
type Summary struct {
	PersonEmail    string                        `json:"person_email"`
	Name           string                        `json:"name"`
	Role           string                        `json:"role"`
	Certifications []certification.Certification `json:"certifications"`
	Training       []TrainingRecord              `json:"training"`
}

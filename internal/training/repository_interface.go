package training

import "context"

type Repository interface {
	CreateCourse(ctx context.Context, name, category string, level int) (*TrainingCourse, error)
	GetCourseByID(ctx context.Context, id int) (*TrainingCourse, error)
	ListCourses(ctx context.Context) ([]TrainingCourse, error)
	CreateRecord(ctx context.Context, personEmail, courseName string, courseID *int) (*TrainingRecord, error)
	ListRecordsForPerson(ctx context.Context, personEmail string) ([]TrainingRecord, error)
}

package training

import (
	"context"
	"database/sql"
	"errors"

	"makerslot/internal/certification"
	"makerslot/internal/people"
)

var (
	ErrCourseNotFound = errors.New("training course not found")
	ErrCourseRequired = errors.New("provide either course_name or course_id")
)

type Service interface {
	CreateCourse(ctx context.Context, req CreateCourseRequest) (*TrainingCourse, error)
	ListCourses(ctx context.Context) ([]TrainingCourse, error)
	RecordTraining(ctx context.Context, req RecordTrainingRequest) (*TrainingRecord, error)
	SummaryFor(ctx context.Context, personEmail string) (*Summary, error)
}

type service struct {
	repo       Repository
	peopleRepo people.Repository
	gate       certification.Gate
}

func NewService(repo Repository, peopleRepo people.Repository, gate certification.Gate) Service {
	return &service{
		repo:       repo,
		peopleRepo: peopleRepo,
		gate:       gate,
	}
}

func (s *service) CreateCourse(ctx context.Context, req CreateCourseRequest) (*TrainingCourse, error) {
	return s.repo.CreateCourse(ctx, req.Name, req.Category, req.Level)
}

func (s *service) ListCourses(ctx context.Context) ([]TrainingCourse, error) {
	return s.repo.ListCourses(ctx)
}

// RecordTraining accepts a catalog course, a free-text name, or both. When
// only the course id is given the name is taken from the catalog entry.
func (s *service) RecordTraining(ctx context.Context, req RecordTrainingRequest) (*TrainingRecord, error) {
	if req.CourseName == "" && req.CourseID == nil {
		return nil, ErrCourseRequired
	}

	name := req.CourseName
	if req.CourseID != nil {
		course, err := s.repo.GetCourseByID(ctx, *req.CourseID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrCourseNotFound
			}
			return nil, err
		}
		if name == "" {
			name = course.Name
		}
	}

	return s.repo.CreateRecord(ctx, req.PersonEmail, name, req.CourseID)
}

func (s *service) SummaryFor(ctx context.Context, personEmail string) (*Summary, error) {
	person, err := s.peopleRepo.FindByEmail(ctx, personEmail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, people.ErrPersonNotFound
		}
		return nil, err
	}

	certs, err := s.gate.ListForRequester(ctx, personEmail)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.ListRecordsForPerson(ctx, personEmail)
	if err != nil {
		return nil, err
	}

	return &Summary{
		PersonEmail:    personEmail,
		Name:           person.FullName(),
		Role:           person.DisplayRole(),
		Certifications: certs,
		Training:       records,
	}, nil
}

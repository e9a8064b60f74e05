package training

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"makerslot/internal/certification"
	"makerslot/internal/people"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateCourse(ctx context.Context, name, category string, level int) (*TrainingCourse, error) {
	args := m.Called(ctx, name, category, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TrainingCourse), args.Error(1)
}

func (m *MockRepository) GetCourseByID(ctx context.Context, id int) (*TrainingCourse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TrainingCourse), args.Error(1)
}

func (m *MockRepository) ListCourses(ctx context.Context) ([]TrainingCourse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]TrainingCourse), args.Error(1)
}

func (m *MockRepository) CreateRecord(ctx context.Context, personEmail, courseName string, courseID *int) (*TrainingRecord, error) {
	args := m.Called(ctx, personEmail, courseName, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TrainingRecord), args.Error(1)
}

func (m *MockRepository) ListRecordsForPerson(ctx context.Context, personEmail string) ([]TrainingRecord, error) {
	args := m.Called(ctx, personEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]TrainingRecord), args.Error(1)
}

type MockPeopleRepo struct {
	mock.Mock
}

func (m *MockPeopleRepo) Create(ctx context.Context, firstName, lastName, email, passwordHash, role string) (*people.Person, error) {
	args := m.Called(ctx, firstName, lastName, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*people.Person), args.Error(1)
}

func (m *MockPeopleRepo) FindByEmail(ctx context.Context, email string) (*people.Person, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*people.Person), args.Error(1)
}

func (m *MockPeopleRepo) FindByID(ctx context.Context, id int) (*people.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*people.Person), args.Error(1)
}

func (m *MockPeopleRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockPeopleRepo) List(ctx context.Context) ([]people.Person, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]people.Person), args.Error(1)
}

func (m *MockPeopleRepo) UpdateRole(ctx context.Context, id int, role string, isTeamLead bool) error {
	args := m.Called(ctx, id, role, isTeamLead)
	return args.Error(0)
}

type MockGate struct {
	mock.Mock
}

func (m *MockGate) Grant(ctx context.Context, requester, machineID string, expiresAt *time.Time) (*certification.Certification, error) {
	args := m.Called(ctx, requester, machineID, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*certification.Certification), args.Error(1)
}

func (m *MockGate) Revoke(ctx context.Context, requester, machineID string) error {
	args := m.Called(ctx, requester, machineID)
	return args.Error(0)
}

func (m *MockGate) IsAuthorized(ctx context.Context, requester, machineID string) (bool, error) {
	args := m.Called(ctx, requester, machineID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGate) ListForRequester(ctx context.Context, requester string) ([]certification.Certification, error) {
	args := m.Called(ctx, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]certification.Certification), args.Error(1)
}

func TestRecordTrainingWithCourseID(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockPeopleRepo), new(MockGate))

	courseID := 7
	repo.On("GetCourseByID", mock.Anything, 7).
		Return(&TrainingCourse{ID: 7, Name: "Laser Safety", Category: "laser", Level: 1}, nil)
	repo.On("CreateRecord", mock.Anything, "uma@example.com", "Laser Safety", &courseID).
		Return(&TrainingRecord{ID: 1, PersonEmail: "uma@example.com", CourseName: "Laser Safety", CourseID: &courseID}, nil)

	record, err := svc.RecordTraining(context.Background(), RecordTrainingRequest{
		PersonEmail: "uma@example.com",
		CourseID:    &courseID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Laser Safety", record.CourseName)
}

func TestRecordTrainingFreeText(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockPeopleRepo), new(MockGate))

	repo.On("CreateRecord", mock.Anything, "uma@example.com", "Visiting workshop", (*int)(nil)).
		Return(&TrainingRecord{ID: 2, PersonEmail: "uma@example.com", CourseName: "Visiting workshop"}, nil)

	record, err := svc.RecordTraining(context.Background(), RecordTrainingRequest{
		PersonEmail: "uma@example.com",
		CourseName:  "Visiting workshop",
	})
	require.NoError(t, err)
	assert.Nil(t, record.CourseID)
}

func TestRecordTrainingRequiresCourse(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockPeopleRepo), new(MockGate))

	_, err := svc.RecordTraining(context.Background(), RecordTrainingRequest{
		PersonEmail: "uma@example.com",
	})
	assert.ErrorIs(t, err, ErrCourseRequired)
	repo.AssertNotCalled(t, "CreateRecord")
}

func TestRecordTrainingUnknownCourse(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockPeopleRepo), new(MockGate))

	courseID := 99
	repo.On("GetCourseByID", mock.Anything, 99).Return(nil, sql.ErrNoRows)

	_, err := svc.RecordTraining(context.Background(), RecordTrainingRequest{
		PersonEmail: "uma@example.com",
		CourseID:    &courseID,
	})
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestRecordTrainingStoreFaultIsAnError(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, new(MockPeopleRepo), new(MockGate))

	courseID := 7
	repo.On("GetCourseByID", mock.Anything, 7).Return(nil, assert.AnError)

	_, err := svc.RecordTraining(context.Background(), RecordTrainingRequest{
		PersonEmail: "uma@example.com",
		CourseID:    &courseID,
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCourseNotFound)
}

func TestSummaryFor(t *testing.T) {
	repo := new(MockRepository)
	peopleRepo := new(MockPeopleRepo)
	gate := new(MockGate)
	svc := NewService(repo, peopleRepo, gate)

	peopleRepo.On("FindByEmail", mock.Anything, "uma@example.com").
		Return(&people.Person{FirstName: "Uma", LastName: "Chen", Email: "uma@example.com", Role: people.RoleTeamMember, IsTeamLead: true}, nil)
	gate.On("ListForRequester", mock.Anything, "uma@example.com").
		Return([]certification.Certification{{Requester: "uma@example.com", MachineID: "laser-1"}}, nil)
	repo.On("ListRecordsForPerson", mock.Anything, "uma@example.com").
		Return([]TrainingRecord{{PersonEmail: "uma@example.com", CourseName: "Laser Safety"}}, nil)

	summary, err := svc.SummaryFor(context.Background(), "uma@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Uma Chen", summary.Name)
	assert.Equal(t, "team_lead", summary.Role)
	require.Len(t, summary.Certifications, 1)
	require.Len(t, summary.Training, 1)
}

func TestSummaryForUnknownPerson(t *testing.T) {
	repo := new(MockRepository)
	peopleRepo := new(MockPeopleRepo)
	svc := NewService(repo, peopleRepo, new(MockGate))

	peopleRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, sql.ErrNoRows)

	_, err := svc.SummaryFor(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, people.ErrPersonNotFound)
}

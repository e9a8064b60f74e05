package people

import (
	"context"
	"database/sql"
	"testing"

	"makerslot/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, firstName, lastName, email, passwordHash, role string) (*Person, error) {
	args := m.Called(ctx, firstName, lastName, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Person), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*Person, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Person), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (*Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Person), args.Error(1)
}

func (m *MockRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]Person, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Person), args.Error(1)
}

func (m *MockRepository) UpdateRole(ctx context.Context, id int, role string, isTeamLead bool) error {
	args := m.Called(ctx, id, role, isTeamLead)
	return args.Error(0)
}

const testSecret = "test-secret"

func TestRegisterNewPerson(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testSecret)

	repo.On("EmailExists", mock.Anything, "uma@example.com").Return(false, nil)
	repo.On("Create", mock.Anything, "Uma", "Chen", "uma@example.com", mock.AnythingOfType("string"), RoleUser).
		Return(&Person{ID: 1, FirstName: "Uma", LastName: "Chen", Email: "uma@example.com", Role: RoleUser}, nil)

	person, access, refresh, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Uma",
		LastName:  "Chen",
		Email:     "uma@example.com",
		Password:  "longenough",
	})
	require.NoError(t, err)
	assert.Equal(t, RoleUser, person.Role)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	claims, err := auth.ValidateToken(access, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "uma@example.com", claims.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testSecret)

	repo.On("EmailExists", mock.Anything, "uma@example.com").Return(true, nil)

	_, _, _, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Uma",
		LastName:  "Chen",
		Email:     "uma@example.com",
		Password:  "longenough",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
	repo.AssertNotCalled(t, "Create")
}

func TestLogin(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testSecret)

	hash, err := auth.HashPassword("longenough")
	require.NoError(t, err)

	repo.On("FindByEmail", mock.Anything, "uma@example.com").
		Return(&Person{ID: 1, Email: "uma@example.com", PasswordHash: hash, Role: RoleUser}, nil)

	person, access, _, err := svc.Login(context.Background(), LoginRequest{
		Email:    "uma@example.com",
		Password: "longenough",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, person.ID)
	assert.NotEmpty(t, access)

	_, _, _, err = svc.Login(context.Background(), LoginRequest{
		Email:    "uma@example.com",
		Password: "wrongpassword",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testSecret)

	repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, sql.ErrNoRows)

	_, _, _, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever1",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginStoreFaultIsAnError(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testSecret)

	repo.On("FindByEmail", mock.Anything, "uma@example.com").Return(nil, assert.AnError)

	_, _, _, err := svc.Login(context.Background(), LoginRequest{
		Email:    "uma@example.com",
		Password: "whatever1",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateRole(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testSecret)

	repo.On("UpdateRole", mock.Anything, 1, RoleTeamMember, true).Return(nil)
	repo.On("FindByID", mock.Anything, 1).
		Return(&Person{ID: 1, Role: RoleTeamMember, IsTeamLead: true}, nil)

	person, err := svc.UpdateRole(context.Background(), 1, UpdateRoleRequest{
		Role:       RoleTeamMember,
		IsTeamLead: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "team_lead", person.DisplayRole())
}

func TestUpdateRoleTeamLeadOnlyForTeamMembers(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testSecret)

	for _, role := range []string{RoleUser, RoleCollaborator, RoleStaff} {
		_, err := svc.UpdateRole(context.Background(), 1, UpdateRoleRequest{
			Role:       role,
			IsTeamLead: true,
		})
		assert.ErrorIs(t, err, ErrTeamLeadRole, "role %s must not carry the team lead flag", role)
	}
	repo.AssertNotCalled(t, "UpdateRole")
}

func TestUpdateRoleUnknownPerson(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testSecret)

	repo.On("UpdateRole", mock.Anything, 99, RoleStaff, false).Return(ErrPersonNotFoundInStore)

	_, err := svc.UpdateRole(context.Background(), 99, UpdateRoleRequest{Role: RoleStaff})
	assert.ErrorIs(t, err, ErrPersonNotFound)
}

func TestRefreshToken(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, testSecret)

	_, refresh, err := auth.GenerateTokens(1, "uma@example.com", RoleUser, testSecret, testSecret)
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, 1).
		Return(&Person{ID: 1, Email: "uma@example.com", Role: RoleUser}, nil)

	access, person, err := svc.RefreshToken(context.Background(), refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.Equal(t, 1, person.ID)
}

func TestPersonDisplay(t *testing.T) {
	p := Person{FirstName: "Uma", LastName: "Chen", Role: RoleUser}
	assert.Equal(t, "Uma Chen", p.FullName())
	assert.Equal(t, RoleUser, p.DisplayRole())

	lead := Person{FirstName: "Ravi", Role: RoleTeamMember, IsTeamLead: true}
	assert.Equal(t, "Ravi", lead.FullName())
	assert.Equal(t, "team_lead", lead.DisplayRole())

	// lead flag on a non-member never shows through
	odd := Person{Role: RoleStaff, IsTeamLead: true}
	assert.Equal(t, RoleStaff, odd.DisplayRole())
}

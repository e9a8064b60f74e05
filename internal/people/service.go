package people

import (
	"context"
	"database/sql"
	"errors"

	"makerslot/internal/auth"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPersonNotFound     = errors.New("person not found")
	ErrTeamLeadRole       = errors.New("team lead flag only applies to team members")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Person, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*Person, string, string, error)
	GetByID(ctx context.Context, id int) (*Person, error)
	List(ctx context.Context) ([]Person, error)
	UpdateRole(ctx context.Context, id int, req UpdateRoleRequest) (*Person, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *Person, error)
}

type service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{
		repo:      repo,
		jwtSecret: jwtSecret,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Person, string, string, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	person, err := s.repo.Create(ctx, req.FirstName, req.LastName, req.Email, passwordHash, RoleUser)
	if err != nil {
		return nil, "", "", err
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		person.ID,
		person.Email,
		person.Role,
		s.jwtSecret,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return person, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*Person, string, string, error) {
	person, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		// Unknown email reads the same as a wrong password on purpose.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}

	if !auth.CheckPassword(person.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		person.ID,
		person.Email,
		person.Role,
		s.jwtSecret,
		s.jwtSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return person, accessToken, refreshToken, nil
}

func (s *service) GetByID(ctx context.Context, id int) (*Person, error) {
	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}
	return person, nil
}

func (s *service) List(ctx context.Context) ([]Person, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateRole(ctx context.Context, id int, req UpdateRoleRequest) (*Person, error) {
	// Team lead is only valid for team members.
	if req.IsTeamLead && req.Role != RoleTeamMember {
		return nil, ErrTeamLeadRole
	}

	if err := s.repo.UpdateRole(ctx, id, req.Role, req.IsTeamLead); err != nil {
		if errors.Is(err, ErrPersonNotFoundInStore) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *Person, error) {
	newAccessToken, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	person, err := s.repo.FindByID(ctx, claims.PersonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, ErrPersonNotFound
		}
		return "", nil, err
	}

	return newAccessToken, person, nil
}

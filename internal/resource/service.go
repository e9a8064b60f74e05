package resource

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrResourceNotFound  = errors.New("resource not found")
	ErrDuplicateResource = errors.New("resource with this id already exists")
	ErrInvalidCapacity   = errors.New("capacity must be at least 1")
)

type Service interface {
	Register(ctx context.Context, req RegisterResourceRequest) (*Resource, error)
	Get(ctx context.Context, id string) (*Resource, error)
	List(ctx context.Context) ([]Resource, error)
	UpdateCapacity(ctx context.Context, id string, capacity int) (*Resource, error)
	SetCertificationRequired(ctx context.Context, id string, required bool) (*Resource, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, req RegisterResourceRequest) (*Resource, error) {
	if req.Capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	res := &Resource{
		ID:                    req.ID,
		Name:                  req.Name,
		Kind:                  req.Kind,
		Capacity:              req.Capacity,
		CertificationRequired: req.CertificationRequired,
	}

	// The certification flag only means anything for machines.
	if res.Kind != KindMachine {
		res.CertificationRequired = false
	}

	return s.repo.Create(ctx, res)
}

func (s *service) Get(ctx context.Context, id string) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return res, nil
}

func (s *service) List(ctx context.Context) ([]Resource, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) UpdateCapacity(ctx context.Context, id string, capacity int) (*Resource, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	if err := s.repo.UpdateCapacity(ctx, id, capacity); err != nil {
		if errors.Is(err, ErrResourceNotFoundInStore) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	return s.Get(ctx, id)
}

func (s *service) SetCertificationRequired(ctx context.Context, id string, required bool) (*Resource, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if res.Kind != KindMachine {
		// No-op for spaces and trainers, mirrors Register.
		return res, nil
	}

	if err := s.repo.SetCertificationRequired(ctx, id, required); err != nil {
		if errors.Is(err, ErrResourceNotFoundInStore) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	return s.Get(ctx, id)
}

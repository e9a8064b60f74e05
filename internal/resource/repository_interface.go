package resource

import "context"

type Repository interface {
	Create(ctx context.Context, r *Resource) (*Resource, error)
	GetByID(ctx context.Context, id string) (*Resource, error)
	GetAll(ctx context.Context) ([]Resource, error)
	UpdateCapacity(ctx context.Context, id string, capacity int) error
	SetCertificationRequired(ctx context.Context, id string, required bool) error
}

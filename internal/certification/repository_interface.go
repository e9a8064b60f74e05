package certification

import (
	"context"
	"time"
)

type Repository interface {
	Upsert(ctx context.Context, requester, machineID string, expiresAt *time.Time) (*Certification, error)
	Delete(ctx context.Context, requester, machineID string) error
	Find(ctx context.Context, requester, machineID string) (*Certification, error)
	ListForRequester(ctx context.Context, requester string) ([]Certification, error)
}

package certification

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"makerslot/internal/resource"
)

var ErrNotMachine = errors.New("certifications only apply to machines")

// Gate answers the one question the booking core asks: may this requester
// use this machine right now.
type Gate interface {
	Grant(ctx context.Context, requester, machineID string, expiresAt *time.Time) (*Certification, error)
	Revoke(ctx context.Context, requester, machineID string) error
	IsAuthorized(ctx context.Context, requester, machineID string) (bool, error)
	ListForRequester(ctx context.Context, requester string) ([]Certification, error)
}

type gate struct {
	repo         Repository
	resourceRepo resource.Repository
	now          func() time.Time
}

func NewGate(repo Repository, resourceRepo resource.Repository) Gate {
	return &gate{
		repo:         repo,
		resourceRepo: resourceRepo,
		now:          time.Now,
	}
}

// Grant is idempotent: granting an existing pair refreshes its expiry and
// succeeds. Revoking never cancels reservations already confirmed.
func (g *gate) Grant(ctx context.Context, requester, machineID string, expiresAt *time.Time) (*Certification, error) {
	res, err := g.resourceRepo.GetByID(ctx, machineID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, resource.ErrResourceNotFound
		}
		return nil, err
	}

	if res.Kind != resource.KindMachine {
		return nil, ErrNotMachine
	}

	return g.repo.Upsert(ctx, requester, machineID, expiresAt)
}

func (g *gate) Revoke(ctx context.Context, requester, machineID string) error {
	return g.repo.Delete(ctx, requester, machineID)
}

func (g *gate) IsAuthorized(ctx context.Context, requester, machineID string) (bool, error) {
	res, err := g.resourceRepo.GetByID(ctx, machineID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, resource.ErrResourceNotFound
		}
		return false, err
	}

	if res.Kind != resource.KindMachine || !res.CertificationRequired {
		return true, nil
	}

	cert, err := g.repo.Find(ctx, requester, machineID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	return !cert.Expired(g.now()), nil
}

func (g *gate) ListForRequester(ctx context.Context, requester string) ([]Certification, error) {
	return g.repo.ListForRequester(ctx, requester)
}

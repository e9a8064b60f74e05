package people

import "context"

type Repository interface {
	Create(ctx context.Context, firstName, lastName, email, passwordHash, role string) (*Person, error)
	FindByEmail(ctx context.Context, email string) (*Person, error)
	FindByID(ctx context.Context, id int) (*Person, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]Person, error)
	UpdateRole(ctx context.Context, id int, role string, isTeamLead bool) error
}

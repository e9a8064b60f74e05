package resource

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, mock, closer
}

func resourceColumns() []string {
	return []string{"id", "name", "kind", "capacity", "certification_required", "created_at"}
}

func TestCreateAndGetResource(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO resources (id, name, kind, capacity, certification_required) VALUES ($1, $2, $3, $4, $5) RETURNING id, name, kind, capacity, certification_required, created_at")).
		WithArgs("laser-1", "Laser Cutter", KindMachine, 1, true).
		WillReturnRows(sqlmock.NewRows(resourceColumns()).
			AddRow("laser-1", "Laser Cutter", KindMachine, 1, true, now))

	created, err := repo.Create(context.Background(), &Resource{
		ID:                    "laser-1",
		Name:                  "Laser Cutter",
		Kind:                  KindMachine,
		Capacity:              1,
		CertificationRequired: true,
	})
	require.NoError(t, err)
	require.Equal(t, "laser-1", created.ID)
	require.True(t, created.CertificationRequired)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, kind, capacity, certification_required, created_at FROM resources WHERE id = $1")).
		WithArgs("laser-1").
		WillReturnRows(sqlmock.NewRows(resourceColumns()).
			AddRow("laser-1", "Laser Cutter", KindMachine, 1, true, now))

	got, err := repo.GetByID(context.Background(), "laser-1")
	require.NoError(t, err)
	require.Equal(t, "Laser Cutter", got.Name)
}

func TestCreateDuplicateResource(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO resources (id, name, kind, capacity, certification_required) VALUES ($1, $2, $3, $4, $5) RETURNING id, name, kind, capacity, certification_required, created_at")).
		WithArgs("laser-1", "Laser Cutter", KindMachine, 1, true).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &Resource{
		ID:                    "laser-1",
		Name:                  "Laser Cutter",
		Kind:                  KindMachine,
		Capacity:              1,
		CertificationRequired: true,
	})
	require.ErrorIs(t, err, ErrDuplicateResource)
}

func TestUpdateCapacity(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE resources SET capacity = $2 WHERE id = $1")).
		WithArgs("studio", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateCapacity(context.Background(), "studio", 5))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE resources SET capacity = $2 WHERE id = $1")).
		WithArgs("ghost", 5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateCapacity(context.Background(), "ghost", 5)
	require.ErrorIs(t, err, ErrResourceNotFoundInStore)
}

func TestGetAllResources(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()

	rows := sqlmock.NewRows(resourceColumns()).
		AddRow("laser-1", "Laser Cutter", KindMachine, 1, true, now).
		AddRow("studio", "Wood Shop", KindSpace, 4, false, now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, kind, capacity, certification_required, created_at FROM resources ORDER BY kind, name")).
		WillReturnRows(rows)

	list, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "laser-1", list[0].ID)
}

// internal/registry/store_test.go
package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-dispatch/internal/common/logger"
	"repair-dispatch/internal/dispatch"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db, logger.NewTestLogger(t)), mock
}

func TestStore_GetByName(t *testing.T) {
	store, mock := newTestStore(t)

	rows := sqlmock.NewRows([]string{"name", "rating", "latitude", "longitude"}).
		AddRow("Hassen", 4.8, 45.52, -73.58)
	mock.ExpectQuery(`SELECT name, rating, latitude, longitude FROM technicians WHERE name = \$1`).
		WithArgs("Hassen").
		WillReturnRows(rows)

	candidate, err := store.GetByName(context.Background(), "Hassen")
	require.NoError(t, err)

	assert.Equal(t, dispatch.ShapeDirect, candidate.Shape, "registry results carry raw coordinates")
	assert.Equal(t, "Hassen", candidate.Name)
	assert.Equal(t, 4.8, candidate.Rating)
	assert.Equal(t, 45.52, candidate.Latitude)
	assert.Equal(t, -73.58, candidate.Longitude)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetByName_NotFound(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(`SELECT name, rating, latitude, longitude FROM technicians WHERE name = \$1`).
		WithArgs("Nobody").
		WillReturnRows(sqlmock.NewRows([]string{"name", "rating", "latitude", "longitude"}))

	_, err := store.GetByName(context.Background(), "Nobody")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTechnicianNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetByName_QueryError(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(`SELECT name, rating, latitude, longitude FROM technicians WHERE name = \$1`).
		WithArgs("Hassen").
		WillReturnError(errors.New("connection refused"))

	_, err := store.GetByName(context.Background(), "Hassen")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTechnicianNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

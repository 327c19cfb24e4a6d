package address

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addressRow(id uuid.UUID, userID uint, isDefault bool) *sqlmock.Rows {
	landmark := "Near temple"
	return sqlmock.NewRows([]string{
		"id", "user_id",
		"country", "state", "town", "area", "landmark", "pincode", "house_no",
		"is_default", "created_at", "updated_at",
	}).AddRow(
		id, userID,
		"India", "Kerala", "Kochi", "Fort Kochi", &landmark, "682001", nil,
		isDefault, time.Now(), time.Now(),
	)
}

func TestRepository_GetByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	userID := uint(7)

	t.Run("DefaultFirst", func(t *testing.T) {
		rows := addressRow(uuid.New(), userID, true).
			AddRow(uuid.New(), userID,
				"India", "Kerala", "Kochi", "Mattancherry", nil, "682002", nil,
				false, time.Now(), time.Now())

		mock.ExpectQuery("SELECT .* FROM delivery_addresses WHERE user_id = \\$1 ORDER BY is_default DESC").
			WithArgs(userID).
			WillReturnRows(rows)

		res, err := repo.GetByUserID(context.Background(), userID)
		assert.NoError(t, err)
		assert.Len(t, res, 2)
		assert.True(t, res[0].IsDefault)
		assert.Nil(t, res[1].Landmark)
	})

	t.Run("NoRowsIsEmpty", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM delivery_addresses WHERE user_id = \\$1").
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "user_id",
				"country", "state", "town", "area", "landmark", "pincode", "house_no",
				"is_default", "created_at", "updated_at",
			}))

		res, err := repo.GetByUserID(context.Background(), userID)
		assert.NoError(t, err)
		assert.Empty(t, res)
	})
}

func TestRepository_GetForUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	userID := uint(7)
	addressID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM delivery_addresses WHERE id = \\$1 AND user_id = \\$2").
			WithArgs(addressID, userID).
			WillReturnRows(addressRow(addressID, userID, false))

		a, err := repo.GetForUser(context.Background(), userID, addressID)
		assert.NoError(t, err)
		assert.Equal(t, addressID, a.ID)
		assert.Equal(t, userID, a.UserID)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM delivery_addresses WHERE id = \\$1 AND user_id = \\$2").
			WithArgs(addressID, userID).
			WillReturnError(sql.ErrNoRows)

		a, err := repo.GetForUser(context.Background(), userID, addressID)
		assert.ErrorIs(t, err, ErrAddressNotFound)
		assert.Nil(t, a)
	})
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	addr := &Address{
		ID:        uuid.New(),
		UserID:    7,
		Country:   "India",
		State:     "Kerala",
		Town:      "Kochi",
		Area:      "Fort Kochi",
		Pincode:   "682001",
		IsDefault: true,
	}

	mock.ExpectExec("INSERT INTO delivery_addresses").
		WithArgs(addr.ID, addr.UserID,
			addr.Country, addr.State, addr.Town, addr.Area, addr.Landmark, addr.Pincode, addr.HouseNo,
			addr.IsDefault).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Create(context.Background(), addr)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	userID := uint(7)
	addressID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM delivery_addresses WHERE id = \\$1 AND user_id = \\$2").
			WithArgs(addressID, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), userID, addressID)
		assert.NoError(t, err)
	})

	t.Run("NotOwnedOrMissing", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM delivery_addresses WHERE id = \\$1 AND user_id = \\$2").
			WithArgs(addressID, userID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), userID, addressID)
		assert.ErrorIs(t, err, ErrAddressNotFound)
	})
}

func TestRepository_SetDefault(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	userID := uint(7)
	addressID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE delivery_addresses SET is_default = true").
			WithArgs(addressID, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SetDefault(context.Background(), userID, addressID)
		assert.NoError(t, err)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("UPDATE delivery_addresses SET is_default = true").
			WithArgs(addressID, userID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetDefault(context.Background(), userID, addressID)
		assert.ErrorIs(t, err, ErrAddressNotFound)
	})
}

func TestRepository_ClearDefault(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	// Clearing when nothing was default is not an error.
	mock.ExpectExec("UPDATE delivery_addresses SET is_default = false").
		WithArgs(uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.ClearDefault(context.Background(), uint(7))
	assert.NoError(t, err)
}

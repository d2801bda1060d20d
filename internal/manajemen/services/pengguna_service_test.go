package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/manajemen/models"
	"github.com/c14220110/kasirung-backend/pkg/session"
	"github.com/c14220110/kasirung-backend/pkg/utils"
)

var penggunaColumns = []string{"id_pengguna", "nama", "username", "id_role", "nama_role", "created_at", "updated_at", "deleted_at"}

func TestListPengguna_SearchAndPagination(t *testing.T) {
	mock, _, penggunaSvc := newMock(t)
	now := time.Now()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM Pengguna p`).
		WithArgs("%budi%", "%budi%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery(`ORDER BY p.nama LIMIT \? OFFSET \?`).
		WithArgs("%budi%", "%budi%", 10, 20).
		WillReturnRows(sqlmock.NewRows(penggunaColumns).
			AddRow(3, "Budi", "budi", 2, "kasir", now, now, nil))

	list, total, err := penggunaSvc().ListPengguna(context.Background(),
		models.PenggunaFilter{Search: "BUDI"}, utils.Pagination{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 21, total)
	require.Len(t, list, 1)
	assert.Equal(t, "aktif", list[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePengguna_RoleInactive(t *testing.T) {
	mock, _, penggunaSvc := newMock(t)
	mock.ExpectQuery(`FROM Role WHERE id_role = \? AND deleted_at IS NULL`).WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, err := penggunaSvc().CreatePengguna(context.Background(), models.CreatePenggunaRequest{
		Nama: "Sari", Username: "sari", Password: "rahasia123", IDRole: 7,
	})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestCreatePengguna_DuplicateUsername(t *testing.T) {
	mock, _, penggunaSvc := newMock(t)
	mock.ExpectQuery(`FROM Role WHERE id_role = \? AND deleted_at IS NULL`).WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO Pengguna`).
		WithArgs("Sari", "sari", sqlmock.AnyArg(), 2).
		WillReturnError(&mysql.MySQLError{Number: 1062})

	_, err := penggunaSvc().CreatePengguna(context.Background(), models.CreatePenggunaRequest{
		Nama: "Sari", Username: "sari", Password: "rahasia123", IDRole: 2,
	})
	assert.ErrorIs(t, err, errs.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeletePengguna_RevokesSessions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := newSessionStore(t)
	ctx := context.Background()

	sess, err := store.Create(ctx, session.Session{IDPengguna: 9, Username: "rina", Role: "kasir"})
	require.NoError(t, err)

	now := time.Now()
	mock.ExpectQuery(`WHERE p.id_pengguna = \?`).WithArgs(9).
		WillReturnRows(sqlmock.NewRows(penggunaColumns).AddRow(9, "Rina", "rina", 2, "kasir", now, now, nil))
	mock.ExpectExec(`UPDATE Pengguna SET deleted_at = NOW\(\)`).WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewPenggunaService(db, store).SoftDeletePengguna(ctx, 9, 1))

	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeletePengguna_Self(t *testing.T) {
	_, _, penggunaSvc := newMock(t)
	err := penggunaSvc().SoftDeletePengguna(context.Background(), 3, 3)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/pkg/session"
)

func newSessionStore(t *testing.T) *session.Store {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return session.NewStore(rdb, time.Hour)
}

func newMock(t *testing.T) (sqlmock.Sqlmock, func() *RoleService, func() *PenggunaService) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return mock, func() *RoleService { return NewRoleService(db, nil) }, func() *PenggunaService { return NewPenggunaService(db, nil) }
}

var roleColumns = []string{"id_role", "nama_role", "created_at", "deleted_at"}

func TestGetRoleList_StatusFilter(t *testing.T) {
	mock, roleSvc, _ := newMock(t)
	now := time.Now()
	mock.ExpectQuery(`FROM Role WHERE deleted_at IS NOT NULL`).
		WillReturnRows(sqlmock.NewRows(roleColumns).AddRow(5, "gudang", now, now))

	list, err := roleSvc().GetRoleList(context.Background(), "NONAKTIF")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "nonaktif", list[0].Status)
	assert.NotNil(t, list[0].DeletedAt)
}

func TestAddRole_Duplicate(t *testing.T) {
	mock, roleSvc, _ := newMock(t)
	mock.ExpectExec(`INSERT INTO Role`).WithArgs("kasir").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err := roleSvc().AddRole(context.Background(), " kasir ")
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestSoftDeleteRole_AdminProtected(t *testing.T) {
	mock, roleSvc, _ := newMock(t)
	mock.ExpectQuery(`FROM Role WHERE id_role = \?`).WithArgs(1).
		WillReturnRows(sqlmock.NewRows(roleColumns).AddRow(1, "admin", time.Now(), nil))

	err := roleSvc().SoftDeleteRole(context.Background(), 1)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteRole(t *testing.T) {
	mock, roleSvc, _ := newMock(t)
	mock.ExpectQuery(`FROM Role WHERE id_role = \?`).WithArgs(4).
		WillReturnRows(sqlmock.NewRows(roleColumns).AddRow(4, "staf_klinik", time.Now(), nil))
	mock.ExpectExec(`UPDATE Role SET deleted_at = NOW\(\)`).WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, roleSvc().SoftDeleteRole(context.Background(), 4))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteRole_RevokesSessions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := newSessionStore(t)
	ctx := context.Background()

	kasir, err := store.Create(ctx, session.Session{IDPengguna: 11, Role: "gudang"})
	require.NoError(t, err)
	lain, err := store.Create(ctx, session.Session{IDPengguna: 20, Role: "kasir"})
	require.NoError(t, err)

	mock.ExpectQuery(`FROM Role WHERE id_role = \?`).WithArgs(5).
		WillReturnRows(sqlmock.NewRows(roleColumns).AddRow(5, "gudang", time.Now(), nil))
	mock.ExpectExec(`UPDATE Role SET deleted_at = NOW\(\)`).WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id_pengguna FROM Pengguna WHERE id_role = \?`).WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id_pengguna"}).AddRow(11).AddRow(12))

	require.NoError(t, NewRoleService(db, store).SoftDeleteRole(ctx, 5))

	_, err = store.Get(ctx, kasir.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	_, err = store.Get(ctx, lain.ID)
	assert.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRole_NotFound(t *testing.T) {
	mock, roleSvc, _ := newMock(t)
	mock.ExpectQuery(`FROM Role WHERE id_role = \?`).WithArgs(99).
		WillReturnRows(sqlmock.NewRows(roleColumns))

	_, err := roleSvc().UpdateRole(context.Background(), 99, "baru")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

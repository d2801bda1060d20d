package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/pkg/session"
	"github.com/c14220110/kasirung-backend/pkg/utils"
)

const testSecret = "rahasia-yang-cukup-panjang"

var penggunaColumns = []string{"id_pengguna", "nama", "username", "password", "id_role", "nama_role"}

func setupService(t *testing.T) (*AuthService, sqlmock.Sqlmock, *session.Store) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	store := session.NewStore(rdb, time.Hour)

	return NewAuthService(db, store, testSecret), mock, store
}

func hash(t *testing.T, password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin_Success(t *testing.T) {
	svc, mock, store := setupService(t)
	mock.ExpectQuery(`FROM Pengguna p`).
		WithArgs("budi").
		WillReturnRows(sqlmock.NewRows(penggunaColumns).
			AddRow(3, "Budi Santoso", "budi", hash(t, "rahasia123"), 2, "kasir"))

	res, err := svc.Login(context.Background(), "budi", "rahasia123")
	require.NoError(t, err)
	assert.Equal(t, "kasir", res.Pengguna.Role)
	assert.WithinDuration(t, time.Now().Add(session.MaxLifetime), res.ExpiresAt, 5*time.Second)

	claims, err := utils.ValidateJWTToken(testSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, 3, claims.IDPengguna)

	sess, err := store.Get(context.Background(), claims.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", sess.Nama)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, mock, _ := setupService(t)
	mock.ExpectQuery(`FROM Pengguna p`).
		WithArgs("budi").
		WillReturnRows(sqlmock.NewRows(penggunaColumns).
			AddRow(3, "Budi", "budi", hash(t, "rahasia123"), 2, "kasir"))
	mock.ExpectQuery(`FROM Pengguna p`).
		WithArgs("hantu").
		WillReturnRows(sqlmock.NewRows(penggunaColumns))

	_, err := svc.Login(context.Background(), "budi", "salah")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "hantu", "apa saja")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChangePassword(t *testing.T) {
	svc, mock, _ := setupService(t)
	rows := func() *sqlmock.Rows {
		return sqlmock.NewRows(penggunaColumns).AddRow(3, "Budi", "budi", hash(t, "lama12345"), 2, "kasir")
	}

	mock.ExpectQuery(`FROM Pengguna p`).WithArgs(3).WillReturnRows(rows())
	err := svc.ChangePassword(context.Background(), 3, "keliru", "baru12345")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	mock.ExpectQuery(`FROM Pengguna p`).WithArgs(3).WillReturnRows(rows())
	mock.ExpectExec(`UPDATE Pengguna SET password`).
		WithArgs(sqlmock.AnyArg(), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, svc.ChangePassword(context.Background(), 3, "lama12345", "baru12345"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMe_NotFound(t *testing.T) {
	svc, mock, _ := setupService(t)
	mock.ExpectQuery(`FROM Pengguna p`).WithArgs(9).WillReturnRows(sqlmock.NewRows(penggunaColumns))

	_, err := svc.Me(context.Background(), 9)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

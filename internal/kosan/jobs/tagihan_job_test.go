package jobs

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c14220110/kasirung-backend/internal/kosan/services"
)

func TestNewScheduler(t *testing.T) {
	job := &TagihanJob{Logger: zerolog.Nop()}
	loc := time.FixedZone("WIB", 7*3600)

	c, err := NewScheduler("0 1 1 * *", loc, job, zerolog.Nop())
	require.NoError(t, err)
	entries := c.Entries()
	require.Len(t, entries, 1)

	next := entries[0].Schedule.Next(time.Date(2026, 10, 19, 12, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2026, 11, 1, 1, 0, 0, 0, loc), next)

	_, err = NewScheduler("bukan jadwal", loc, job, zerolog.Nop())
	assert.Error(t, err)
}

func TestTagihanJob_Run(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := services.NewTagihanService(db, time.FixedZone("WIB", 7*3600), nil)
	periode := svc.PeriodeSekarang()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM Penyewa`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(`INSERT IGNORE INTO Tagihan_Kosan`).
		WithArgs(periode, sqlmock.AnyArg(), "unpaid", "aktif", sqlmock.AnyArg(), periode).
		WillReturnResult(sqlmock.NewResult(0, 2))

	(&TagihanJob{Service: svc, Logger: zerolog.Nop()}).Run()
	require.NoError(t, mock.ExpectationsWereMet())
}

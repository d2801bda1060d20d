package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboardData_MergesModules(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	wib := time.FixedZone("WIB", 7*3600)
	dari := time.Date(2026, 10, 17, 0, 0, 0, 0, wib)
	sampai := time.Date(2026, 10, 20, 0, 0, 0, 0, wib)

	mock.ExpectQuery(`FROM Pengguna`).
		WillReturnRows(sqlmock.NewRows([]string{"aktif", "nonaktif"}).AddRow(6, 1))
	mock.ExpectQuery(`FROM Role r`).
		WillReturnRows(sqlmock.NewRows([]string{"nama_role", "count"}).
			AddRow("admin", 1).AddRow("kasir", 3).AddRow("staf_klinik", 2))
	mock.ExpectQuery(`FROM Transaksi`).WithArgs(dari, sampai).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(12, "1500000.00"))
	mock.ExpectQuery(`FROM Kamar`).
		WillReturnRows(sqlmock.NewRows([]string{"count", "terisi"}).AddRow(10, 7))
	mock.ExpectQuery(`FROM Tagihan_Kosan`).WithArgs(dari, sampai).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("2400000.00"))
	mock.ExpectQuery(`FROM Konsultasi`).WithArgs(dari, sampai).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))
	mock.ExpectQuery(`FROM Tagihan_Klinik`).WithArgs(dari, sampai).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("600000.00"))
	mock.ExpectQuery(`UNION ALL`).WithArgs(dari, sampai, dari, sampai, dari, sampai).
		WillReturnRows(sqlmock.NewRows([]string{"hari", "jumlah"}).
			AddRow("2026-10-17", "3000000.00").
			AddRow("2026-10-19", "1500000.00"))

	d, err := NewDashboardService(db).GetDashboardData(context.Background(), dari, sampai)
	require.NoError(t, err)

	assert.Equal(t, 6, d.PenggunaAktif)
	assert.Equal(t, 1, d.PenggunaNonAktif)
	assert.Len(t, d.PenggunaPerRole, 3)
	assert.Equal(t, 12, d.JumlahTransaksi)
	assert.Equal(t, 7, d.KamarTerisi)
	assert.Equal(t, 9, d.KunjunganKlinik)
	assert.True(t, decimal.NewFromInt(4500000).Equal(d.PendapatanTotal), d.PendapatanTotal.String())

	require.Len(t, d.PendapatanHarian, 3)
	assert.Equal(t, "2026-10-18", d.PendapatanHarian[1].Label)
	assert.True(t, d.PendapatanHarian[1].Jumlah.IsZero())
	assert.Equal(t, "3000000", d.PendapatanHarian[0].Jumlah.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

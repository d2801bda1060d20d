package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/kosan/models"
	"github.com/c14220110/kasirung-backend/pkg/utils"
)

var (
	wib          = time.FixedZone("WIB", 7*3600)
	fixedNow     = time.Date(2026, 10, 19, 10, 0, 0, 0, wib)
	kamarColumns = []string{"id_kamar", "id_gedung", "nama", "nomor_kamar", "harga_bulanan", "fasilitas", "status", "created_at"}
	penyewaCols  = []string{"id_penyewa", "id_kamar", "nomor_kamar", "nama_gedung", "nama", "nik", "no_telp",
		"tanggal_masuk", "tanggal_keluar", "status", "created_at"}
)

func newDB(t *testing.T) (sqlmock.Sqlmock, *KamarService, *PenyewaService, *TagihanService, *GedungService) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tagihan := NewTagihanService(db, wib, nil)
	tagihan.now = func() time.Time { return fixedNow }
	penyewa := NewPenyewaService(db, wib, tagihan)
	penyewa.now = func() time.Time { return fixedNow }
	return mock, NewKamarService(db), penyewa, tagihan, NewGedungService(db)
}

func expectKamar(mock sqlmock.Sqlmock, id int, status string) {
	mock.ExpectQuery(`FROM Kamar k\s+JOIN Gedung g ON g.id_gedung = k.id_gedung WHERE k.id_kamar = \?`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(kamarColumns).
			AddRow(id, 1, "Gedung Melati", "A01", "1500000.00", nil, status, fixedNow))
}

func TestDeleteKamar_ActiveTenantConflict(t *testing.T) {
	mock, kamar, _, _, _ := newDB(t)
	expectKamar(mock, 4, models.KamarTerisi)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM Penyewa WHERE id_kamar = ? AND status = ?")).
		WithArgs(4, "aktif").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := kamar.DeleteKamar(context.Background(), 4)
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, "Kamar masih ditempati penyewa aktif", errs.From(err).Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteKamar_Empty(t *testing.T) {
	mock, kamar, _, _, _ := newDB(t)
	expectKamar(mock, 4, models.KamarKosong)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM Penyewa`).WithArgs(4, "aktif").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`DELETE FROM Kamar`).WithArgs(4).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, kamar.DeleteKamar(context.Background(), 4))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteGedung_WithRooms(t *testing.T) {
	mock, _, _, _, gedung := newDB(t)
	mock.ExpectQuery(`FROM Gedung g`).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id_gedung", "nama", "alamat", "keterangan", "created_at", "jumlah", "terisi"}).
			AddRow(1, "Gedung Melati", "Jl. Melati 1", nil, fixedNow, 3, 1))

	err := gedung.DeleteGedung(context.Background(), 1)
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestCheckIn_OccupiedRoom(t *testing.T) {
	mock, _, penyewa, _, _ := newDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM Kamar WHERE id_kamar = ? FOR UPDATE")).WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.KamarTerisi))
	mock.ExpectRollback()

	_, err := penyewa.CheckIn(context.Background(), models.CheckInRequest{
		IDKamar: 4, Nama: "Siti", NIK: "3578000000000001", NoTelp: "0812", TanggalMasuk: "2026-10-01",
	})
	require.ErrorIs(t, err, errs.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckIn_MarksRoomOccupied(t *testing.T) {
	mock, _, penyewa, _, _ := newDB(t)
	masuk := time.Date(2026, 10, 1, 0, 0, 0, 0, wib)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM Kamar`).WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.KamarKosong))
	mock.ExpectExec(`INSERT INTO Penyewa`).
		WithArgs(4, "Siti", "3578000000000001", "0812", masuk, "aktif").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec(`UPDATE Kamar SET status = \?`).WithArgs("terisi", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`FROM Penyewa p`).WithArgs(12).
		WillReturnRows(sqlmock.NewRows(penyewaCols).
			AddRow(12, 4, "A01", "Gedung Melati", "Siti", "3578000000000001", "0812", masuk, nil, "aktif", fixedNow))

	p, err := penyewa.CheckIn(context.Background(), models.CheckInRequest{
		IDKamar: 4, Nama: " Siti ", NIK: "3578000000000001", NoTelp: "0812", TanggalMasuk: "2026-10-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 12, p.IDPenyewa)
	assert.Equal(t, models.PenyewaAktif, p.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckOut_FreesRoom(t *testing.T) {
	mock, _, penyewa, _, _ := newDB(t)
	masuk := time.Date(2026, 1, 5, 0, 0, 0, 0, wib)
	keluar := time.Date(2026, 10, 19, 0, 0, 0, 0, wib)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id_kamar, status, tanggal_masuk FROM Penyewa`).WithArgs(12).
		WillReturnRows(sqlmock.NewRows([]string{"id_kamar", "status", "tanggal_masuk"}).AddRow(4, "aktif", masuk))
	mock.ExpectExec(`UPDATE Penyewa SET status = \?, tanggal_keluar = \?`).WithArgs("keluar", keluar, 12).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE Kamar SET status = \?`).WithArgs("kosong", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`FROM Penyewa p`).WithArgs(12).
		WillReturnRows(sqlmock.NewRows(penyewaCols).
			AddRow(12, 4, "A01", "Gedung Melati", "Siti", "3578000000000001", "0812", masuk, keluar, "keluar", fixedNow))

	p, err := penyewa.CheckOut(context.Background(), 12, models.CheckOutRequest{})
	require.NoError(t, err)
	require.NotNil(t, p.TanggalKeluar)
	assert.Equal(t, models.PenyewaKeluar, p.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckOut_AlreadyOut(t *testing.T) {
	mock, _, penyewa, _, _ := newDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id_kamar, status, tanggal_masuk FROM Penyewa`).WithArgs(12).
		WillReturnRows(sqlmock.NewRows([]string{"id_kamar", "status", "tanggal_masuk"}).AddRow(4, "keluar", fixedNow))
	mock.ExpectRollback()

	_, err := penyewa.CheckOut(context.Background(), 12, models.CheckOutRequest{})
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestDeletePenyewa_PaidInvoices(t *testing.T) {
	mock, _, penyewa, _, _ := newDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id_kamar, status FROM Penyewa`).WithArgs(12).
		WillReturnRows(sqlmock.NewRows([]string{"id_kamar", "status"}).AddRow(4, "keluar"))
	mock.ExpectQuery(`FROM Tagihan_Kosan WHERE id_penyewa = \? AND status = \?`).WithArgs(12, "paid").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	err := penyewa.DeletePenyewa(context.Background(), 12)
	require.ErrorIs(t, err, errs.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateTagihan_SkipsInvoicedTenants(t *testing.T) {
	mock, _, _, tagihan, _ := newDB(t)
	akhir := time.Date(2026, 11, 1, 0, 0, 0, 0, wib)
	jatuhTempo := time.Date(2026, 10, 10, 0, 0, 0, 0, wib)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM Penyewa WHERE status = \? AND tanggal_masuk < \?`).
		WithArgs("aktif", akhir).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectExec(`INSERT IGNORE INTO Tagihan_Kosan(.|\n)*NOT EXISTS`).
		WithArgs("2026-10", jatuhTempo, "unpaid", "aktif", akhir, "2026-10").
		WillReturnResult(sqlmock.NewResult(0, 2))

	res, err := tagihan.GenerateTagihan(context.Background(), "2026-10")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Dibuat)
	assert.Equal(t, 3, res.Dilewati)
	require.NoError(t, mock.ExpectationsWereMet())

	_, err = tagihan.GenerateTagihan(context.Background(), "10-2026")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestGenerateTagihan_ConcurrentRunIsIdempotent(t *testing.T) {
	mock, _, _, tagihan, _ := newDB(t)

	// generate lain sudah menyisipkan semua tagihan periode ini lebih dulu
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM Penyewa`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectExec(`INSERT IGNORE INTO Tagihan_Kosan`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	res, err := tagihan.GenerateTagihan(context.Background(), "2026-10")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Dibuat)
	assert.Equal(t, 4, res.Dilewati)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBayarTagihan_AlreadyPaid(t *testing.T) {
	mock, _, _, tagihan, _ := newDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM Tagihan_Kosan WHERE id_tagihan = \? FOR UPDATE`).WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("paid"))
	mock.ExpectRollback()

	_, err := tagihan.BayarTagihan(context.Background(), 8)
	require.ErrorIs(t, err, errs.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListTagihan_MarksOverdue(t *testing.T) {
	mock, _, _, tagihan, _ := newDB(t)
	cols := []string{"id_tagihan", "id_penyewa", "nama", "nomor_kamar", "gedung", "periode", "jumlah",
		"jatuh_tempo", "status", "dibayar_pada", "created_at"}
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM Tagihan_Kosan t WHERE t.status = \?`).WithArgs("unpaid").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`FROM Tagihan_Kosan t`).WithArgs("unpaid", 20, 0).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, 12, "Siti", "A01", "Melati", "2026-10", "1500000.00", time.Date(2026, 10, 10, 0, 0, 0, 0, wib), "unpaid", nil, fixedNow).
			AddRow(2, 13, "Rina", "A02", "Melati", "2026-11", "1500000.00", time.Date(2026, 11, 10, 0, 0, 0, 0, wib), "unpaid", nil, fixedNow))

	list, total, err := tagihan.ListTagihan(context.Background(), models.TagihanFilter{Status: "unpaid"},
		utils.Pagination{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.True(t, list[0].Terlambat)
	assert.False(t, list[1].Terlambat)
}

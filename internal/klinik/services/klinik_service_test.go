package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/common/sequence"
	"github.com/c14220110/kasirung-backend/internal/klinik/models"
)

var (
	wib      = time.FixedZone("WIB", 7*3600)
	fixedNow = time.Date(2026, 10, 19, 9, 30, 0, 0, wib)

	pasienCols = []string{"id_pasien", "no_rm", "nama", "nik", "tanggal_lahir", "jenis_kelamin", "alamat",
		"no_telp", "golongan_darah", "created_at"}
	konsultasiCols = []string{"id_konsultasi", "id_pasien", "nama", "no_rm", "id_tenaga_medis", "nama_tm", "tanggal",
		"keluhan", "diagnosa", "tindakan", "biaya_konsultasi", "status"}
	tagihanCols = []string{"id_tagihan", "no_tagihan", "id_konsultasi", "nama", "no_rm", "nama_tm", "total_konsultasi",
		"total_obat", "total", "status", "metode_bayar", "dibayar_pada", "created_at"}
)

func newMock(t *testing.T) (sqlmock.Sqlmock, *PasienService, *KonsultasiService, *ObatService, *TagihanService) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ps := NewPasienService(db, wib)
	ps.now = func() time.Time { return fixedNow }
	ks := NewKonsultasiService(db, wib, nil)
	ks.now = func() time.Time { return fixedNow }
	obat := NewObatService(db, nil)
	obat.now = func() time.Time { return fixedNow }
	ts := NewTagihanService(db, wib, nil)
	ts.now = func() time.Time { return fixedNow }
	return mock, ps, ks, obat, ts
}

func expectSequence(mock sqlmock.Sqlmock, nama, kunci string, current int) {
	mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO Sequence_Nomor")).WithArgs(nama, kunci).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT nilai FROM Sequence_Nomor`).WithArgs(nama, kunci).
		WillReturnRows(sqlmock.NewRows([]string{"nilai"}).AddRow(current))
	mock.ExpectExec(`UPDATE Sequence_Nomor SET nilai = \?`).WithArgs(current+1, nama, kunci).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func strPtr(s string) *string { return &s }

func TestCreatePasien_AssignsYearlyRM(t *testing.T) {
	mock, ps, _, _, _ := newMock(t)
	lahir := time.Date(1990, 5, 17, 0, 0, 0, 0, wib)

	mock.ExpectBegin()
	expectSequence(mock, sequence.RekamMedis, "2026", 41)
	mock.ExpectExec(`INSERT INTO Pasien`).
		WithArgs("MR20260042", "Budi Santoso", "3578010101900001", lahir, "L", nil, "08123456789", nil).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`FROM Pasien WHERE id_pasien = \?`).WithArgs(42).
		WillReturnRows(sqlmock.NewRows(pasienCols).
			AddRow(42, "MR20260042", "Budi Santoso", "3578010101900001", lahir, "L", nil, "08123456789", nil, fixedNow))

	p, err := ps.CreatePasien(context.Background(), models.PasienRequest{
		Nama:         " Budi Santoso ",
		NIK:          strPtr("3578010101900001"),
		TanggalLahir: "1990-05-17",
		JenisKelamin: "L",
		Alamat:       strPtr("  "),
		NoTelp:       strPtr("08123456789"),
	})
	require.NoError(t, err)
	assert.Equal(t, "MR20260042", p.NoRM)
	assert.Nil(t, p.Alamat)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePasien_DuplicateNIK(t *testing.T) {
	mock, ps, _, _, _ := newMock(t)

	mock.ExpectBegin()
	expectSequence(mock, sequence.RekamMedis, "2026", 7)
	mock.ExpectExec(`INSERT INTO Pasien`).WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	_, err := ps.CreatePasien(context.Background(), models.PasienRequest{
		Nama: "Ani", NIK: strPtr("3578010101900001"), TanggalLahir: "2001-02-03", JenisKelamin: "P",
	})
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, "NIK sudah terdaftar", errs.From(err).Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePasien_FutureBirthDate(t *testing.T) {
	_, ps, _, _, _ := newMock(t)
	_, err := ps.CreatePasien(context.Background(), models.PasienRequest{
		Nama: "Ani", TanggalLahir: "2030-01-01", JenisKelamin: "P",
	})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestDeletePasien_WithHistory(t *testing.T) {
	mock, ps, _, _, _ := newMock(t)
	mock.ExpectQuery(`FROM Pasien WHERE id_pasien = \?`).WithArgs(5).
		WillReturnRows(sqlmock.NewRows(pasienCols).
			AddRow(5, "MR20260005", "Ani", nil, fixedNow, "P", nil, nil, nil, fixedNow))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM Konsultasi WHERE id_pasien = \?`).WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	err := ps.DeletePasien(context.Background(), 5)
	require.ErrorIs(t, err, errs.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDaftar_RequiresActiveDokter(t *testing.T) {
	mock, _, ks, _, _ := newMock(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM Pasien`).WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT profesi, aktif, tarif FROM Tenaga_Medis`).WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"profesi", "aktif", "tarif"}).AddRow("perawat", true, "0.00"))

	_, err := ks.Daftar(context.Background(), models.KonsultasiRequest{IDPasien: 5, IDTenagaMedis: 2, Keluhan: "demam"})
	require.ErrorIs(t, err, errs.ErrInvalidInput)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatal_FinishedConsultation(t *testing.T) {
	mock, _, ks, _, _ := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM Konsultasi WHERE id_konsultasi = \? FOR UPDATE`).WithArgs(15).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.StatusSelesai))
	mock.ExpectRollback()

	_, err := ks.Batal(context.Background(), 15)
	require.ErrorIs(t, err, errs.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func expectLockObat(mock sqlmock.Sqlmock, id int, nama, harga string, stok, minimum int) {
	mock.ExpectQuery(`SELECT id_obat, nama, harga, stok, stok_minimum FROM Obat`).WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id_obat", "nama", "harga", "stok", "stok_minimum"}).
			AddRow(id, nama, harga, stok, minimum))
}

func TestSelesai_DeductsStockAndCreatesOneInvoice(t *testing.T) {
	mock, _, ks, _, _ := newMock(t)
	keterangan := "Resep konsultasi #15"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status, biaya_konsultasi FROM Konsultasi`).WithArgs(15).
		WillReturnRows(sqlmock.NewRows([]string{"status", "biaya_konsultasi"}).AddRow(models.StatusDiperiksa, "75000.00"))
	// dikunci berurutan id walau resep menyebut obat 7 lebih dulu
	expectLockObat(mock, 3, "Amoxicillin 500mg", "5000.00", 10, 2)
	expectLockObat(mock, 7, "Paracetamol 500mg", "2500.00", 5, 4)

	mock.ExpectExec(`UPDATE Obat SET stok = \?`).WithArgs(9, 3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO Mutasi_Stok`).WithArgs(3, "keluar", 1, 10, 9, keterangan, fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE Obat SET stok = \?`).WithArgs(2, 7).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO Mutasi_Stok`).WithArgs(7, "keluar", 3, 5, 2, keterangan, fixedNow).
		WillReturnResult(sqlmock.NewResult(2, 1))

	mock.ExpectExec(`INSERT INTO Resep`).WithArgs(15, 7, 2, "3x1 sesudah makan", "2500", "5000").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO Resep`).WithArgs(15, 3, 1, "3x1 habiskan", "5000", "5000").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec(`INSERT INTO Resep`).WithArgs(15, 7, 1, "bila demam", "2500", "2500").
		WillReturnResult(sqlmock.NewResult(3, 1))

	expectSequence(mock, sequence.TagihanKlinik, "202610", 11)
	mock.ExpectExec(`INSERT INTO Tagihan_Klinik`).
		WithArgs("INV2026100012", 15, "75000", "12500", "87500", "unpaid", fixedNow).
		WillReturnResult(sqlmock.NewResult(30, 1))
	mock.ExpectExec(`UPDATE Konsultasi SET diagnosa = \?`).WithArgs("ISPA", nil, "75000", "selesai", 15).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`FROM Konsultasi k`).WithArgs(15).
		WillReturnRows(sqlmock.NewRows(konsultasiCols).
			AddRow(15, 5, "Ani", "MR20260005", 1, "dr. Sari", fixedNow, "demam", "ISPA", nil, "75000.00", "selesai"))
	mock.ExpectQuery(`FROM Resep r`).WithArgs(15).
		WillReturnRows(sqlmock.NewRows([]string{"id_resep", "id_obat", "nama", "satuan", "jumlah", "aturan_pakai", "harga", "subtotal"}).
			AddRow(1, 7, "Paracetamol 500mg", "tablet", 2, "3x1 sesudah makan", "2500.00", "5000.00").
			AddRow(2, 3, "Amoxicillin 500mg", "kapsul", 1, "3x1 habiskan", "5000.00", "5000.00").
			AddRow(3, 7, "Paracetamol 500mg", "tablet", 1, "bila demam", "2500.00", "2500.00"))
	mock.ExpectQuery(`FROM Tagihan_Klinik t`).WithArgs(15).
		WillReturnRows(sqlmock.NewRows(tagihanCols).
			AddRow(30, "INV2026100012", 15, "Ani", "MR20260005", "dr. Sari", "75000.00", "12500.00", "87500.00",
				"unpaid", nil, nil, fixedNow))

	k, err := ks.Selesai(context.Background(), 15, models.SelesaiRequest{
		Diagnosa: "ISPA",
		Resep: []models.ResepRequest{
			{IDObat: 7, Jumlah: 2, AturanPakai: "3x1 sesudah makan"},
			{IDObat: 3, Jumlah: 1, AturanPakai: "3x1 habiskan"},
			{IDObat: 7, Jumlah: 1, AturanPakai: "bila demam"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusSelesai, k.Status)
	assert.Len(t, k.Resep, 3)
	require.NotNil(t, k.Tagihan)
	assert.Equal(t, "INV2026100012", k.Tagihan.NoTagihan)
	assert.True(t, k.Tagihan.Total.Equal(decimal.NewFromInt(87500)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSelesai_InsufficientStockWritesNothing(t *testing.T) {
	mock, _, ks, _, _ := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status, biaya_konsultasi FROM Konsultasi`).WithArgs(15).
		WillReturnRows(sqlmock.NewRows([]string{"status", "biaya_konsultasi"}).AddRow(models.StatusDiperiksa, "75000.00"))
	expectLockObat(mock, 7, "Paracetamol 500mg", "2500.00", 2, 4)
	mock.ExpectRollback()

	biaya := decimal.NewFromInt(50000)
	_, err := ks.Selesai(context.Background(), 15, models.SelesaiRequest{
		Diagnosa:        "ISPA",
		BiayaKonsultasi: &biaya,
		Resep:           []models.ResepRequest{{IDObat: 7, Jumlah: 3, AturanPakai: "3x1"}},
	})
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, "Stok Paracetamol 500mg tidak mencukupi (tersisa 2)", errs.From(err).Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSelesai_AlreadyFinished(t *testing.T) {
	mock, _, ks, _, _ := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status, biaya_konsultasi FROM Konsultasi`).WithArgs(15).
		WillReturnRows(sqlmock.NewRows([]string{"status", "biaya_konsultasi"}).AddRow(models.StatusSelesai, "75000.00"))
	mock.ExpectRollback()

	_, err := ks.Selesai(context.Background(), 15, models.SelesaiRequest{Diagnosa: "ISPA"})
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestMutasiStok_KeluarMelebihiStok(t *testing.T) {
	mock, _, _, obat, _ := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT nama, stok, stok_minimum FROM Obat`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"nama", "stok", "stok_minimum"}).AddRow("Amoxicillin 500mg", 4, 2))
	mock.ExpectRollback()

	_, err := obat.MutasiStok(context.Background(), 3, models.MutasiRequest{Tipe: models.MutasiKeluar, Jumlah: 5})
	require.ErrorIs(t, err, errs.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMutasiStok_MasukRecordsHistory(t *testing.T) {
	mock, _, _, obat, _ := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT nama, stok, stok_minimum FROM Obat`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"nama", "stok", "stok_minimum"}).AddRow("Amoxicillin 500mg", 4, 2))
	mock.ExpectExec(`UPDATE Obat SET stok = \?`).WithArgs(54, 3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO Mutasi_Stok`).WithArgs(3, "masuk", 50, 4, 54, "Faktur 123", fixedNow).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`FROM Obat WHERE id_obat = \?`).WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id_obat", "kode", "nama", "satuan", "harga", "stok", "stok_minimum", "created_at"}).
			AddRow(3, "AMX500", "Amoxicillin 500mg", "kapsul", "5000.00", 54, 2, fixedNow))

	o, err := obat.MutasiStok(context.Background(), 3, models.MutasiRequest{
		Tipe: models.MutasiMasuk, Jumlah: 50, Keterangan: strPtr("Faktur 123"),
	})
	require.NoError(t, err)
	assert.Equal(t, 54, o.Stok)
	assert.False(t, o.StokMenipis)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBayarTagihanKlinik_AlreadyPaid(t *testing.T) {
	mock, _, _, _, ts := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM Tagihan_Klinik WHERE id_tagihan = \? FOR UPDATE`).WithArgs(30).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(models.TagihanPaid))
	mock.ExpectRollback()

	_, err := ts.BayarTagihan(context.Background(), 30, models.BayarRequest{MetodeBayar: "tunai"})
	require.ErrorIs(t, err, errs.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoicePDF(t *testing.T) {
	mock, _, _, _, ts := newMock(t)
	mock.ExpectQuery(`FROM Tagihan_Klinik t`).WithArgs(30).
		WillReturnRows(sqlmock.NewRows(tagihanCols).
			AddRow(30, "INV2026100012", 15, "Ani", "MR20260005", "dr. Sari", "75000.00", "5000.00", "80000.00",
				"paid", "qris", fixedNow, fixedNow))
	mock.ExpectQuery(`FROM Resep r`).WithArgs(15).
		WillReturnRows(sqlmock.NewRows([]string{"id_resep", "id_obat", "nama", "satuan", "jumlah", "aturan_pakai", "harga", "subtotal"}).
			AddRow(1, 7, "Paracetamol 500mg", "tablet", 2, "3x1", "2500.00", "5000.00"))

	body, filename, err := ts.InvoicePDF(context.Background(), 30, "Klinik Sehat")
	require.NoError(t, err)
	assert.Equal(t, "tagihan-INV2026100012.pdf", filename)
	assert.Equal(t, "%PDF-", string(body[:5]))
}

package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/kasir/models"
	"github.com/c14220110/kasirung-backend/ws"
)

var jakarta = time.FixedZone("WIB", 7*3600)

func newTransaksiService(t *testing.T) (*TransaksiService, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewTransaksiService(db, jakarta, ws.NewHub(zerolog.Nop()))
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 9, 30, 0, 0, jakarta) }
	return svc, mock
}

func expectLockProduk(mock sqlmock.Sqlmock, id int, nama, harga string, stok int) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id_produk, nama, harga, stok, stok_minimum FROM Produk WHERE id_produk = ? AND deleted_at IS NULL FOR UPDATE")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id_produk", "nama", "harga", "stok", "stok_minimum"}).AddRow(id, nama, harga, stok, 2))
}

func expectSequence(mock sqlmock.Sqlmock, nama, kunci string, current int) {
	mock.ExpectExec(`INSERT IGNORE INTO Sequence_Nomor`).WithArgs(nama, kunci).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT nilai FROM Sequence_Nomor`).WithArgs(nama, kunci).
		WillReturnRows(sqlmock.NewRows([]string{"nilai"}).AddRow(current))
	mock.ExpectExec(`UPDATE Sequence_Nomor SET nilai`).WithArgs(current+1, nama, kunci).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestCreateTransaksi_Success(t *testing.T) {
	svc, mock := newTransaksiService(t)

	mock.ExpectBegin()
	expectLockProduk(mock, 1, "Kopi Susu", "15000.00", 10)
	expectLockProduk(mock, 2, "Roti Bakar", "12500.00", 3)
	mock.ExpectExec(`UPDATE Produk SET stok = stok - \?`).WithArgs(3, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE Produk SET stok = stok - \?`).WithArgs(1, 2).WillReturnResult(sqlmock.NewResult(0, 1))
	expectSequence(mock, "transaksi", "20261019", 6)
	mock.ExpectExec(`INSERT INTO Transaksi`).
		WithArgs("TRX202610190007", 5, "57500", "60000", "2500", "tunai", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectExec(`INSERT INTO Detail_Transaksi`).
		WithArgs(int64(31), 1, "Kopi Susu", sqlmock.AnyArg(), 3, "45000").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO Detail_Transaksi`).
		WithArgs(int64(31), 2, "Roti Bakar", sqlmock.AnyArg(), 1, "12500").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	trx, err := svc.CreateTransaksi(context.Background(), 5, models.TransaksiRequest{
		Items: []models.ItemRequest{
			{IDProduk: 2, Jumlah: 1},
			{IDProduk: 1, Jumlah: 2},
			{IDProduk: 1, Jumlah: 1},
		},
		Bayar:       decimal.NewFromInt(60000),
		MetodeBayar: models.MetodeTunai,
	})
	require.NoError(t, err)
	assert.Equal(t, "TRX202610190007", trx.KodeTransaksi)
	assert.True(t, trx.Total.Equal(decimal.NewFromInt(57500)))
	assert.True(t, trx.Kembalian.Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, 4, trx.JumlahItem)
	require.Len(t, trx.Items, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTransaksi_InsufficientStockWritesNothing(t *testing.T) {
	svc, mock := newTransaksiService(t)

	mock.ExpectBegin()
	expectLockProduk(mock, 1, "Kopi Susu", "15000.00", 1)
	mock.ExpectRollback()

	_, err := svc.CreateTransaksi(context.Background(), 5, models.TransaksiRequest{
		Items:       []models.ItemRequest{{IDProduk: 1, Jumlah: 2}},
		Bayar:       decimal.NewFromInt(50000),
		MetodeBayar: models.MetodeTunai,
	})
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Contains(t, err.Error(), "Stok Kopi Susu tidak mencukupi")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTransaksi_UnderpaidCash(t *testing.T) {
	svc, mock := newTransaksiService(t)

	mock.ExpectBegin()
	expectLockProduk(mock, 1, "Kopi Susu", "15000.00", 5)
	mock.ExpectRollback()

	_, err := svc.CreateTransaksi(context.Background(), 5, models.TransaksiRequest{
		Items:       []models.ItemRequest{{IDProduk: 1, Jumlah: 2}},
		Bayar:       decimal.NewFromInt(20000),
		MetodeBayar: models.MetodeTunai,
	})
	require.ErrorIs(t, err, errs.ErrInvalidInput)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTransaksi_UnknownProduct(t *testing.T) {
	svc, mock := newTransaksiService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM Produk WHERE id_produk = \?`).WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id_produk", "nama", "harga", "stok"}))
	mock.ExpectRollback()

	_, err := svc.CreateTransaksi(context.Background(), 5, models.TransaksiRequest{
		Items:       []models.ItemRequest{{IDProduk: 9, Jumlah: 1}},
		MetodeBayar: models.MetodeQRIS,
	})
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMergeItems(t *testing.T) {
	got := mergeItems([]models.ItemRequest{{IDProduk: 3, Jumlah: 1}, {IDProduk: 1, Jumlah: 2}, {IDProduk: 3, Jumlah: 4}})
	assert.Equal(t, []models.ItemRequest{{IDProduk: 1, Jumlah: 2}, {IDProduk: 3, Jumlah: 5}}, got)
}

func TestMenipis_RemainingStockAtOrBelowMinimum(t *testing.T) {
	got := menipis([]lockedProduk{
		{id: 1, nama: "Kopi Susu", stok: 10, minimum: 2, jumlah: 3},
		{id: 2, nama: "Roti Bakar", stok: 3, minimum: 2, jumlah: 1},
		{id: 3, nama: "Teh Manis", stok: 5, minimum: 0, jumlah: 5},
	})
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].id)
	assert.Equal(t, 3, got[1].id)
}

func TestCreateTransaksi_DetailInsertIDError(t *testing.T) {
	svc, mock := newTransaksiService(t)

	mock.ExpectBegin()
	expectLockProduk(mock, 1, "Kopi Susu", "15000.00", 10)
	mock.ExpectExec(`UPDATE Produk SET stok = stok - \?`).WithArgs(1, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	expectSequence(mock, "transaksi", "20261019", 0)
	mock.ExpectExec(`INSERT INTO Transaksi`).WillReturnResult(sqlmock.NewResult(40, 1))
	mock.ExpectExec(`INSERT INTO Detail_Transaksi`).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("driver tidak mendukung LastInsertId")))
	mock.ExpectRollback()

	_, err := svc.CreateTransaksi(context.Background(), 5, models.TransaksiRequest{
		Items:       []models.ItemRequest{{IDProduk: 1, Jumlah: 1}},
		MetodeBayar: models.MetodeQRIS,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gagal membaca id detail transaksi")
	require.NoError(t, mock.ExpectationsWereMet())
}

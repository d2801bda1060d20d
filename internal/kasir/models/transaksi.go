package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MetodeTunai    = "tunai"
	MetodeQRIS     = "qris"
	MetodeTransfer = "transfer"
	MetodeDebit    = "debit"
)

type Transaksi struct {
	IDTransaksi   int               `json:"id_transaksi"`
	KodeTransaksi string            `json:"kode_transaksi"`
	IDPengguna    int               `json:"id_pengguna"`
	NamaKasir     string            `json:"nama_kasir"`
	Total         decimal.Decimal   `json:"total"`
	Bayar         decimal.Decimal   `json:"bayar"`
	Kembalian     decimal.Decimal   `json:"kembalian"`
	MetodeBayar   string            `json:"metode_bayar"`
	JumlahItem    int               `json:"jumlah_item"`
	CreatedAt     time.Time         `json:"created_at"`
	Items         []DetailTransaksi `json:"items,omitempty"`
}

type DetailTransaksi struct {
	IDDetail   int             `json:"id_detail"`
	IDProduk   int             `json:"id_produk"`
	NamaProduk string          `json:"nama_produk"`
	Harga      decimal.Decimal `json:"harga"`
	Jumlah     int             `json:"jumlah"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type ItemRequest struct {
	IDProduk int `json:"id_produk" validate:"required,gt=0"`
	Jumlah   int `json:"jumlah" validate:"required,gt=0"`
}

type TransaksiRequest struct {
	Items       []ItemRequest   `json:"items" validate:"required,min=1,dive"`
	Bayar       decimal.Decimal `json:"bayar" validate:"gte=0"`
	MetodeBayar string          `json:"metode_bayar" validate:"required,oneof=tunai qris transfer debit"`
}

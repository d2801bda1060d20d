package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MutasiMasuk  = "masuk"
	MutasiKeluar = "keluar"
)

type Obat struct {
	IDObat      int             `json:"id_obat"`
	Kode        string          `json:"kode"`
	Nama        string          `json:"nama"`
	Satuan      string          `json:"satuan"`
	Harga       decimal.Decimal `json:"harga"`
	Stok        int             `json:"stok"`
	StokMinimum int             `json:"stok_minimum"`
	StokMenipis bool            `json:"stok_menipis"`
	CreatedAt   time.Time       `json:"created_at"`
}

type ObatFilter struct {
	Search      string
	StokMenipis bool
}

// ObatRequest tidak memuat stok; stok hanya berubah lewat mutasi dan resep.
type ObatRequest struct {
	Kode        string          `json:"kode" validate:"required,max=30"`
	Nama        string          `json:"nama" validate:"required,max=150"`
	Satuan      string          `json:"satuan" validate:"required,max=20"`
	Harga       decimal.Decimal `json:"harga" validate:"gt=0"`
	StokMinimum int             `json:"stok_minimum" validate:"gte=0"`
}

type MutasiRequest struct {
	Tipe       string  `json:"tipe" validate:"required,oneof=masuk keluar"`
	Jumlah     int     `json:"jumlah" validate:"required,gt=0"`
	Keterangan *string `json:"keterangan" validate:"omitempty,max=255"`
}

type MutasiStok struct {
	IDMutasi   int       `json:"id_mutasi"`
	IDObat     int       `json:"id_obat"`
	Tipe       string    `json:"tipe"`
	Jumlah     int       `json:"jumlah"`
	StokAwal   int       `json:"stok_awal"`
	StokAkhir  int       `json:"stok_akhir"`
	Keterangan *string   `json:"keterangan"`
	CreatedAt  time.Time `json:"created_at"`
}

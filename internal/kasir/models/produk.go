package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Produk struct {
	IDProduk    int             `json:"id_produk"`
	Kode        string          `json:"kode"`
	Nama        string          `json:"nama"`
	Kategori    string          `json:"kategori"`
	Harga       decimal.Decimal `json:"harga"`
	Stok        int             `json:"stok"`
	StokMinimum int             `json:"stok_minimum"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ProdukFilter struct {
	Search      string
	Kategori    string
	StokMenipis bool
}

type ProdukRequest struct {
	Kode        string          `json:"kode" validate:"required,max=30"`
	Nama        string          `json:"nama" validate:"required,max=150"`
	Kategori    string          `json:"kategori" validate:"omitempty,max=50"`
	Harga       decimal.Decimal `json:"harga" validate:"gt=0"`
	Stok        int             `json:"stok" validate:"gte=0"`
	StokMinimum int             `json:"stok_minimum" validate:"gte=0"`
}

// StokRequest menambah (positif) atau mengurangi (negatif) stok.
type StokRequest struct {
	Jumlah     int    `json:"jumlah" validate:"required,ne=0"`
	Keterangan string `json:"keterangan" validate:"omitempty,max=255"`
}

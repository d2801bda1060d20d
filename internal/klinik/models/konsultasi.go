package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusMenunggu  = "menunggu"
	StatusDiperiksa = "diperiksa"
	StatusSelesai   = "selesai"
	StatusBatal     = "batal"
)

type Konsultasi struct {
	IDKonsultasi    int             `json:"id_konsultasi"`
	IDPasien        int             `json:"id_pasien"`
	NamaPasien      string          `json:"nama_pasien"`
	NoRM            string          `json:"no_rm"`
	IDTenagaMedis   int             `json:"id_tenaga_medis"`
	NamaTenagaMedis string          `json:"nama_tenaga_medis"`
	Tanggal         time.Time       `json:"tanggal"`
	Keluhan         string          `json:"keluhan"`
	Diagnosa        *string         `json:"diagnosa"`
	Tindakan        *string         `json:"tindakan"`
	BiayaKonsultasi decimal.Decimal `json:"biaya_konsultasi"`
	Status          string          `json:"status"`
	Resep           []Resep         `json:"resep,omitempty"`
	Tagihan         *Tagihan        `json:"tagihan,omitempty"`
}

type Resep struct {
	IDResep     int             `json:"id_resep"`
	IDObat      int             `json:"id_obat"`
	NamaObat    string          `json:"nama_obat"`
	Satuan      string          `json:"satuan"`
	Jumlah      int             `json:"jumlah"`
	AturanPakai string          `json:"aturan_pakai"`
	Harga       decimal.Decimal `json:"harga"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type KonsultasiRequest struct {
	IDPasien      int    `json:"id_pasien" validate:"required,gt=0"`
	IDTenagaMedis int    `json:"id_tenaga_medis" validate:"required,gt=0"`
	Keluhan       string `json:"keluhan" validate:"required"`
}

type ResepRequest struct {
	IDObat      int    `json:"id_obat" validate:"required,gt=0"`
	Jumlah      int    `json:"jumlah" validate:"required,gt=0"`
	AturanPakai string `json:"aturan_pakai" validate:"required,max=255"`
}

type SelesaiRequest struct {
	Diagnosa string  `json:"diagnosa" validate:"required"`
	Tindakan *string `json:"tindakan"`
	// nil berarti memakai tarif dokter yang tercatat saat pendaftaran
	BiayaKonsultasi *decimal.Decimal `json:"biaya_konsultasi" validate:"omitempty,gte=0"`
	Resep           []ResepRequest   `json:"resep" validate:"omitempty,dive"`
}

type AntrianFilter struct {
	IDTenagaMedis *int
	Status        string
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProfesiDokter   = "dokter"
	ProfesiPerawat  = "perawat"
	ProfesiBidan    = "bidan"
	ProfesiApoteker = "apoteker"
)

type TenagaMedis struct {
	IDTenagaMedis int             `json:"id_tenaga_medis"`
	Nama          string          `json:"nama"`
	Profesi       string          `json:"profesi"`
	Spesialisasi  *string         `json:"spesialisasi"`
	NoSTR         *string         `json:"no_str"`
	NoTelp        *string         `json:"no_telp"`
	Tarif         decimal.Decimal `json:"tarif"`
	Aktif         bool            `json:"aktif"`
	CreatedAt     time.Time       `json:"created_at"`
}

type TenagaMedisFilter struct {
	Profesi string
	Aktif   *bool
}

type TenagaMedisRequest struct {
	Nama         string          `json:"nama" validate:"required,max=100"`
	Profesi      string          `json:"profesi" validate:"required,oneof=dokter perawat bidan apoteker"`
	Spesialisasi *string         `json:"spesialisasi" validate:"omitempty,max=100"`
	NoSTR        *string         `json:"no_str" validate:"omitempty,max=50"`
	NoTelp       *string         `json:"no_telp" validate:"omitempty,max=20"`
	Tarif        decimal.Decimal `json:"tarif" validate:"gte=0"`
	// nil berarti aktif
	Aktif *bool `json:"aktif"`
}

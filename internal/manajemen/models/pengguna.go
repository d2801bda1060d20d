package models

import "time"

type Pengguna struct {
	IDPengguna int        `json:"id_pengguna"`
	Nama       string     `json:"nama"`
	Username   string     `json:"username"`
	IDRole     int        `json:"id_role"`
	NamaRole   string     `json:"nama_role"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

type PenggunaFilter struct {
	Search string
	IDRole *int
	Status string
}

type CreatePenggunaRequest struct {
	Nama     string `json:"nama" validate:"required,max=100"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
	IDRole   int    `json:"id_role" validate:"required,gt=0"`
}

// UpdatePenggunaRequest: password kosong berarti tidak diubah.
type UpdatePenggunaRequest struct {
	Nama     string `json:"nama" validate:"required,max=100"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"omitempty,min=8"`
	IDRole   int    `json:"id_role" validate:"required,gt=0"`
}

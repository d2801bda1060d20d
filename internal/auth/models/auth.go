package models

import "time"

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Pengguna adalah data akun yang dikembalikan ke klien (tanpa hash password).
type Pengguna struct {
	IDPengguna int    `json:"id_pengguna"`
	Nama       string `json:"nama"`
	Username   string `json:"username"`
	IDRole     int    `json:"id_role"`
	Role       string `json:"role"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Pengguna  Pengguna  `json:"pengguna"`
}

type ChangePasswordRequest struct {
	PasswordLama string `json:"password_lama" validate:"required"`
	PasswordBaru string `json:"password_baru" validate:"required,min=8,nefield=PasswordLama"`
}

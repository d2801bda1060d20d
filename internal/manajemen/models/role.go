package models

import "time"

type Role struct {
	IDRole    int        `json:"id_role"`
	NamaRole  string     `json:"nama_role"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

type RoleRequest struct {
	NamaRole string `json:"nama_role" validate:"required,max=50"`
}

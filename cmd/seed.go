package cmd

import (
	"github.com/spf13/cobra"

	"github.com/c14220110/kasirung-backend/config"
	"github.com/c14220110/kasirung-backend/internal/manajemen/services"
	"github.com/c14220110/kasirung-backend/pkg/logger"
	"github.com/c14220110/kasirung-backend/pkg/storage/mariadb"
)

var seedAdmin struct {
	username string
	password string
	nama     string
}

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Membuat role admin bila belum ada beserta satu pengguna admin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		l := logger.New(cfg.App.Env, cfg.App.Name)

		db, err := mariadb.Connect(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		p, err := services.NewPenggunaService(db, nil).SeedAdmin(cmd.Context(), seedAdmin.username, seedAdmin.password, seedAdmin.nama)
		if err != nil {
			return err
		}
		l.Info().Int("id_pengguna", p.IDPengguna).Str("username", p.Username).Msg("Admin berhasil dibuat")
		return nil
	},
}

func init() {
	f := seedAdminCmd.Flags()
	f.StringVar(&seedAdmin.username, "username", "admin", "username admin")
	f.StringVar(&seedAdmin.password, "password", "", "password admin (minimal 8 karakter)")
	f.StringVar(&seedAdmin.nama, "nama", "Administrator", "nama lengkap admin")
	_ = seedAdminCmd.MarkFlagRequired("password")
}

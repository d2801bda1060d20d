package cmd

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/c14220110/kasirung-backend/config"
	"github.com/c14220110/kasirung-backend/pkg/logger"
	"github.com/c14220110/kasirung-backend/pkg/storage/mariadb"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Menjalankan migrasi skema database",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Menerapkan semua migrasi yang belum dijalankan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		l := logger.New(cfg.App.Env, cfg.App.Name)
		version, err := mariadb.MigrateUp(cfg)
		if err != nil {
			return err
		}
		l.Info().Uint("version", version).Msg("Migrasi selesai")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [langkah]",
	Short: "Membatalkan migrasi terakhir (default 1 langkah)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return errors.Errorf("jumlah langkah %q tidak valid", args[0])
			}
			steps = n
		}
		cfg := config.LoadConfig()
		l := logger.New(cfg.App.Env, cfg.App.Name)
		if err := mariadb.MigrateDown(cfg, steps); err != nil {
			return err
		}
		l.Info().Int("steps", steps).Msg("Rollback migrasi selesai")
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}

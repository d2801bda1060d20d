// Package cmd berisi perintah CLI kasirung: serve, migrate, dan seed-admin.
package cmd

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "kasirung",
	Short:         "Backend kasir, kos-kosan, dan klinik",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedAdminCmd)
}

// Execute menjalankan perintah sesuai argumen; tanpa argumen menampilkan bantuan.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Stack().Err(err).Msg("Perintah gagal")
		os.Exit(1)
	}
}

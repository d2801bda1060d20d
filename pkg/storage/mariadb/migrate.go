package mariadb

import (
	"database/sql"
	"embed"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"

	"github.com/c14220110/kasirung-backend/config"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

func newMigrator(cfg *config.Config) (*migrate.Migrate, *sql.DB, error) {
	// file migrasi berisi banyak statement, jadi butuh koneksi terpisah dengan multiStatements
	db, err := sql.Open("mysql", DSN(cfg, true))
	if err != nil {
		return nil, nil, errors.Wrap(err, "gagal membuka koneksi migrasi")
	}
	driver, err := migratemysql.WithInstance(db, &migratemysql.Config{})
	if err != nil {
		db.Close()
		return nil, nil, errors.Wrap(err, "gagal menyiapkan driver migrasi")
	}
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		db.Close()
		return nil, nil, errors.Wrap(err, "gagal membaca file migrasi")
	}
	m, err := migrate.NewWithInstance("iofs", src, "mysql", driver)
	if err != nil {
		db.Close()
		return nil, nil, errors.Wrap(err, "gagal menyiapkan migrasi")
	}
	return m, db, nil
}

// MigrateUp menjalankan semua migrasi yang belum diterapkan.
func MigrateUp(cfg *config.Config) (uint, error) {
	m, db, err := newMigrator(cfg)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, errors.Wrap(err, "migrasi gagal")
	}
	version, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, err
	}
	return version, nil
}

// MigrateDown membatalkan sejumlah langkah migrasi terakhir.
func MigrateDown(cfg *config.Config, steps int) error {
	m, db, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "rollback migrasi gagal")
	}
	return nil
}

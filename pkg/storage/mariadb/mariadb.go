package mariadb

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"github.com/c14220110/kasirung-backend/config"
)

// DSN menyusun data source name dari konfigurasi. parseTime wajib aktif karena
// seluruh service memindai kolom DATETIME langsung ke time.Time.
func DSN(cfg *config.Config, multiStatements bool) string {
	mc := mysql.NewConfig()
	mc.User = cfg.Database.User
	mc.Passwd = cfg.Database.Password
	mc.Net = "tcp"
	mc.Addr = cfg.Database.Host + ":" + cfg.Database.Port
	mc.DBName = cfg.Database.Name
	mc.ParseTime = true
	mc.Loc = cfg.Location()
	mc.MultiStatements = multiStatements
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// Connect membuka koneksi ke MariaDB, mengatur pool, lalu melakukan ping.
func Connect(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(cfg, false))
	if err != nil {
		return nil, errors.Wrap(err, "gagal membuka koneksi ke database")
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "gagal melakukan ping ke database")
	}
	return db, nil
}

// IsDuplicateEntry mengenali pelanggaran UNIQUE (error 1062) dari driver MySQL.
func IsDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// IsForeignKeyViolation mengenali baris yang masih direferensikan (1451) atau referensi
// yang tidak ada (1452).
func IsForeignKeyViolation(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && (me.Number == 1451 || me.Number == 1452)
}

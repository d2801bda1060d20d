package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

const envPrefix = "KASIRUNG_"

type Config struct {
	App      AppConfig      `koanf:"app"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Redis    RedisConfig    `koanf:"redis" validate:"required"`
	Auth     AuthConfig     `koanf:"auth" validate:"required"`
	Jobs     JobsConfig     `koanf:"jobs"`
}

type AppConfig struct {
	Env      string `koanf:"env"`
	Name     string `koanf:"name"`
	Timezone string `koanf:"timezone"`
}

type ServerConfig struct {
	Port               string        `koanf:"port"`
	ReadTimeout        time.Duration `koanf:"read_timeout"`
	WriteTimeout       time.Duration `koanf:"write_timeout"`
	IdleTimeout        time.Duration `koanf:"idle_timeout"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins"`
	LoginRateLimit     float64       `koanf:"login_rate_limit"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            string        `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

type RedisConfig struct {
	Address  string `koanf:"address" validate:"required"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type AuthConfig struct {
	SecretKey    string        `koanf:"secret_key" validate:"required,min=16"`
	SessionTTL   time.Duration `koanf:"session_ttl"`
	CookieName   string        `koanf:"cookie_name"`
	CookieSecure bool          `koanf:"cookie_secure"`
}

type JobsConfig struct {
	Enabled     bool   `koanf:"enabled"`
	TagihanCron string `koanf:"tagihan_cron"`
}

var (
	cfg  *Config
	once sync.Once
)

// LoadConfig membaca konfigurasi satu kali dan menghentikan proses jika konfigurasi tidak valid.
func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Warn().Msg("File .env tidak ditemukan, menggunakan environment variables")
		}
		c, err := Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Konfigurasi tidak valid")
		}
		cfg = c
	})
	return cfg
}

// Load membaca environment variables berprefix KASIRUNG_ tanpa caching.
// Underscore pertama setelah prefix memisahkan section, contoh:
// KASIRUNG_DATABASE_MAX_OPEN_CONNS -> database.max_open_conns.
func Load() (*Config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.Replace(key, "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("gagal membaca environment: %w", err)
	}

	c := &Config{}
	if err := k.Unmarshal("", c); err != nil {
		return nil, fmt.Errorf("gagal memetakan konfigurasi: %w", err)
	}
	c.applyDefaults(k)

	if err := validator.New().Struct(c); err != nil {
		return nil, fmt.Errorf("validasi konfigurasi gagal: %w", err)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return nil, fmt.Errorf("timezone %q tidak dikenal: %w", c.App.Timezone, err)
	}
	return c, nil
}

func (c *Config) applyDefaults(k *koanf.Koanf) {
	if c.App.Env == "" {
		c.App.Env = "development"
	}
	if c.App.Name == "" {
		c.App.Name = "kasirung"
	}
	if c.App.Timezone == "" {
		c.App.Timezone = "Asia/Jakarta"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}
	if c.Server.LoginRateLimit == 0 {
		c.Server.LoginRateLimit = 5
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 5 * time.Minute
	}
	if c.Auth.SessionTTL == 0 {
		c.Auth.SessionTTL = 12 * time.Hour
	}
	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "kasirung_session"
	}
	// jobs aktif kecuali dimatikan secara eksplisit
	if !k.Exists("jobs.enabled") {
		c.Jobs.Enabled = true
	}
	if c.Jobs.TagihanCron == "" {
		c.Jobs.TagihanCron = "0 1 1 * *"
	}
}

// IsProduction dipakai untuk memilih format log dan flag cookie.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Location mengembalikan zona waktu aplikasi; Load sudah memastikan nilainya valid.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

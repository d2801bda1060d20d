// Package logger menyiapkan zerolog untuk seluruh aplikasi.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// New membuat logger utama. Di luar production output berupa console yang mudah dibaca,
// di production berupa JSON satu baris per event.
func New(env, service string) zerolog.Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339

	var w io.Writer = os.Stdout
	level := zerolog.InfoLevel
	if env != "production" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
		level = zerolog.DebugLevel
	}

	l := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Str("env", env).
		Logger()

	// logger global dipakai oleh paket yang dijalankan sebelum konfigurasi selesai dibaca
	log.Logger = l
	return l
}

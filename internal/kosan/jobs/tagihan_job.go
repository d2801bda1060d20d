// Package jobs menjadwalkan pekerjaan berkala modul kosan.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/c14220110/kasirung-backend/internal/kosan/services"
)

const jobTimeout = 2 * time.Minute

// TagihanJob membuat tagihan periode berjalan; dijalankan oleh scheduler di awal bulan.
type TagihanJob struct {
	Service *services.TagihanService
	Logger  zerolog.Logger
}

func (j *TagihanJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	periode := j.Service.PeriodeSekarang()
	res, err := j.Service.GenerateTagihan(ctx, periode)
	if err != nil {
		j.Logger.Error().Stack().Err(err).Str("periode", periode).Msg("Generate tagihan kosan gagal")
		return
	}
	j.Logger.Info().Str("periode", res.Periode).Int("dibuat", res.Dibuat).Int("dilewati", res.Dilewati).
		Msg("Generate tagihan kosan selesai")
}

// cronLogger meneruskan log internal cron ke zerolog.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// NewScheduler menyiapkan cron (format 5 kolom) pada zona waktu aplikasi. Pemanggil
// menjalankan Start dan menghentikannya dengan Stop saat shutdown.
func NewScheduler(spec string, loc *time.Location, job *TagihanJob, logger zerolog.Logger) (*cron.Cron, error) {
	cl := cronLogger{logger: logger.With().Str("component", "scheduler").Logger()}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddJob(spec, job); err != nil {
		return nil, err
	}
	return c, nil
}

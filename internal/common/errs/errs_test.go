package errs

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestFrom_MapsSentinels(t *testing.T) {
	err := From(errors.Wrap(ErrNotFound, "Pasien tidak ditemukan"))
	he, ok := err.(*HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.Equal(t, "Pasien tidak ditemukan", he.Message)

	err = From(errors.Wrap(ErrConflict, "Kamar masih memiliki penyewa aktif"))
	he, ok = err.(*HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
	assert.Equal(t, "Kamar masih memiliki penyewa aktif", he.Message)

	err = From(ErrInvalidInput)
	he, ok = err.(*HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "input tidak valid", he.Message)
}

func TestFrom_PassesThrough(t *testing.T) {
	plain := errors.New("koneksi terputus")
	assert.Equal(t, plain, From(plain))

	he := Forbidden("tidak boleh")
	assert.Equal(t, he, From(he))
}

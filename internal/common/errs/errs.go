// Package errs berisi error HTTP yang dirender oleh error handler global.
package errs

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Sentinel error yang dipakai service. Controller memetakan error ini ke status HTTP.
var (
	ErrNotFound     = errors.New("data tidak ditemukan")
	ErrConflict     = errors.New("data bentrok dengan data lain")
	ErrInvalidInput = errors.New("input tidak valid")
)

// HTTPError adalah error yang langsung dikirim ke klien dalam envelope
// { success: false, message, errors }.
type HTTPError struct {
	Status  int               `json:"-"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func New(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

func BadRequest(message string) *HTTPError {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *HTTPError {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *HTTPError {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *HTTPError {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) *HTTPError {
	return New(http.StatusConflict, message)
}

func Internal() *HTTPError {
	return New(http.StatusInternalServerError, "Terjadi kesalahan pada server")
}

// Validation membungkus error per field (nama field JSON -> pesan).
func Validation(fields map[string]string) *HTTPError {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: "Validasi gagal",
		Errors:  fields,
	}
}

// From memetakan sentinel error service ke HTTPError dengan pesan dari error aslinya.
// Error lain dikembalikan apa adanya agar dicatat sebagai 500 oleh error handler global.
func From(err error) error {
	var he *HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, ErrNotFound):
		return NotFound(trimSentinel(err, ErrNotFound))
	case errors.Is(err, ErrConflict):
		return Conflict(trimSentinel(err, ErrConflict))
	case errors.Is(err, ErrInvalidInput):
		return BadRequest(trimSentinel(err, ErrInvalidInput))
	}
	return err
}

// trimSentinel membuang teks sentinel generik dari error yang dibungkus errors.Wrap,
// sehingga "Pasien tidak ditemukan: data tidak ditemukan" menjadi "Pasien tidak ditemukan".
func trimSentinel(err, sentinel error) string {
	msg := err.Error()
	if trimmed := strings.TrimSuffix(msg, ": "+sentinel.Error()); trimmed != "" {
		return trimmed
	}
	return msg
}

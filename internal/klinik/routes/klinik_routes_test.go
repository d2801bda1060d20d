package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c14220110/kasirung-backend/internal/common/middlewares"
	"github.com/c14220110/kasirung-backend/internal/common/response"
	"github.com/c14220110/kasirung-backend/internal/klinik/controllers"
	"github.com/c14220110/kasirung-backend/internal/klinik/services"
)

func setup(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	loc := time.FixedZone("WIB", 7*3600)
	e := echo.New()
	e.HTTPErrorHandler = middlewares.ErrorHandler(zerolog.Nop())
	RegisterKlinikRoutes(e.Group("/api/klinik"), Controllers{
		Pasien:      controllers.NewPasienController(services.NewPasienService(db, loc)),
		TenagaMedis: controllers.NewTenagaMedisController(services.NewTenagaMedisService(db)),
		Obat:        controllers.NewObatController(services.NewObatService(db, nil)),
		Konsultasi:  controllers.NewKonsultasiController(services.NewKonsultasiService(db, loc, nil)),
		Tagihan: controllers.NewTagihanController(services.NewTagihanService(db, loc, nil),
			services.NewDashboardService(db), loc, "Klinik Sehat"),
	})
	return e, mock
}

func TestListPasien_SearchIsCaseInsensitive(t *testing.T) {
	e, mock := setup(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM Pasien WHERE LOWER\(nama\) LIKE \?`).
		WithArgs("%mr2026%", "%mr2026%", "%mr2026%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`FROM Pasien WHERE LOWER\(nama\) LIKE \?`).
		WithArgs("%mr2026%", "%mr2026%", "%mr2026%", 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id_pasien", "no_rm", "nama", "nik", "tanggal_lahir", "jenis_kelamin",
			"alamat", "no_telp", "golongan_darah", "created_at"}).
			AddRow(5, "MR20260005", "Ani", nil, time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC), "P", nil, nil, "O+", time.Now()))

	req := httptest.NewRequest(http.MethodGet, "/api/klinik/pasien?search=MR2026&page=2&limit=10", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Meta)
	assert.Equal(t, 2, env.Meta.Page)
	assert.Equal(t, 1, env.Meta.Total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePasien_Validation(t *testing.T) {
	e, _ := setup(t)
	req := httptest.NewRequest(http.MethodPost, "/api/klinik/pasien",
		strings.NewReader(`{"nama":"Ani","tanggal_lahir":"2001-02-03","jenis_kelamin":"X"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Contains(t, env.Errors, "jenis_kelamin")
}

func TestGetKonsultasi_NotFound(t *testing.T) {
	e, mock := setup(t)
	mock.ExpectQuery(`FROM Konsultasi k`).WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id_konsultasi"}))

	req := httptest.NewRequest(http.MethodGet, "/api/klinik/konsultasi/99", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Konsultasi tidak ditemukan", env.Message)
}

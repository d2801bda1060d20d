package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c14220110/kasirung-backend/internal/common/response"
	"github.com/c14220110/kasirung-backend/pkg/session"
	"github.com/c14220110/kasirung-backend/pkg/utils"
)

const (
	testSecret = "rahasia-yang-cukup-panjang"
	testCookie = "kasirung_session"
)

func setupEcho(t *testing.T) (*echo.Echo, *session.Store) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	store := session.NewStore(rdb, time.Hour)

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zerolog.Nop())
	g := e.Group("/api", SessionMiddleware(testSecret, testCookie, store))
	g.GET("/kasir", func(c echo.Context) error {
		return response.OK(c, GetClaims(c).Username)
	}, RequireRole("kasir"))
	g.GET("/kosan", func(c echo.Context) error {
		return response.OK(c, "ok")
	}, RequireRole("pengelola_kosan"))
	return e, store
}

func login(t *testing.T, store *session.Store, role string) string {
	sess, err := store.Create(context.Background(), session.Session{IDPengguna: 5, Username: "budi", Role: role})
	require.NoError(t, err)
	token, err := utils.GenerateJWTToken(testSecret, utils.Claims{
		SessionID:  sess.ID,
		IDPengguna: sess.IDPengguna,
		Username:   sess.Username,
		Role:       sess.Role,
	}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestSessionMiddleware_MissingToken(t *testing.T) {
	e, _ := setupEcho(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/kasir", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decode(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "Silakan login terlebih dahulu", env.Message)
}

func TestSessionMiddleware_BearerAndCookie(t *testing.T) {
	e, store := setupEcho(t)
	token := login(t, store, "kasir")

	req := httptest.NewRequest(http.MethodGet, "/api/kasir", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "budi", decode(t, rec).Data)

	req = httptest.NewRequest(http.MethodGet, "/api/kasir", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionMiddleware_RevokedSession(t *testing.T) {
	e, store := setupEcho(t)
	token := login(t, store, "kasir")
	claims, err := utils.ValidateJWTToken(testSecret, token)
	require.NoError(t, err)
	require.NoError(t, store.Delete(context.Background(), claims.SessionID))

	req := httptest.NewRequest(http.MethodGet, "/api/kasir", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Sesi berakhir, silakan login kembali", decode(t, rec).Message)
}

func TestRequireRole(t *testing.T) {
	e, store := setupEcho(t)

	kasirToken := login(t, store, "kasir")
	req := httptest.NewRequest(http.MethodGet, "/api/kosan", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+kasirToken)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken := login(t, store, RoleAdmin)
	req = httptest.NewRequest(http.MethodGet, "/api/kosan", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestErrorHandler_UnknownRouteAndInternal(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zerolog.Nop())
	e.GET("/boom", func(c echo.Context) error {
		return assert.AnError
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tidak-ada", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Halaman tidak ditemukan", decode(t, rec).Message)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Terjadi kesalahan pada server", decode(t, rec).Message)
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Body.String(), 36)
}

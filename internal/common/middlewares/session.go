package middlewares

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/pkg/session"
	"github.com/c14220110/kasirung-backend/pkg/utils"
)

type contextKey string

const (
	ContextKeyClaims contextKey = "claims"
)

// SessionMiddleware menerima token dari cookie sesi atau header Authorization: Bearer,
// memvalidasi tanda tangannya, lalu memastikan sesinya masih ada di redis.
func SessionMiddleware(secret, cookieName string, store *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr := tokenFromRequest(c, cookieName)
			if tokenStr == "" {
				return errs.Unauthorized("Silakan login terlebih dahulu")
			}
			claims, err := utils.ValidateJWTToken(secret, tokenStr)
			if err != nil {
				return errs.Unauthorized("Token tidak valid")
			}
			sess, err := store.Get(c.Request().Context(), claims.SessionID)
			if errors.Is(err, session.ErrSessionNotFound) {
				return errs.Unauthorized("Sesi berakhir, silakan login kembali")
			}
			if err != nil {
				return err
			}
			// role diambil dari sesi agar perubahan role lewat login ulang langsung berlaku
			claims.Role = sess.Role
			c.Set(string(ContextKeyClaims), claims)
			return next(c)
		}
	}
}

func tokenFromRequest(c echo.Context, cookieName string) string {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// GetClaims mengambil klaim yang disimpan SessionMiddleware; nil jika rute tidak dilindungi.
func GetClaims(c echo.Context) *utils.Claims {
	claims, _ := c.Get(string(ContextKeyClaims)).(*utils.Claims)
	return claims
}

// GetUserID dipakai request logger.
func GetUserID(c echo.Context) int {
	if claims := GetClaims(c); claims != nil {
		return claims.IDPengguna
	}
	return 0
}

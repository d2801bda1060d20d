package middlewares

import (
	"github.com/labstack/echo/v4"

	"github.com/c14220110/kasirung-backend/internal/common/errs"
)

const (
	RoleAdmin          = "admin"
	RoleKasir          = "kasir"
	RolePengelolaKosan = "pengelola_kosan"
	RoleStafKlinik     = "staf_klinik"
)

// RequireRole meloloskan pengguna dengan salah satu role yang disebut. Admin selalu lolos.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := GetClaims(c)
			if claims == nil {
				return errs.Unauthorized("Silakan login terlebih dahulu")
			}
			if claims.Role == RoleAdmin {
				return next(c)
			}
			if _, ok := allowed[claims.Role]; !ok {
				return errs.Forbidden("Anda tidak memiliki hak akses")
			}
			return next(c)
		}
	}
}

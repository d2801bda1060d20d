package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/c14220110/kasirung-backend/internal/auth/models"
	"github.com/c14220110/kasirung-backend/internal/auth/services"
	"github.com/c14220110/kasirung-backend/internal/common/errs"
	"github.com/c14220110/kasirung-backend/internal/common/middlewares"
	"github.com/c14220110/kasirung-backend/internal/common/response"
	"github.com/c14220110/kasirung-backend/internal/common/validation"
)

type AuthController struct {
	Service      *services.AuthService
	CookieName   string
	CookieSecure bool
}

func NewAuthController(service *services.AuthService, cookieName string, cookieSecure bool) *AuthController {
	return &AuthController{Service: service, CookieName: cookieName, CookieSecure: cookieSecure}
}

func (ac *AuthController) setCookie(c echo.Context, value string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     ac.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   ac.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Login menangani POST /api/auth/login. Token dikirim lewat cookie HttpOnly dan juga di body
// untuk klien non-browser.
func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := ac.Service.Login(c.Request().Context(), req.Username, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		return errs.Unauthorized("Username atau password salah")
	}
	if err != nil {
		return err
	}

	ac.setCookie(c, res.Token, res.ExpiresAt)
	return response.OKMessage(c, "Login berhasil", res)
}

func (ac *AuthController) Logout(c echo.Context) error {
	claims := middlewares.GetClaims(c)
	if err := ac.Service.Logout(c.Request().Context(), claims.SessionID); err != nil {
		return err
	}
	ac.setCookie(c, "", time.Unix(0, 0))
	return response.OKMessage(c, "Logout berhasil", nil)
}

func (ac *AuthController) Me(c echo.Context) error {
	p, err := ac.Service.Me(c.Request().Context(), middlewares.GetClaims(c).IDPengguna)
	if err != nil {
		return err
	}
	return response.OK(c, p)
}

func (ac *AuthController) ChangePassword(c echo.Context) error {
	var req models.ChangePasswordRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return err
	}
	claims := middlewares.GetClaims(c)
	if err := ac.Service.ChangePassword(c.Request().Context(), claims.IDPengguna, req.PasswordLama, req.PasswordBaru); err != nil {
		return err
	}
	return response.OKMessage(c, "Password berhasil diubah", nil)
}

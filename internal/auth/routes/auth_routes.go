package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/c14220110/kasirung-backend/internal/auth/controllers"
	"github.com/c14220110/kasirung-backend/internal/common/middlewares"
)

// RegisterAuthRoutes memasang rute /api/auth. Login tidak memakai sesi tetapi dibatasi per IP.
func RegisterAuthRoutes(api *echo.Group, ac *controllers.AuthController, auth echo.MiddlewareFunc, loginRateLimit float64) {
	g := api.Group("/auth")
	g.POST("/login", ac.Login, middlewares.LoginRateLimiter(loginRateLimit))
	g.POST("/logout", ac.Logout, auth)
	g.GET("/me", ac.Me, auth)
	g.PUT("/password", ac.ChangePassword, auth)
	g.PATCH("/password", ac.ChangePassword, auth)
}

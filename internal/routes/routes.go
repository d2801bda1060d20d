package routes

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/c14220110/kasirung-backend/config"
	authControllers "github.com/c14220110/kasirung-backend/internal/auth/controllers"
	authRoutes "github.com/c14220110/kasirung-backend/internal/auth/routes"
	authServices "github.com/c14220110/kasirung-backend/internal/auth/services"
	"github.com/c14220110/kasirung-backend/internal/common/middlewares"
	"github.com/c14220110/kasirung-backend/internal/common/response"
	kasirControllers "github.com/c14220110/kasirung-backend/internal/kasir/controllers"
	kasirRoutes "github.com/c14220110/kasirung-backend/internal/kasir/routes"
	kasirServices "github.com/c14220110/kasirung-backend/internal/kasir/services"
	klinikControllers "github.com/c14220110/kasirung-backend/internal/klinik/controllers"
	klinikRoutes "github.com/c14220110/kasirung-backend/internal/klinik/routes"
	klinikServices "github.com/c14220110/kasirung-backend/internal/klinik/services"
	kosanControllers "github.com/c14220110/kasirung-backend/internal/kosan/controllers"
	kosanRoutes "github.com/c14220110/kasirung-backend/internal/kosan/routes"
	kosanServices "github.com/c14220110/kasirung-backend/internal/kosan/services"
	manajemenControllers "github.com/c14220110/kasirung-backend/internal/manajemen/controllers"
	manajemenRoutes "github.com/c14220110/kasirung-backend/internal/manajemen/routes"
	manajemenServices "github.com/c14220110/kasirung-backend/internal/manajemen/services"
	"github.com/c14220110/kasirung-backend/pkg/session"
	"github.com/c14220110/kasirung-backend/ws"
)

// Deps adalah dependensi bersama yang dibuat sekali di main dan dipakai semua modul.
type Deps struct {
	Config   *config.Config
	DB       *sql.DB
	Sessions *session.Store
	Hub      *ws.Hub
	Logger   zerolog.Logger
	// TagihanKosan dipakai bersama oleh route kosan dan job cron
	TagihanKosan *kosanServices.TagihanService
}

// New membuat instance echo dengan middleware global dan seluruh route terpasang.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middlewares.ErrorHandler(d.Logger)

	e.Use(middlewares.RequestID())
	e.Use(middlewares.RequestLogger(d.Logger))
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     d.Config.Server.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	Init(e, d)
	return e
}

// Init menginisialisasi semua routes.
func Init(e *echo.Echo, d Deps) {
	cfg := d.Config
	db := d.DB
	loc := cfg.Location()

	auth := middlewares.SessionMiddleware(cfg.Auth.SecretKey, cfg.Auth.CookieName, d.Sessions)

	// Inisialisasi service
	authService := authServices.NewAuthService(db, d.Sessions, cfg.Auth.SecretKey)
	roleService := manajemenServices.NewRoleService(db, d.Sessions)
	penggunaService := manajemenServices.NewPenggunaService(db, d.Sessions)

	produkService := kasirServices.NewProdukService(db, d.Hub)
	transaksiService := kasirServices.NewTransaksiService(db, loc, d.Hub)
	laporanService := kasirServices.NewLaporanService(db, loc)

	tagihanKosan := d.TagihanKosan
	if tagihanKosan == nil {
		tagihanKosan = kosanServices.NewTagihanService(db, loc, d.Hub)
	}

	// Inisialisasi controller
	authController := authControllers.NewAuthController(authService, cfg.Auth.CookieName, cfg.Auth.CookieSecure)
	roleController := manajemenControllers.NewRoleController(roleService)
	penggunaController := manajemenControllers.NewPenggunaController(penggunaService)
	dashboardController := manajemenControllers.NewDashboardController(manajemenServices.NewDashboardService(db), loc)
	produkController := kasirControllers.NewProdukController(produkService)
	transaksiController := kasirControllers.NewTransaksiController(transaksiService, laporanService, loc, cfg.App.Name)

	api := e.Group("/api")
	api.GET("/health", healthHandler(d))

	authRoutes.RegisterAuthRoutes(api, authController, auth, cfg.Server.LoginRateLimit)

	manajemen := api.Group("/manajemen", auth, middlewares.RequireRole(middlewares.RoleAdmin))
	manajemenRoutes.RegisterManajemenRoutes(manajemen, roleController, penggunaController, dashboardController)

	kasir := api.Group("/kasir", auth, middlewares.RequireRole(middlewares.RoleKasir))
	kasirRoutes.RegisterKasirRoutes(kasir, produkController, transaksiController)

	kosan := api.Group("/kosan", auth, middlewares.RequireRole(middlewares.RolePengelolaKosan))
	kosanRoutes.RegisterKosanRoutes(kosan, kosanRoutes.Controllers{
		Gedung:  kosanControllers.NewGedungController(kosanServices.NewGedungService(db)),
		Kamar:   kosanControllers.NewKamarController(kosanServices.NewKamarService(db)),
		Penyewa: kosanControllers.NewPenyewaController(kosanServices.NewPenyewaService(db, loc, tagihanKosan)),
		Tagihan: kosanControllers.NewTagihanController(tagihanKosan, kosanServices.NewDashboardService(db, loc), cfg.App.Name),
	})

	klinik := api.Group("/klinik", auth, middlewares.RequireRole(middlewares.RoleStafKlinik))
	klinikRoutes.RegisterKlinikRoutes(klinik, klinikRoutes.Controllers{
		Pasien:      klinikControllers.NewPasienController(klinikServices.NewPasienService(db, loc)),
		TenagaMedis: klinikControllers.NewTenagaMedisController(klinikServices.NewTenagaMedisService(db)),
		Obat:        klinikControllers.NewObatController(klinikServices.NewObatService(db, d.Hub)),
		Konsultasi:  klinikControllers.NewKonsultasiController(klinikServices.NewKonsultasiService(db, loc, d.Hub)),
		Tagihan: klinikControllers.NewTagihanController(klinikServices.NewTagihanService(db, loc, d.Hub),
			klinikServices.NewDashboardService(db), loc, cfg.App.Name),
	})

	e.GET("/ws", ws.ServeWS(d.Hub, ws.NewUpgrader(cfg.Server.CORSAllowedOrigins)), auth)
}

// healthHandler memeriksa koneksi database dan redis.
func healthHandler(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"database": "ok", "redis": "ok"}
		healthy := true
		if err := d.DB.PingContext(ctx); err != nil {
			d.Logger.Error().Err(err).Msg("Health check database gagal")
			status["database"] = "down"
			healthy = false
		}
		if err := d.Sessions.Ping(ctx); err != nil {
			d.Logger.Error().Err(err).Msg("Health check redis gagal")
			status["redis"] = "down"
			healthy = false
		}
		if !healthy {
			return c.JSON(http.StatusServiceUnavailable, response.Envelope{
				Success: false, Message: "Layanan tidak sehat", Data: status,
			})
		}
		return response.OK(c, status)
	}
}

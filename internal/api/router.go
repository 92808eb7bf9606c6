package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/banking/merchant-firewall/internal/config"
)

// NewRouter builds the Echo instance with middleware and all routes
func NewRouter(cfg *config.Config, h *Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit(strconvBytes(cfg.Server.MaxRequestSize)))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Security.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))

	e.GET("/health", h.Health)

	v1 := e.Group("/api/v1")
	v1.POST("/score-transaction", h.ScoreTransaction)
	v1.POST("/investigate-transaction", h.InvestigateTransaction)
	v1.GET("/merchants/:id", h.GetMerchant)
	v1.GET("/merchants/:id/latest-score", h.LatestScoreForMerchant)
	v1.GET("/recent-transactions", h.RecentTransactions)
	v1.GET("/payment-site/merchants", h.PaymentSiteMerchants)
	v1.GET("/status", h.Status)

	admin := v1.Group("/admin")
	if cfg.Security.JWTSecret != "" {
		admin.Use(JWTAuth(cfg.Security.JWTSecret))
	}
	admin.POST("/reload-directory", h.ReloadDirectory)
	admin.PUT("/merchants/:id", h.UpsertMerchant)

	return e
}

// strconvBytes renders a byte count in echo's body-limit notation
func strconvBytes(n int64) string {
	if n <= 0 {
		n = 1 << 20
	}
	const unit = 1024
	if n%(unit*unit) == 0 {
		return strconv.FormatInt(n/(unit*unit), 10) + "M"
	}
	if n%unit == 0 {
		return strconv.FormatInt(n/unit, 10) + "K"
	}
	return strconv.FormatInt(n, 10) + "B"
}

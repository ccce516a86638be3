package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/NastyaGoryachaya/block-aggregator/internal/config"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// NewRouter - все маршруты API. /security/token, /user/create/ и /metrics без авторизации
func NewRouter(logger *slog.Logger, blocksH *BlocksHandler, authH *AuthHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURIPath: true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				slog.String("method", v.Method),
				slog.String("path", v.URIPath),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.Debug("http request", attrs...)
			return nil
		},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/security/token", authH.Token)

	user := e.Group("/user")
	user.POST("/create/", authH.CreateUser)
	user.GET("/me/", authH.Me, authH.RequireUser)

	blocksH.RegisterRoutes(e.Group("/block", authH.RequireUser))

	return e
}

// NewServer - http.Server с CORS поверх роутера
func NewServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})
	return &http.Server{
		Addr:         cfg.Addr,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		Handler:      c.Handler(handler),
	}
}

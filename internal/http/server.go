package http

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bgbarbearia/barbershop-admin/internal/config"
	"github.com/bgbarbearia/barbershop-admin/internal/dispatcher"
	"github.com/bgbarbearia/barbershop-admin/internal/http/middleware"
	"github.com/bgbarbearia/barbershop-admin/internal/logger"
	"github.com/bgbarbearia/barbershop-admin/internal/service/auth"
	"github.com/bgbarbearia/barbershop-admin/internal/service/customers"
	"github.com/bgbarbearia/barbershop-admin/internal/service/templates"
	"github.com/bgbarbearia/barbershop-admin/internal/settings"
	"github.com/bgbarbearia/barbershop-admin/internal/validation"
)

// Services are the application components the routes are bound to.
type Services struct {
	Customers *customers.Service
	Templates *templates.Service
	Dispatch  *dispatcher.Service
	Auth      *auth.Service
	Settings  *settings.Store
}

type Server struct{ e *echo.Echo }

func NewServer(cfg config.Config, svc Services, rds redis.Cmdable) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.Echo()
	e.IPExtractor = ipExtractor(cfg.HTTP.TrustedProxies)
	e.Logger.SetLevel(echoLogLevel(cfg.Log.Level))
	log.SetLevel(echoLogLevel(cfg.Log.Level))
	e.Use(echoMid.Recover(), echoMid.Logger())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// middlewares
	cookie := cfg.Auth.CookieName
	sessionMW := middleware.SessionMiddleware(svc.Auth, cookie)
	registerRL := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          rds,
		RPS:            cfg.RateLimit.RPS,
		KeyPrefix:      "rl:register:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	v1 := e.Group("/v1")

	// public
	v1.POST("/auth/login", loginHandler(svc.Auth, cookie))
	v1.POST("/auth/logout", logoutHandler(svc.Auth, cookie))
	v1.GET("/auth/session", sessionHandler(svc.Auth, cookie))
	v1.POST("/register", createCustomerHandler(svc.Customers), registerRL)
	v1.GET("/units", unitsHandler())
	v1.GET("/registration/link", registrationLinkHandler(cfg.HTTP.PublicURL))
	v1.GET("/registration/qr.png", registrationQRHandler(cfg.HTTP.PublicURL))
	v1.GET("/registration/mode", registrationModeHandler())

	// admin
	admin := v1.Group("/admin", sessionMW)
	admin.GET("/customers", listCustomersHandler(svc.Customers))
	admin.POST("/customers", createCustomerHandler(svc.Customers))
	admin.PATCH("/customers/:id", updateCustomerHandler(svc.Customers))
	admin.DELETE("/customers/:id", deleteCustomerHandler(svc.Customers))
	admin.POST("/customers/refresh", refreshCustomersHandler(svc.Customers))
	admin.GET("/customers/export", exportCustomersHandler(svc.Customers))
	admin.GET("/dashboard", dashboardHandler(svc.Customers))
	admin.GET("/templates", listTemplatesHandler(svc.Templates))
	admin.POST("/templates", createTemplateHandler(svc.Templates))
	admin.POST("/dispatch", dispatchHandler(svc.Dispatch))
	admin.GET("/dispatch/units", dispatchUnitsHandler(svc.Customers))
	admin.GET("/settings", getSettingsHandler(svc.Settings))
	admin.PUT("/settings", putSettingsHandler(svc.Settings))

	return &Server{e: e}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.e }

func (s *Server) Start(addr string) error {
	logger.Log.Info("http: listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }

// ipExtractor uses the peer address unless trusted proxies are configured. X-Forwarded-For is
// then honoured only for hops inside those ranges.
func ipExtractor(cidrs []string) echo.IPExtractor {
	var opts []echo.TrustOption
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(strings.TrimSpace(c))
		if err != nil {
			logger.Log.Warn("http: ignoring trusted proxy", zap.String("cidr", c), zap.Error(err))
			continue
		}
		opts = append(opts, echo.TrustIPRange(n))
	}
	if len(opts) == 0 {
		return echo.ExtractIPDirect()
	}
	opts = append(opts, echo.TrustLoopback(false), echo.TrustLinkLocal(false), echo.TrustPrivateNet(false))
	return echo.ExtractIPFromXFFHeader(opts...)
}

func echoLogLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}

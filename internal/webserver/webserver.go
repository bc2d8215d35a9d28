package webserver

import (
	"fmt"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/kundix7-sys/product-testing-app/internal/app"
)

var server *WebServer

// WebServer wraps the echo instance and the authenticated /api group.
type WebServer struct {
	root *echo.Echo
	api  *echo.Group
	app  app.AppContext
}

// Init builds the global web server: jsoniter serialization, recovery,
// request logging, application-context injection, and JWT auth on the
// /api group.
func Init(appCtx app.AppContext) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsoniterSerializer{}

	e.Use(middleware.Recover())
	e.Use(requestLogger())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(app.ContextKey, appCtx)
			c.Set(app.DBContextKey, appCtx.DB())
			return next(c)
		}
	})

	api := e.Group("/api")
	secret := appCtx.Config().Web.Secret
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
	}))

	server = &WebServer{root: e, api: api, app: appCtx}
}

// Instance returns the initialized web server.
func Instance() *WebServer {
	return server
}

// Engine exposes the underlying echo instance (health checks, tests).
func (s *WebServer) Engine() *echo.Echo {
	return s.root
}

// Listen starts serving on the configured address.
func Listen() error {
	cfg := server.app.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.L().Info("web server listening", zap.String("addr", addr))
	return server.root.Start(addr)
}

// ApiGET registers an authenticated GET route under /api.
func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

// ApiPOST registers an authenticated POST route under /api.
func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

// ApiPUT registers an authenticated PUT route under /api.
func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

// ApiDELETE registers an authenticated DELETE route under /api.
func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

// PubPOST registers an unauthenticated POST route (token issuing).
func PubPOST(path string, h echo.HandlerFunc) {
	server.root.POST(path, h)
}

// PubGET registers an unauthenticated GET route (health checks).
func PubGET(path string, h echo.HandlerFunc) {
	server.root.GET(path, h)
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}
			zap.L().Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)))
			return err
		}
	}
}

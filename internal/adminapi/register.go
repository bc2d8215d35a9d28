// Package adminapi exposes the JSON API: product CRUD, component test
// tracking, photos, report exports, schedulers and system endpoints.
package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kundix7-sys/product-testing-app/internal/webserver"
)

// Register wires every route group into the web server. Call after
// webserver.Init.
func Register() {
	registerAuthRoutes()
	registerProductRoutes()
	registerComponentRoutes()
	registerPhotoRoutes()
	registerExportRoutes()
	registerSchedulerRoutes()
	registerSettingRoutes()
	registerSystemRoutes()

	webserver.PubGET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}

package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kundix7-sys/product-testing-app/internal/domain"
	"github.com/kundix7-sys/product-testing-app/internal/webserver"
)

type settingPayload struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// registerSettingRoutes registers system settings endpoints
func registerSettingRoutes() {
	webserver.ApiGET("/settings", listSettings)
	webserver.ApiPUT("/settings", updateSetting)
}

func listSettings(c echo.Context) error {
	query := GetDB(c).Model(&domain.SysConfig{})
	if category := strings.TrimSpace(c.QueryParam("type")); category != "" {
		query = query.Where("type = ?", category)
	}
	var rows []domain.SysConfig
	if err := query.Order("sort asc").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}
	return ok(c, rows)
}

func updateSetting(c echo.Context) error {
	var payload settingPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse setting", err.Error())
	}
	payload.Type = strings.TrimSpace(payload.Type)
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Type == "" || payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Type and name are required", nil)
	}

	var count int64
	GetDB(c).Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", payload.Type, payload.Name).
		Count(&count)
	if count == 0 {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Setting not found", nil)
	}

	appCtx := GetAppContext(c)
	if err := appCtx.UpdateSettingsValue(payload.Type, payload.Name, payload.Value); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update setting", err.Error())
	}
	appCtx.PublishOprLog("api", clientIP(c), "update_setting", payload.Type+"."+payload.Name)
	return ok(c, map[string]interface{}{"type": payload.Type, "name": payload.Name, "value": payload.Value})
}

package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kundix7-sys/product-testing-app/internal/app"
)

// apiResponse is the uniform envelope for all JSON endpoints.
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

type pagedData struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, apiResponse{Success: true, Data: data})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, apiResponse{
		Success: false,
		Error:   &apiError{Code: code, Message: message, Detail: detail},
	})
}

func paged(c echo.Context, items interface{}, total int64, page, pageSize int) error {
	return ok(c, pagedData{Items: items, Total: total, Page: page, PageSize: pageSize})
}

// parsePagination reads page/pageSize query params with sane bounds.
func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

// parseIDParam parses the :id path segment.
func parseIDParam(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// GetDB returns the request-scoped database handle injected by the web
// server middleware.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(app.DBContextKey).(*gorm.DB)
}

// GetAppContext returns the application context injected by the web
// server middleware.
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(app.ContextKey).(app.AppContext)
}

// clientIP is recorded with audit log events.
func clientIP(c echo.Context) string {
	return c.RealIP()
}

package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"

	"github.com/kundix7-sys/product-testing-app/internal/domain"
	"github.com/kundix7-sys/product-testing-app/internal/webserver"
	"github.com/kundix7-sys/product-testing-app/pkg/common"
)

type componentPayload struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Notes  string `json:"notes"`
	Sort   *int   `json:"sort"`
	// TestedAt accepts any common timestamp layout; empty keeps the
	// server-stamped value.
	TestedAt string `json:"tested_at"`
}

// registerComponentRoutes registers component test endpoints
func registerComponentRoutes() {
	webserver.ApiGET("/products/:id/components", listProductComponents)
	webserver.ApiPOST("/products/:id/components", addProductComponent)
	webserver.ApiPUT("/components/:id", updateComponent)
	webserver.ApiPOST("/components/:id/detach", detachComponent)
	webserver.ApiGET("/components/orphans", listOrphanComponents)
}

func listProductComponents(c echo.Context) error {
	productID, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	tests, err := GetAppContext(c).Store().ComponentTestsByProduct(c.Request().Context(), productID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query components", err.Error())
	}
	return ok(c, tests)
}

func addProductComponent(c echo.Context) error {
	productID, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", productID).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	var payload componentPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse component", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}
	status := payload.Status
	if status == "" {
		status = domain.StatusUntested
	}
	if !validStatus(status) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Status must be untested, working or not-working", nil)
	}

	sort := 0
	if payload.Sort != nil {
		sort = *payload.Sort
	} else {
		// append after the current tail
		var max int
		GetDB(c).Model(&domain.ComponentTest{}).
			Where("product_id = ?", productID).
			Select("COALESCE(MAX(sort), -1)").Scan(&max)
		sort = max + 1
	}

	ct := domain.ComponentTest{
		ID:        common.UUIDint64(),
		ProductID: productID,
		Name:      payload.Name,
		Status:    status,
		Notes:     payload.Notes,
		Sort:      sort,
	}
	if status != domain.StatusUntested {
		now := time.Now()
		ct.TestedAt = &now
	}
	if err := GetDB(c).Create(&ct).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create component", err.Error())
	}
	return ok(c, ct)
}

func updateComponent(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid component ID", nil)
	}
	var ct domain.ComponentTest
	if err := GetDB(c).Where("id = ?", id).First(&ct).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Component not found", nil)
	}

	var payload componentPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse component", err.Error())
	}

	if payload.Name != "" {
		ct.Name = strings.TrimSpace(payload.Name)
	}
	ct.Notes = payload.Notes
	if payload.Sort != nil {
		ct.Sort = *payload.Sort
	}

	if payload.Status != "" && payload.Status != ct.Status {
		if !validStatus(payload.Status) {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Status must be untested, working or not-working", nil)
		}
		ct.Status = payload.Status
		// Stamp the result time on every status change; an explicit
		// tested_at in the payload overrides the server clock.
		now := time.Now()
		ct.TestedAt = &now
	}
	if payload.TestedAt != "" {
		when, err := dateparse.ParseAny(payload.TestedAt)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse tested_at", err.Error())
		}
		ct.TestedAt = &when
	}
	ct.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&ct).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update component", err.Error())
	}
	return ok(c, ct)
}

// detachComponent removes a component from its product without deleting
// the row. The orphan stays queryable for audit.
func detachComponent(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid component ID", nil)
	}
	appCtx := GetAppContext(c)
	if err := appCtx.Store().DetachComponentTest(c.Request().Context(), id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to detach component", err.Error())
	}
	appCtx.PublishOprLog("api", clientIP(c), "detach_component", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id, "detached": true})
}

func listOrphanComponents(c echo.Context) error {
	page, pageSize := parsePagination(c)
	db := GetDB(c).Model(&domain.ComponentTest{}).Where("product_id = 0")

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orphans", err.Error())
	}
	var rows []domain.ComponentTest
	if err := db.Order("updated_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orphans", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func validStatus(status string) bool {
	switch status {
	case domain.StatusUntested, domain.StatusWorking, domain.StatusNotWorking:
		return true
	}
	return false
}

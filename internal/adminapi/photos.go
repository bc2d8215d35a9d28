package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kundix7-sys/product-testing-app/internal/domain"
	"github.com/kundix7-sys/product-testing-app/internal/webserver"
	"github.com/kundix7-sys/product-testing-app/pkg/common"
)

type photoPayload struct {
	Source string `json:"source"`
	Sort   *int   `json:"sort"`
}

// registerPhotoRoutes registers product photo endpoints
func registerPhotoRoutes() {
	webserver.ApiGET("/products/:id/photos", listProductPhotos)
	webserver.ApiPOST("/products/:id/photos", addProductPhoto)
	webserver.ApiDELETE("/photos/:id", deletePhoto)
}

func listProductPhotos(c echo.Context) error {
	productID, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	photos, err := GetAppContext(c).Store().PhotosByProduct(c.Request().Context(), productID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query photos", err.Error())
	}
	return ok(c, photos)
}

func addProductPhoto(c echo.Context) error {
	productID, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", productID).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	var payload photoPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse photo", err.Error())
	}
	payload.Source = strings.TrimSpace(payload.Source)
	if payload.Source == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Source is required", nil)
	}

	sort := 0
	if payload.Sort != nil {
		sort = *payload.Sort
	} else {
		var max int
		GetDB(c).Model(&domain.ProductPhoto{}).
			Where("product_id = ?", productID).
			Select("COALESCE(MAX(sort), -1)").Scan(&max)
		sort = max + 1
	}

	photo := domain.ProductPhoto{
		ID:        common.UUIDint64(),
		ProductID: productID,
		Source:    payload.Source,
		Sort:      sort,
	}
	if err := GetDB(c).Create(&photo).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create photo", err.Error())
	}
	return ok(c, photo)
}

func deletePhoto(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid photo ID", nil)
	}
	if err := GetAppContext(c).Store().DeleteProductPhoto(c.Request().Context(), id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete photo", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

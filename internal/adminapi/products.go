package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kundix7-sys/product-testing-app/internal/domain"
	"github.com/kundix7-sys/product-testing-app/internal/webserver"
	"github.com/kundix7-sys/product-testing-app/pkg/common"
)

type productPayload struct {
	InventoryID string   `json:"inventory_id" validate:"required,min=1,max=100"`
	Name        string   `json:"name" validate:"required,min=1,max=200"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Components  []string `json:"components"`
	Photos      []string `json:"photos"`
}

// registerProductRoutes registers product CRUD endpoints
func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	q := strings.TrimSpace(c.QueryParam("q"))
	inventoryID := strings.TrimSpace(c.QueryParam("inventory_id"))

	sortField := strings.TrimSpace(c.QueryParam("sort"))
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	// whitelist allowed sort columns to avoid SQL injection
	allowed := map[string]string{
		"id":           "id",
		"name":         "name",
		"inventory_id": "inventory_id",
		"price":        "price",
		"created_at":   "created_at",
		"updated_at":   "updated_at",
	}
	sortCol, found := allowed[sortField]
	if !found || sortCol == "" {
		// recently edited products surface first
		sortCol = "updated_at"
	}

	db := GetDB(c).Model(&domain.Product{})
	if q != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if inventoryID != "" {
		db = db.Where("inventory_id = ?", inventoryID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.Product
	if err := db.Order(sortCol + " " + order).Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

// productDetail bundles a product with its attached components and photos.
type productDetail struct {
	domain.Product
	Components []domain.ComponentTest `json:"components"`
	Photos     []domain.ProductPhoto  `json:"photos"`
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	detail := productDetail{Product: p}
	GetDB(c).Where("product_id = ?", id).Order("sort asc, id asc").Find(&detail.Components)
	GetDB(c).Where("product_id = ?", id).Order("sort asc, id asc").Find(&detail.Photos)
	return ok(c, detail)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}

	payload.Name = strings.TrimSpace(payload.Name)
	payload.InventoryID = strings.TrimSpace(payload.InventoryID)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}
	if payload.InventoryID == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Inventory ID is required", nil)
	}
	if payload.Price < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Price must be >= 0", nil)
	}

	now := time.Now()
	p := domain.Product{
		ID:          common.UUIDint64(),
		InventoryID: payload.InventoryID,
		Name:        payload.Name,
		Description: strings.TrimSpace(payload.Description),
		Price:       payload.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}

	// Components and photos declared inline keep their submission order.
	for i, name := range payload.Components {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		GetDB(c).Create(&domain.ComponentTest{
			ID:        common.UUIDint64(),
			ProductID: p.ID,
			Name:      name,
			Status:    domain.StatusUntested,
			Sort:      i,
		})
	}
	for i, source := range payload.Photos {
		source = strings.TrimSpace(source)
		if source == "" {
			continue
		}
		GetDB(c).Create(&domain.ProductPhoto{
			ID:        common.UUIDint64(),
			ProductID: p.ID,
			Source:    source,
			Sort:      i,
		})
	}

	GetAppContext(c).PublishOprLog("api", clientIP(c), "create_product", p.Name)
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.InventoryID = strings.TrimSpace(payload.InventoryID)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}
	if payload.InventoryID == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Inventory ID is required", nil)
	}
	if payload.Price < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Price must be >= 0", nil)
	}

	p.Name = payload.Name
	p.InventoryID = payload.InventoryID
	p.Description = strings.TrimSpace(payload.Description)
	p.Price = payload.Price
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	appCtx := GetAppContext(c)
	if err := appCtx.Store().DeleteProduct(c.Request().Context(), id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	appCtx.PublishOprLog("api", clientIP(c), "delete_product", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}

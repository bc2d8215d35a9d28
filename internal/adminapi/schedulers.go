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

// schedulerPayload represents the scheduler request structure
type schedulerPayload struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	TaskType string `json:"task_type" validate:"required,max=50"`
	Interval int    `json:"interval" validate:"required,min=10"`
	Status   string `json:"status" validate:"omitempty,oneof=enabled disabled"`
	Remark   string `json:"remark" validate:"omitempty,max=500"`
}

// registerSchedulerRoutes registers scheduler API routes
func registerSchedulerRoutes() {
	webserver.ApiGET("/schedulers", listSchedulers)
	webserver.ApiGET("/schedulers/:id", getScheduler)
	webserver.ApiPOST("/schedulers", createScheduler)
	webserver.ApiPUT("/schedulers/:id", updateScheduler)
	webserver.ApiDELETE("/schedulers/:id", deleteScheduler)
	webserver.ApiPOST("/schedulers/:id/run", triggerScheduler)
}

// triggerScheduler triggers the scheduler immediately
func triggerScheduler(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid scheduler ID", nil)
	}

	appCtx := GetAppContext(c)
	if err := appCtx.RunSchedulerNow(id); err != nil {
		return fail(c, http.StatusInternalServerError, "RUN_FAILED", "Failed to run scheduler", err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

func listSchedulers(c echo.Context) error {
	page, pageSize := parsePagination(c)

	query := GetDB(c).Model(&domain.SysScheduler{})
	if name := strings.TrimSpace(c.QueryParam("name")); name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		query = query.Where("status = ?", status)
	}
	if taskType := strings.TrimSpace(c.QueryParam("task_type")); taskType != "" {
		query = query.Where("task_type = ?", taskType)
	}

	var total int64
	query.Count(&total)

	var schedulers []domain.SysScheduler
	query.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&schedulers)

	return paged(c, schedulers, total, page, pageSize)
}

func getScheduler(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid scheduler ID", nil)
	}
	var scheduler domain.SysScheduler
	if err := GetDB(c).First(&scheduler, id).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Scheduler not found", nil)
	}
	return ok(c, scheduler)
}

func createScheduler(c echo.Context) error {
	var payload schedulerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse scheduler", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" || payload.TaskType == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name and task_type are required", nil)
	}
	if payload.Interval < 10 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Interval must be at least 10 seconds", nil)
	}
	status := payload.Status
	if status == "" {
		status = common.ENABLED
	}

	scheduler := domain.SysScheduler{
		ID:        common.UUIDint64(),
		Name:      payload.Name,
		TaskType:  payload.TaskType,
		Interval:  payload.Interval,
		Status:    status,
		Remark:    payload.Remark,
		NextRunAt: time.Now().Add(time.Duration(payload.Interval) * time.Second),
	}
	if err := GetDB(c).Create(&scheduler).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create scheduler", err.Error())
	}
	return ok(c, scheduler)
}

func updateScheduler(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid scheduler ID", nil)
	}
	var scheduler domain.SysScheduler
	if err := GetDB(c).First(&scheduler, id).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Scheduler not found", nil)
	}

	var payload schedulerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse scheduler", err.Error())
	}

	if name := strings.TrimSpace(payload.Name); name != "" {
		scheduler.Name = name
	}
	if payload.TaskType != "" {
		scheduler.TaskType = payload.TaskType
	}
	if payload.Interval > 0 {
		if payload.Interval < 10 {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Interval must be at least 10 seconds", nil)
		}
		scheduler.Interval = payload.Interval
		scheduler.NextRunAt = time.Now().Add(time.Duration(payload.Interval) * time.Second)
	}
	if payload.Status != "" {
		if payload.Status != common.ENABLED && payload.Status != common.DISABLED {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Status must be enabled or disabled", nil)
		}
		scheduler.Status = payload.Status
	}
	if payload.Remark != "" {
		scheduler.Remark = payload.Remark
	}
	scheduler.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&scheduler).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update scheduler", err.Error())
	}
	return ok(c, scheduler)
}

func deleteScheduler(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid scheduler ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.SysScheduler{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete scheduler", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

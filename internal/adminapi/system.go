package adminapi

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/kundix7-sys/product-testing-app/internal/domain"
	"github.com/kundix7-sys/product-testing-app/internal/webserver"
)

type systemStatus struct {
	Hostname   string  `json:"hostname"`
	OS         string  `json:"os"`
	UptimeSec  uint64  `json:"uptime_sec"`
	CPUPercent float64 `json:"cpu_percent"`
	MemUsedMB  uint64  `json:"mem_used_mb"`
	MemTotalMB uint64  `json:"mem_total_mb"`
	Time       string  `json:"time"`
}

// registerSystemRoutes registers system status and audit log endpoints
func registerSystemRoutes() {
	webserver.ApiGET("/system/status", getSystemStatus)
	webserver.ApiGET("/system/oprlogs", listOprLogs)
}

func getSystemStatus(c echo.Context) error {
	status := systemStatus{Time: time.Now().Format(time.RFC3339)}

	if info, err := host.Info(); err == nil {
		status.Hostname = info.Hostname
		status.OS = info.OS
		status.UptimeSec = info.Uptime
	}
	if use, err := cpu.Percent(0, false); err == nil && len(use) > 0 {
		status.CPUPercent = use[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		status.MemUsedMB = vm.Used / 1024 / 1024
		status.MemTotalMB = vm.Total / 1024 / 1024
	}

	return ok(c, status)
}

func listOprLogs(c echo.Context) error {
	page, pageSize := parsePagination(c)

	query := GetDB(c).Model(&domain.SysOprLog{})
	if action := strings.TrimSpace(c.QueryParam("action")); action != "" {
		query = query.Where("opt_action = ?", action)
	}

	var total int64
	query.Count(&total)

	var rows []domain.SysOprLog
	query.Order("opt_time DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows)

	return paged(c, rows, total, page, pageSize)
}

package app

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kundix7-sys/product-testing-app/internal/domain"
	"github.com/kundix7-sys/product-testing-app/pkg/common"
)

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "producttesting"

	hashedPassword := common.Sha256HashWithSalt(defaultPassword, common.GetSecretSalt())

	var operator domain.SysOpr
	err := a.gormDB.Where("username = ?", superUsername).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysOpr{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Email:     "N/A",
			Username:  superUsername,
			Password:  hashedPassword,
			Level:     "super",
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(operator.Password) == ""
	resetLevel := !strings.EqualFold(operator.Level, "super")
	resetStatus := !strings.EqualFold(operator.Status, common.ENABLED)

	if !resetPassword && !resetLevel && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetPassword {
		updates["password"] = hashedPassword
	}
	if resetLevel {
		updates["level"] = "super"
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}

	if err := a.gormDB.Model(&domain.SysOpr{}).Where("id = ?", operator.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default super admin account",
		zap.String("username", superUsername),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("levelReset", resetLevel),
		zap.Bool("statusEnabled", resetStatus))
}

type settingsSchema struct {
	Key         string
	Default     string
	Description string
}

// defaultSettings are created on first boot and editable afterwards
// through the settings API.
var defaultSettings = []settingsSchema{
	{Key: "report.default_recipient", Default: "", Description: "Pre-filled recipient for the report email handoff"},
	{Key: "report.price_currency", Default: "USD", Description: "Currency label shown next to product prices"},
	{Key: "scheduler.max_workers", Default: "25", Description: "Worker limit for scheduler fan-out tasks"},
	{Key: "system.demo_data", Default: "false", Description: "Seed demo products on startup"},
}

func (a *Application) checkSettings() {
	for sortid, schema := range defaultSettings {
		parts := strings.SplitN(schema.Key, ".", 2)
		if len(parts) != 2 {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}

		category := parts[0]
		name := parts[1]

		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     common.UUIDint64(),
				Sort:   sortid,
				Type:   category,
				Name:   name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Key),
				zap.String("default", schema.Default))
		}
	}
}

// checkSchedulers initializes default scheduled tasks
func (a *Application) checkSchedulers() {
	defaultSchedulers := []domain.SysScheduler{
		{
			Name:     "Orphan Component Audit",
			TaskType: TaskOrphanAudit,
			Interval: 3600,
			Status:   common.ENABLED,
			Remark:   "Counts component tests detached from deleted or edited products",
		},
		{
			Name:     "Photo Integrity Check",
			TaskType: TaskPhotoIntegrity,
			Interval: 86400,
			Status:   common.ENABLED,
			Remark:   "Verifies stored product photos still decode",
		},
	}

	for _, sched := range defaultSchedulers {
		var count int64
		a.gormDB.Model(&domain.SysScheduler{}).
			Where("task_type = ?", sched.TaskType).
			Count(&count)

		if count == 0 {
			sched.ID = common.UUIDint64()
			sched.NextRunAt = time.Now().Add(time.Duration(sched.Interval) * time.Second)
			if err := a.gormDB.Create(&sched).Error; err != nil {
				zap.L().Error("failed to create default scheduler",
					zap.String("name", sched.Name),
					zap.Error(err))
			} else {
				zap.L().Info("initialized default scheduler",
					zap.String("name", sched.Name),
					zap.String("task_type", sched.TaskType))
			}
		}
	}
}

// checkDemoProducts seeds a couple of inspectable products for fresh
// development databases.
func (a *Application) checkDemoProducts() {
	demoProducts := []struct {
		product    domain.Product
		components []string
	}{
		{
			product: domain.Product{
				InventoryID: "DEMO-001",
				Name:        "Demo Laptop",
				Description: "Refurbished unit for workflow demos",
				Price:       499.99,
			},
			components: []string{"Keyboard", "Display", "Battery", "Speakers"},
		},
		{
			product: domain.Product{
				InventoryID: "DEMO-002",
				Name:        "Demo Monitor",
				Description: "27 inch panel",
				Price:       159.5,
			},
			components: []string{"Panel", "Stand", "Power supply"},
		},
	}

	for _, demo := range demoProducts {
		var count int64
		a.gormDB.Model(&domain.Product{}).Where("inventory_id = ?", demo.product.InventoryID).Count(&count)
		if count != 0 {
			continue
		}
		p := demo.product
		p.ID = common.UUIDint64()
		p.CreatedAt = time.Now()
		p.UpdatedAt = time.Now()
		if err := a.gormDB.Create(&p).Error; err != nil {
			zap.L().Error("failed to create demo product", zap.String("name", p.Name), zap.Error(err))
			continue
		}
		for i, name := range demo.components {
			a.gormDB.Create(&domain.ComponentTest{
				ID:        common.UUIDint64(),
				ProductID: p.ID,
				Name:      name,
				Status:    domain.StatusUntested,
				Sort:      i,
			})
		}
		zap.L().Info("initialized demo product", zap.String("name", p.Name))
	}
}

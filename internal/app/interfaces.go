package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/kundix7-sys/product-testing-app/config"
	"github.com/kundix7-sys/product-testing-app/internal/mailer"
	"github.com/kundix7-sys/product-testing-app/internal/report"
	"github.com/kundix7-sys/product-testing-app/internal/snapshot"
	"github.com/kundix7-sys/product-testing-app/internal/store"
)

// Context keys used by the web layer to hand the application and its
// request-scoped DB handle to route handlers.
const (
	ContextKey   = "appctx"
	DBContextKey = "db"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	GetSettingsStringValue(category, key string) string
	GetSettingsInt64Value(category, key string) int64
	GetSettingsBoolValue(category, key string) bool
	UpdateSettingsValue(category, key, value string) error
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// StoreProvider provides the typed record store consumed by the report
// pipeline and schedulers.
type StoreProvider interface {
	Store() store.RecordStore
}

// ExportProvider provides the report-export collaborators.
type ExportProvider interface {
	ReportBuilder() *report.Builder
	Renderer() snapshot.Renderer
	Mailer() *mailer.Mailer
}

// EventBusProvider provides the internal event bus
type EventBusProvider interface {
	Bus() EventBus.Bus
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	SettingsProvider
	SchedulerProvider
	StoreProvider
	ExportProvider
	EventBusProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
	// RunSchedulerNow triggers a scheduler execution immediately by ID
	RunSchedulerNow(id int64) error
	// PublishOprLog emits an operator audit event onto the bus
	PublishOprLog(oprName, oprIP, action, desc string)
}

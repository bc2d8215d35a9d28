package app

import (
	"sync"

	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/kundix7-sys/product-testing-app/internal/domain"
)

// SettingsManager reads sys_config values with a small read-through
// cache. Writes go through UpdateSetting which also refreshes the cache.
type SettingsManager struct {
	db    *gorm.DB
	mu    sync.RWMutex
	cache map[string]string
}

func NewSettingsManager(db *gorm.DB) *SettingsManager {
	return &SettingsManager{db: db, cache: make(map[string]string)}
}

func (m *SettingsManager) get(category, name string) string {
	key := category + "." + name
	m.mu.RLock()
	if v, ok := m.cache[key]; ok {
		m.mu.RUnlock()
		return v
	}
	m.mu.RUnlock()

	var cfg domain.SysConfig
	err := m.db.Where("type = ? and name = ?", category, name).First(&cfg).Error
	if err != nil {
		return ""
	}

	m.mu.Lock()
	m.cache[key] = cfg.Value
	m.mu.Unlock()
	return cfg.Value
}

func (m *SettingsManager) GetString(category, name string) string {
	return m.get(category, name)
}

func (m *SettingsManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.get(category, name))
}

func (m *SettingsManager) GetInt(category, name string) int {
	return cast.ToInt(m.get(category, name))
}

func (m *SettingsManager) GetBool(category, name string) bool {
	return cast.ToBool(m.get(category, name))
}

// UpdateSetting persists a settings value and refreshes the cache.
func (m *SettingsManager) UpdateSetting(category, name, value string) error {
	err := m.db.Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", category, name).
		Update("value", value).Error
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.cache[category+"."+name] = value
	m.mu.Unlock()
	return nil
}

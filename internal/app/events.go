package app

import (
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"github.com/kundix7-sys/product-testing-app/internal/domain"
	"github.com/kundix7-sys/product-testing-app/pkg/common"
)

// Event topics published by the API layer and schedulers.
const (
	TopicOprLog = "sys.oprlog"
)

func (a *Application) initEventBus() {
	a.bus = EventBus.New()
	if err := a.bus.Subscribe(TopicOprLog, a.onOprLog); err != nil {
		zap.S().Errorf("event bus subscribe error %s", err.Error())
	}
}

// onOprLog persists an audit trail entry for a published operation.
func (a *Application) onOprLog(oprName, oprIP, action, desc string) {
	entry := domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   oprName,
		OprIp:     oprIP,
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	}
	if err := a.gormDB.Create(&entry).Error; err != nil {
		zap.L().Error("failed to write operation log", zap.Error(err))
	}
}

// PublishOprLog emits an audit event without blocking the caller path.
func (a *Application) PublishOprLog(oprName, oprIP, action, desc string) {
	a.bus.Publish(TopicOprLog, oprName, oprIP, action, desc)
}

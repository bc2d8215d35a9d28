package app

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"go.uber.org/zap"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/kundix7-sys/product-testing-app/internal/domain"
	"github.com/kundix7-sys/product-testing-app/internal/report"
)

// Scheduler task types.
const (
	TaskOrphanAudit    = "orphan_audit"
	TaskPhotoIntegrity = "photo_integrity"
)

// SchedulerService runs enabled schedulers periodically
func (a *Application) StartSchedulerService(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.runSchedulers()
			}
		}
	}()
}

// runSchedulers executes enabled schedulers that are due
func (a *Application) runSchedulers() {
	var schedulers []domain.SysScheduler
	a.gormDB.Where("status = ?", "enabled").Find(&schedulers)
	now := time.Now()
	for _, sched := range schedulers {
		if sched.NextRunAt.IsZero() || now.After(sched.NextRunAt) || now.Equal(sched.NextRunAt) {
			a.dispatchScheduler(&sched)
			a.gormDB.Model(&domain.SysScheduler{}).
				Where("id = ?", sched.ID).
				Update("next_run_at", now.Add(time.Duration(sched.Interval)*time.Second))
		}
	}
}

func (a *Application) dispatchScheduler(sched *domain.SysScheduler) {
	switch sched.TaskType {
	case TaskOrphanAudit:
		a.runOrphanAuditScheduler(sched)
	case TaskPhotoIntegrity:
		a.runPhotoIntegrityScheduler(sched)
	default:
		// unsupported task type
	}
}

// RunSchedulerNow triggers a scheduler execution immediately by ID
func (a *Application) RunSchedulerNow(id int64) error {
	var sched domain.SysScheduler
	if err := a.gormDB.First(&sched, id).Error; err != nil {
		return err
	}

	a.dispatchScheduler(&sched)

	now := time.Now()
	a.gormDB.Model(&domain.SysScheduler{}).Where("id = ?", sched.ID).Updates(map[string]interface{}{
		"last_run_at": now,
		"next_run_at": now.Add(time.Duration(sched.Interval) * time.Second),
	})
	return nil
}

// runOrphanAuditScheduler counts component tests whose owning product
// reference was cleared. Detached rows are retained on purpose; this
// task keeps their volume visible in the operator log.
func (a *Application) runOrphanAuditScheduler(sched *domain.SysScheduler) {
	count, err := a.recordStore.CountOrphanComponentTests(context.Background())
	if err != nil {
		zap.L().Error("orphan audit failed", zap.Error(err))
		a.finishScheduler(sched, "failed", err.Error())
		return
	}

	msg := fmt.Sprintf("%d detached component test(s) retained", count)
	zap.L().Info("orphan audit completed", zap.Int64("orphans", count))
	a.PublishOprLog("scheduler", "-", "orphan_audit", msg)
	a.finishScheduler(sched, "success", msg)
}

// runPhotoIntegrityScheduler verifies that stored data-URI photos still
// decode as images. Remote URLs are skipped; they are validated at
// report build time.
func (a *Application) runPhotoIntegrityScheduler(sched *domain.SysScheduler) {
	photos, err := a.recordStore.AllPhotos(context.Background())
	if err != nil {
		zap.L().Error("photo integrity check failed", zap.Error(err))
		a.finishScheduler(sched, "failed", err.Error())
		return
	}

	var broken int
	for _, photo := range photos {
		if !strings.HasPrefix(photo.Source, "data:") {
			continue
		}
		data, err := report.DecodeDataURI(photo.Source)
		if err == nil {
			_, _, err = image.DecodeConfig(bytes.NewReader(data))
		}
		if err != nil {
			broken++
			zap.L().Warn("stored photo no longer decodes",
				zap.Int64("photo_id", photo.ID),
				zap.Int64("product_id", photo.ProductID),
				zap.Error(err))
		}
	}

	msg := fmt.Sprintf("%d photo(s) checked, %d broken", len(photos), broken)
	if broken > 0 {
		a.PublishOprLog("scheduler", "-", "photo_integrity", msg)
	}
	a.finishScheduler(sched, "success", msg)
}

func (a *Application) finishScheduler(sched *domain.SysScheduler, result, message string) {
	a.gormDB.Model(&domain.SysScheduler{}).Where("id = ?", sched.ID).Updates(map[string]interface{}{
		"last_run_at":  time.Now(),
		"last_result":  result,
		"last_message": message,
	})
}

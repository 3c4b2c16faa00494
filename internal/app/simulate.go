package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skydeck/internal/alerting"
	"skydeck/internal/notify"
	"skydeck/internal/storage"
)

// SimulateAlert 手工注入一条告警, 走与线上一致的完整告警链路。
func (a *App) SimulateAlert(ctx context.Context, category, priority, title, message string) error {
	if !a.Config.Alerting.Enabled {
		return errors.New("alerting 未启用")
	}

	cat := notify.Category(category)
	if !notify.ValidCategory(cat) {
		return fmt.Errorf("unknown category %q", category)
	}

	prio := notify.Priority(priority)
	switch prio {
	case notify.PriorityHigh, notify.PriorityMedium, notify.PriorityLow:
	default:
		return fmt.Errorf("unknown priority %q", priority)
	}

	store, closeKV, err := a.newKV(ctx)
	if err != nil {
		return err
	}
	defer closeKV()

	audit, closeAudit, err := a.openAudit(ctx)
	if err != nil {
		return err
	}
	var auditStore storage.AlertAuditStore
	if audit != nil {
		auditStore = audit
		defer closeAudit()
	}

	notifications := notify.Open(ctx, store, a.Config.Notifications.StorageKey, a.Logger)
	settings := notify.OpenSettings(ctx, store, a.Config.Notifications.SettingsKey, a.Logger)

	engine := a.newEngine(notifications, settings, auditStore)
	engine.Emit(ctx, alerting.Alert{
		Category: cat,
		Priority: prio,
		Subject:  "simulate:" + category,
		Title:    title,
		Message:  message,
		At:       time.Now().UTC(),
	})
	return nil
}

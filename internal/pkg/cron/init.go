package cron

import (
	"fmt"
	log "log/slog"
	"time"
)

// InitCron 注册并启动全部任务，随后打印各任务下一次执行时间
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return fmt.Errorf("register cron jobs: %w", err)
	}
	mgr.Start()

	now := time.Now().UTC()
	for _, entry := range mgr.engine.Entries() {
		log.Info("Cron job scheduled", "entry", entry.ID, "next", entry.Schedule.Next(now))
	}
	return nil
}

package cron

import (
	"Autopost/internal/api/config"
	"Autopost/internal/job"
	log "log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine       *cron.Cron
	cfg          config.CronConfig
	crawlJob     *job.CrawlJob
	retentionJob *job.RetentionJob
}

func NewCronManager(cfg config.CronConfig, crawlJob *job.CrawlJob, retentionJob *job.RetentionJob) *Manager {
	return &Manager{
		engine:       cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC)),
		cfg:          cfg,
		crawlJob:     crawlJob,
		retentionJob: retentionJob,
	}
}

// RegisterJobs 注册定时任务，表达式为空时使用默认值
func (s *Manager) RegisterJobs() error {
	crawlSpec := s.cfg.CrawlSpec
	if crawlSpec == "" {
		crawlSpec = "0 0 * * * *"
	}
	retentionSpec := s.cfg.RetentionSpec
	if retentionSpec == "" {
		retentionSpec = "0 0 2 * * *"
	}

	if _, err := s.engine.AddJob(crawlSpec, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(s.crawlJob)); err != nil {
		return err
	}
	if _, err := s.engine.AddJob(retentionSpec, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(s.retentionJob)); err != nil {
		return err
	}
	log.Info("Cron 定时任务注册完成", "crawl", crawlSpec, "retention", retentionSpec)
	return nil
}

// Entries 已注册任务数
func (s *Manager) Entries() int {
	return len(s.engine.Entries())
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

// Stop 等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}

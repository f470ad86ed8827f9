package cron

import (
	"Scribe/internal/api/config"
	"Scribe/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine           *cron.Cron
	schedule         config.CronConfig
	moderationDigest *job.ModerationDigestJob
	statisticsCache  *job.StatisticsCacheJob
	sysBoxClean      *job.SysBoxCleanJob
}

func NewCronManager(
	schedule config.CronConfig,
	moderationDigest *job.ModerationDigestJob,
	statisticsCache *job.StatisticsCacheJob,
	sysBoxClean *job.SysBoxCleanJob,
) *Manager {
	return &Manager{
		engine:           cron.New(cron.WithSeconds()),
		schedule:         schedule,
		moderationDigest: moderationDigest,
		statisticsCache:  statisticsCache,
		sysBoxClean:      sysBoxClean,
	}
}

// RegisterJobs 注册定时任务，表达式为空的任务不启用
func (s *Manager) RegisterJobs() error {
	jobs := []struct {
		expr string
		job  cron.Job
	}{
		{s.schedule.ModerationDigest, s.moderationDigest},
		{s.schedule.StatisticsRefresh, s.statisticsCache},
		{s.schedule.SysBoxClean, s.sysBoxClean},
	}
	for _, j := range jobs {
		if j.expr == "" {
			continue
		}
		if _, err := s.engine.AddJob(j.expr, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(j.job)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Manager) Start() {
	s.engine.Start()
	log.Info("cron engine started", "jobs", len(s.engine.Entries()))
}

// Stop 等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("cron engine stopping")
	<-s.engine.Stop().Done()
}

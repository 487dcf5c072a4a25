package cron

import (
	"context"
	"time"

	"aihub/config"
	"aihub/internal/service/consumption"
	"aihub/internal/service/rag"

	"github.com/google/wire"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(NewCron)

type Cron struct {
	conf    *config.Configuration
	logger  *zap.Logger
	tracker *consumption.Tracker
	indexer *rag.Indexer
	server  *cron.Cron
}

// NewCron .
func NewCron(
	conf *config.Configuration,
	logger *zap.Logger,
	tracker *consumption.Tracker,
	indexer *rag.Indexer,
) *Cron {
	server := cron.New(
		cron.WithSeconds(),
	)

	return &Cron{
		conf:    conf,
		logger:  logger,
		tracker: tracker,
		indexer: indexer,
		server:  server,
	}
}

func (c *Cron) Run() error {
	if spec := c.conf.Consumption.CronSpec; spec != "" {
		if _, err := c.server.AddFunc(spec, c.pollConsumption); err != nil {
			return err
		}
	}

	if c.conf.Indexer.Enabled && c.conf.Indexer.CronSpec != "" {
		if _, err := c.server.AddFunc(c.conf.Indexer.CronSpec, c.incrementalIndex); err != nil {
			return err
		}
	}

	c.server.Start()
	return nil
}

func (c *Cron) Stop(ctx context.Context) error {
	c.server.Stop()
	return nil
}

// pollConsumption 抓一次上游用量並落一筆 current 樣本
func (c *Cron) pollConsumption() {
	if err := c.tracker.Poll(context.Background()); err != nil {
		c.logger.Error("consumption poll failed", zap.Error(err))
	}
}

// incrementalIndex 在時間預算內做一輪增量索引
func (c *Cron) incrementalIndex() {
	timeLimit := time.Duration(c.conf.Indexer.TimeLimit) * time.Second
	stats, err := c.indexer.Index(context.Background(), false, timeLimit)
	if err != nil {
		c.logger.Error("incremental index failed", zap.Error(err))
		return
	}
	c.logger.Info("incremental index finished",
		zap.Int("areas", stats.Areas),
		zap.Int("documents", stats.Documents),
		zap.Int("skipped", stats.Skipped),
		zap.Bool("stopped", stats.Stopped),
	)
}

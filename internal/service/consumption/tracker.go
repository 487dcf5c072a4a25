package consumption

import (
	"context"
	"time"

	"aihub/config"
	"aihub/internal/core"
	"aihub/internal/telemetry"

	"go.uber.org/zap"
)

// 浮點比較容差：上游回報的金額差在此範圍內視為同值
const epsilon = 0.01

// Tracker 週期性取樣上游消耗量並偵測計數器歸零。
// 歸零時把前一筆值留存成 aggregate，總量即 aggregates 加當前最大 current。
type Tracker struct {
	store  SampleStore
	api    UsageAPI
	conf   *config.Configuration
	logger *zap.Logger
	trace  *telemetry.Trace
	now    func() time.Time
}

func NewTracker(store SampleStore, api UsageAPI, conf *config.Configuration, logger *zap.Logger, trace *telemetry.Trace) *Tracker {
	return &Tracker{
		store:  store,
		api:    api,
		conf:   conf,
		logger: logger,
		trace:  trace,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Poll 取一次消耗量樣本；偵測到歸零時先留存前值再寫入新樣本
func (t *Tracker) Poll(ctx context.Context) error {
	ctx, span, end := t.trace.WithSpan(ctx, string(core.SpanConsumptionPoll))
	defer end(nil)

	info, err := t.api.Fetch(ctx)
	if err != nil {
		end(err)
		return err
	}
	current := info.Consumed()
	now := t.now()

	last, err := t.store.LatestCurrent(ctx)
	if err != nil {
		end(err)
		return err
	}

	reset := last != nil && last.Value-current > epsilon
	if reset {
		aggregate := &Sample{Type: SampleAggregate, Value: last.Value, Time: now}
		if err := t.store.Insert(ctx, aggregate); err != nil {
			end(err)
			return err
		}
		t.logger.Info("consumption counter reset detected",
			zap.Float64("lastValue", last.Value),
			zap.Float64("current", current),
		)
	}

	if err := t.store.Insert(ctx, &Sample{Type: SampleCurrent, Value: current, Time: now}); err != nil {
		end(err)
		return err
	}

	t.trace.ApplyTraceAttributes(span, core.TraceConsumptionMeta{
		Current: current,
		LastValue: func() float64 {
			if last != nil {
				return last.Value
			}
			return 0
		}(),
		Reset: reset,
	})

	// 過期 current 樣本清除，aggregate 永久保留
	if retention := time.Duration(t.conf.Consumption.RetentionPeriod) * time.Second; retention > 0 {
		deleted, err := t.store.DeleteCurrentOlderThan(ctx, now.Add(-retention))
		if err != nil {
			t.logger.Warn("consumption retention cleanup failed", zap.Error(err))
		} else if deleted > 0 {
			t.logger.Debug("consumption retention cleanup", zap.Int64("deleted", deleted))
		}
	}
	return nil
}

// TotalSince 回傳自指定時間起的總消耗量：
// 期間內所有 aggregate 的總和，加上最後一次歸零後的最大 current。
func (t *Tracker) TotalSince(ctx context.Context, since time.Time) (float64, error) {
	aggregates, err := t.store.AggregatesAfter(ctx, since)
	if err != nil {
		return 0, err
	}
	total := 0.0
	lastAggregateTime := since
	for _, aggregate := range aggregates {
		total += aggregate.Value
		if aggregate.Time.After(lastAggregateTime) {
			lastAggregateTime = aggregate.Time
		}
	}
	maxCurrent, err := t.store.MaxCurrentAfter(ctx, lastAggregateTime)
	if err != nil {
		return 0, err
	}
	return total + maxCurrent, nil
}

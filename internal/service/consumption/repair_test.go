package consumption

import (
	"context"
	"testing"
	"time"
)

func repairFixture(t *testing.T, samples ...Sample) *trackerFixture {
	t.Helper()
	fx := newTrackerFixture(t)
	for i := range samples {
		if err := fx.store.Insert(context.Background(), &samples[i]); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	return fx
}

func at(minute int) time.Time {
	return time.Date(2026, 3, 1, 8, minute, 0, 0, time.UTC)
}

func current(minute int, value float64) Sample {
	return Sample{Type: SampleCurrent, Value: value, Time: at(minute)}
}

func aggregate(minute int, value float64) Sample {
	return Sample{Type: SampleAggregate, Value: value, Time: at(minute)}
}

func TestRepairConsistentStoreUnchanged(t *testing.T) {
	fx := repairFixture(t,
		current(1, 5000),
		aggregate(1, 5000),
		current(2, 1000),
		current(3, 2000),
	)

	stats, err := fx.tracker.Repair(context.Background(), false)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if stats.Changed {
		t.Error("consistent store must not be marked changed")
	}
	if fx.store.replaceCalls != 0 {
		t.Errorf("consistent store must not be rewritten, got %d calls", fx.store.replaceCalls)
	}
	if stats.Examined != 4 || stats.ExistingAggregates != 1 || stats.RebuiltAggregates != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestRepairRemovesFalsePositiveAggregate(t *testing.T) {
	// aggregate 存在但 current 序列從未回落，應整批移除
	fx := repairFixture(t,
		current(1, 100),
		aggregate(2, 100),
		current(2, 150),
		current(3, 200),
	)

	stats, err := fx.tracker.Repair(context.Background(), false)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if !stats.Changed || stats.Removed != 1 || stats.Inserted != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if got := fx.store.aggregateValues(); len(got) != 0 {
		t.Errorf("false positive aggregate should be gone, got %v", got)
	}
	if count := fx.store.currentCount(); count != 3 {
		t.Errorf("current samples must survive repair, got %d", count)
	}
}

func TestRepairRestoresMissingAggregate(t *testing.T) {
	fx := repairFixture(t,
		current(1, 5000),
		current(2, 1000),
		current(3, 2000),
		current(4, 500),
	)

	stats, err := fx.tracker.Repair(context.Background(), false)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if !stats.Changed || stats.Inserted != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	got := fx.store.aggregateValues()
	if len(got) != 2 || got[0] != 5000 || got[1] != 2000 {
		t.Errorf("rebuilt aggregates = %v, want [5000 2000]", got)
	}
}

// 重建的 aggregate 掛在歸零前最後一筆樣本的時間上；輪詢當下補的
// aggregate 帶的是偵測時間，修復要把它校正回去
func TestRepairStampsAggregateAtPreResetSample(t *testing.T) {
	fx := repairFixture(t,
		current(1, 5000),
		aggregate(2, 5000),
		current(2, 1000),
	)

	stats, err := fx.tracker.Repair(context.Background(), false)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if !stats.Changed {
		t.Error("detection-stamped aggregate must be rewritten")
	}

	aggregates := make([]Sample, 0)
	for _, sample := range fx.store.samples {
		if sample.Type == SampleAggregate {
			aggregates = append(aggregates, sample)
		}
	}
	if len(aggregates) != 1 {
		t.Fatalf("aggregates = %d, want 1", len(aggregates))
	}
	if aggregates[0].Value != 5000 {
		t.Errorf("aggregate value = %v, want 5000", aggregates[0].Value)
	}
	if !aggregates[0].Time.Equal(at(1)) {
		t.Errorf("aggregate time = %v, want %v", aggregates[0].Time, at(1))
	}
}

func TestRepairDryRunWritesNothing(t *testing.T) {
	fx := repairFixture(t,
		current(1, 5000),
		current(2, 1000),
	)

	stats, err := fx.tracker.Repair(context.Background(), true)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if !stats.Changed || !stats.DryRun || stats.Inserted != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if fx.store.replaceCalls != 0 {
		t.Error("dry run must not rewrite the store")
	}
	if got := fx.store.aggregateValues(); len(got) != 0 {
		t.Errorf("dry run must leave samples alone, got %v", got)
	}
}

func TestRepairGuardBandKeepsBorderlineDrops(t *testing.T) {
	// 回落在容差加保護帶內的樣本不重建 aggregate
	fx := repairFixture(t,
		current(1, 100.0),
		current(2, 99.995),
	)

	stats, err := fx.tracker.Repair(context.Background(), false)
	if err != nil {
		t.Fatalf("Repair: %v", err)
	}
	if stats.RebuiltAggregates != 0 || stats.Changed {
		t.Errorf("borderline drop must not rebuild, stats: %+v", stats)
	}
}

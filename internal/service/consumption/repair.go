package consumption

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// 修復重建時多留的保護帶，避免把誤差邊緣的樣本判成歸零
const repairGuard = 0.0001

// RepairStats 是一次修復的結果統計
type RepairStats struct {
	Examined           int  `json:"examined"`
	ExistingAggregates int  `json:"existingAggregates"`
	RebuiltAggregates  int  `json:"rebuiltAggregates"`
	Removed            int  `json:"removed"`
	Inserted           int  `json:"inserted"`
	Changed            bool `json:"changed"`
	DryRun             bool `json:"dryRun"`
}

// Repair 依時間序重掃全部樣本並重建 aggregate 集合。
// dryRun 時只回報將做的變更，不落任何寫入。
func (t *Tracker) Repair(ctx context.Context, dryRun bool) (*RepairStats, error) {
	samples, err := t.store.All(ctx)
	if err != nil {
		return nil, err
	}

	stats := &RepairStats{Examined: len(samples), DryRun: dryRun}

	currents := make([]Sample, 0, len(samples))
	existing := make([]Sample, 0)
	for _, sample := range samples {
		if sample.Type == SampleCurrent {
			currents = append(currents, sample)
		} else {
			existing = append(existing, sample)
		}
	}
	stats.ExistingAggregates = len(existing)

	// 依 current 序列重建 aggregate：值回落超過容差即視為一次歸零
	rebuilt := make([]Sample, 0)
	for i := 1; i < len(currents); i++ {
		previous := currents[i-1]
		if previous.Value-currents[i].Value > epsilon+repairGuard {
			// aggregate 掛在歸零前最後一筆樣本的時間上
			rebuilt = append(rebuilt, Sample{
				Type:  SampleAggregate,
				Value: previous.Value,
				Time:  previous.Time,
			})
		}
	}
	stats.RebuiltAggregates = len(rebuilt)

	if aggregatesEqual(existing, rebuilt) {
		return stats, nil
	}
	stats.Changed = true
	stats.Removed = len(existing)
	stats.Inserted = len(rebuilt)

	if dryRun {
		return stats, nil
	}

	replacement := make([]Sample, 0, len(currents)+len(rebuilt))
	replacement = append(replacement, currents...)
	replacement = append(replacement, rebuilt...)
	sort.SliceStable(replacement, func(i, j int) bool {
		return replacement[i].Time.Before(replacement[j].Time)
	})

	if err := t.store.ReplaceAll(ctx, replacement); err != nil {
		return nil, err
	}
	t.logger.Info("consumption samples repaired",
		zap.Int("removedAggregates", stats.Removed),
		zap.Int("insertedAggregates", stats.Inserted),
	)
	return stats, nil
}

func aggregatesEqual(existing, rebuilt []Sample) bool {
	if len(existing) != len(rebuilt) {
		return false
	}
	for i := range existing {
		if existing[i].Value != rebuilt[i].Value || !existing[i].Time.Equal(rebuilt[i].Time) {
			return false
		}
	}
	return true
}

package rag

import (
	"context"
	"errors"
	"sort"
	"time"

	"aihub/config"
	"aihub/internal/core"
	"aihub/internal/telemetry"

	"go.uber.org/zap"
)

const (
	defaultIndexingDelay = 5 * time.Second
	defaultBatchSize     = 100
)

// ErrFullIndexWithTimeLimit 全量索引不能搭配時間預算
var ErrFullIndexWithTimeLimit = errors.New("full index cannot run with a time limit")

// IndexStats 是一次索引執行的結果
type IndexStats struct {
	Areas     int  `json:"areas"`
	Documents int  `json:"documents"`
	Skipped   int  `json:"skipped"`
	Stopped   bool `json:"stopped"`
}

// Indexer 批次把變動的內容送入向量庫。
// 單份文件或單一區域失敗都只記錄並跳過，不中斷整輪。
type Indexer struct {
	source      ContentSource
	index       DocumentIndex
	checkpoints CheckpointStore
	conf        *config.Configuration
	logger      *zap.Logger
	trace       *telemetry.Trace
	now         func() time.Time
}

func NewIndexer(
	source ContentSource,
	index DocumentIndex,
	checkpoints CheckpointStore,
	conf *config.Configuration,
	logger *zap.Logger,
	trace *telemetry.Trace,
) *Indexer {
	return &Indexer{
		source:      source,
		index:       index,
		checkpoints: checkpoints,
		conf:        conf,
		logger:      logger,
		trace:       trace,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (ix *Indexer) batchSize() int {
	if ix.conf.Indexer.BatchSize > 0 {
		return ix.conf.Indexer.BatchSize
	}
	return defaultBatchSize
}

func (ix *Indexer) indexingDelay() time.Duration {
	if ix.conf.Indexer.IndexingDelay > 0 {
		return time.Duration(ix.conf.Indexer.IndexingDelay) * time.Second
	}
	return defaultIndexingDelay
}

// Index 執行一輪索引。fullIndex 會無視既有進度從頭掃起，
// timeLimit 大於 0 時在區域之間檢查預算，逾時即停。
func (ix *Indexer) Index(ctx context.Context, fullIndex bool, timeLimit time.Duration) (*IndexStats, error) {
	if fullIndex && timeLimit > 0 {
		return nil, ErrFullIndexWithTimeLimit
	}

	ctx, _, end := ix.trace.WithSpan(ctx, string(core.SpanRAGIndex))
	defer end(nil)

	areas, err := ix.source.EnabledAreas(ctx)
	if err != nil {
		end(err)
		return nil, err
	}

	// 給預算時從最慢的區域開始，避免它一直輪不到
	if timeLimit > 0 {
		areas = ix.slowestFirst(ctx, areas)
	}

	started := ix.now()
	deadline := time.Time{}
	if timeLimit > 0 {
		deadline = started.Add(timeLimit)
	}

	stats := &IndexStats{}
	for _, area := range areas {
		if !deadline.IsZero() && !ix.now().Before(deadline) {
			stats.Stopped = true
			break
		}
		indexed, skipped, err := ix.indexArea(ctx, area, fullIndex)
		if err != nil {
			ix.logger.Warn("index area failed, skipping",
				zap.String("area", area.ID()),
				zap.Error(err),
			)
			continue
		}
		stats.Areas++
		stats.Documents += indexed
		stats.Skipped += skipped
	}
	return stats, nil
}

// slowestFirst 依上次執行時間倒序排列區域
func (ix *Indexer) slowestFirst(ctx context.Context, areas []Area) []Area {
	type timed struct {
		area     Area
		duration time.Duration
	}
	timedAreas := make([]timed, 0, len(areas))
	for _, area := range areas {
		duration, err := ix.checkpoints.LastRunDuration(ctx, area.ID())
		if err != nil {
			duration = 0
		}
		timedAreas = append(timedAreas, timed{area: area, duration: duration})
	}
	sort.SliceStable(timedAreas, func(i, j int) bool {
		return timedAreas[i].duration > timedAreas[j].duration
	})
	ordered := make([]Area, len(timedAreas))
	for i, entry := range timedAreas {
		ordered[i] = entry.area
	}
	return ordered
}

func (ix *Indexer) indexArea(ctx context.Context, area Area, fullIndex bool) (indexed, skipped int, err error) {
	areaStarted := ix.now()

	since := time.Time{}
	if !fullIndex {
		since, err = ix.checkpoints.LastIndexed(ctx, area.ID())
		if err != nil {
			return 0, 0, err
		}
	}

	// 剛改完的內容先不索引，等它穩定。
	// 讀取游標與檢查點分開推進：游標每批一定越過批尾，整批失敗也不會
	// 重撈同一批；檢查點只跟著索引成功的文件走
	cutoff := ix.now().Add(-ix.indexingDelay())
	progress := since
	cursor := since

	for {
		documents, err := area.FetchChangedSince(ctx, cursor, ix.batchSize())
		if err != nil {
			return indexed, skipped, err
		}
		if len(documents) == 0 {
			break
		}
		for _, document := range documents {
			if document.ModifiedAt.After(cutoff) {
				skipped++
				continue
			}
			if err := ix.index.IndexDocument(ctx, &document); err != nil {
				skipped++
				ix.logger.Warn("index document failed, skipping",
					zap.String("area", area.ID()),
					zap.String("documentId", document.ID),
					zap.Error(err),
				)
				continue
			}
			indexed++
			if document.ModifiedAt.After(progress) {
				progress = document.ModifiedAt
			}
		}
		last := documents[len(documents)-1].ModifiedAt
		if last.After(cutoff) {
			// 批尾已進入延遲窗，後面只會更新
			break
		}
		if len(documents) < ix.batchSize() {
			break
		}
		cursor = last.Add(time.Nanosecond)
	}

	if progress.After(since) {
		if err := ix.checkpoints.SetLastIndexed(ctx, area.ID(), progress); err != nil {
			return indexed, skipped, err
		}
	}
	if err := ix.checkpoints.SetLastRunDuration(ctx, area.ID(), ix.now().Sub(areaStarted)); err != nil {
		ix.logger.Warn("store area run duration failed", zap.String("area", area.ID()), zap.Error(err))
	}

	ix.logger.Info("area indexed",
		zap.String("area", area.ID()),
		zap.Int("documents", indexed),
		zap.Int("skipped", skipped),
		zap.Bool("full", fullIndex),
	)
	return indexed, skipped, nil
}

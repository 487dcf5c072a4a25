package rag

import (
	"context"
	"errors"
	"testing"
	"time"

	"aihub/config"
	"aihub/internal/telemetry"

	"go.uber.org/zap"
)

var indexBase = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeArea struct {
	id        string
	documents []Document
}

func (a *fakeArea) ID() string { return a.id }

func (a *fakeArea) FetchChangedSince(ctx context.Context, since time.Time, limit int) ([]Document, error) {
	matched := make([]Document, 0)
	for _, document := range a.documents {
		if !document.ModifiedAt.After(since) {
			continue
		}
		matched = append(matched, document)
		if len(matched) == limit {
			break
		}
	}
	return matched, nil
}

type fakeSource struct {
	areas []Area
	err   error
}

func (s *fakeSource) EnabledAreas(ctx context.Context) ([]Area, error) {
	return s.areas, s.err
}

type fakeIndex struct {
	indexed []string
	failIDs map[string]bool
}

func (f *fakeIndex) IndexDocument(ctx context.Context, document *Document) error {
	if f.failIDs[document.ID] {
		return errors.New("vector store rejected document")
	}
	f.indexed = append(f.indexed, document.ID)
	return nil
}

type fakeCheckpoints struct {
	lastIndexed  map[string]time.Time
	durations    map[string]time.Duration
	setIndexed   map[string]time.Time
	setDurations int
}

func newFakeCheckpoints() *fakeCheckpoints {
	return &fakeCheckpoints{
		lastIndexed: map[string]time.Time{},
		durations:   map[string]time.Duration{},
		setIndexed:  map[string]time.Time{},
	}
}

func (f *fakeCheckpoints) LastIndexed(ctx context.Context, areaID string) (time.Time, error) {
	return f.lastIndexed[areaID], nil
}

func (f *fakeCheckpoints) SetLastIndexed(ctx context.Context, areaID string, indexedTo time.Time) error {
	f.lastIndexed[areaID] = indexedTo
	f.setIndexed[areaID] = indexedTo
	return nil
}

func (f *fakeCheckpoints) LastRunDuration(ctx context.Context, areaID string) (time.Duration, error) {
	return f.durations[areaID], nil
}

func (f *fakeCheckpoints) SetLastRunDuration(ctx context.Context, areaID string, duration time.Duration) error {
	f.setDurations++
	return nil
}

type indexerFixture struct {
	indexer     *Indexer
	source      *fakeSource
	index       *fakeIndex
	checkpoints *fakeCheckpoints
	clock       time.Time
}

func newIndexerFixture(t *testing.T, areas ...Area) *indexerFixture {
	t.Helper()
	trace, err := telemetry.NewTrace(nil)
	if err != nil {
		t.Fatalf("NewTrace: %v", err)
	}
	fx := &indexerFixture{
		source:      &fakeSource{areas: areas},
		index:       &fakeIndex{failIDs: map[string]bool{}},
		checkpoints: newFakeCheckpoints(),
		clock:       indexBase,
	}
	fx.indexer = NewIndexer(fx.source, fx.index, fx.checkpoints, &config.Configuration{}, zap.NewNop(), trace)
	fx.indexer.now = func() time.Time { return fx.clock }
	return fx
}

func document(id string, modifiedSecondsAgo int) Document {
	return Document{
		ID:         id,
		Title:      id,
		Content:    "body of " + id,
		ModifiedAt: indexBase.Add(-time.Duration(modifiedSecondsAgo) * time.Second),
	}
}

func TestIndexFullWithTimeLimitRejected(t *testing.T) {
	fx := newIndexerFixture(t)

	_, err := fx.indexer.Index(context.Background(), true, time.Minute)
	if !errors.Is(err, ErrFullIndexWithTimeLimit) {
		t.Fatalf("err = %v, want ErrFullIndexWithTimeLimit", err)
	}
}

func TestIndexIncrementalAdvancesCheckpoint(t *testing.T) {
	area := &fakeArea{id: "forum", documents: []Document{
		document("d1", 300),
		document("d2", 120),
		document("d3", 60),
	}}
	fx := newIndexerFixture(t, area)

	stats, err := fx.indexer.Index(context.Background(), false, 0)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if stats.Areas != 1 || stats.Documents != 3 || stats.Skipped != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	lastModified := indexBase.Add(-60 * time.Second)
	if got := fx.checkpoints.setIndexed["forum"]; got.Before(lastModified) {
		t.Errorf("checkpoint = %v, must cover %v", got, lastModified)
	}

	// 第二輪沒有新文件，不應重複索引
	stats, err = fx.indexer.Index(context.Background(), false, 0)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if stats.Documents != 0 {
		t.Errorf("second run must index nothing, got %d", stats.Documents)
	}
}

func TestIndexResumesFromCheckpoint(t *testing.T) {
	area := &fakeArea{id: "forum", documents: []Document{
		document("old", 600),
		document("new", 60),
	}}
	fx := newIndexerFixture(t, area)
	fx.checkpoints.lastIndexed["forum"] = indexBase.Add(-300 * time.Second)

	stats, err := fx.indexer.Index(context.Background(), false, 0)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if stats.Documents != 1 {
		t.Errorf("documents = %d, want 1", stats.Documents)
	}
	if len(fx.index.indexed) != 1 || fx.index.indexed[0] != "new" {
		t.Errorf("indexed = %v, want [new]", fx.index.indexed)
	}
}

func TestIndexFullIgnoresCheckpoint(t *testing.T) {
	area := &fakeArea{id: "forum", documents: []Document{
		document("old", 600),
		document("new", 60),
	}}
	fx := newIndexerFixture(t, area)
	fx.checkpoints.lastIndexed["forum"] = indexBase.Add(-300 * time.Second)

	stats, err := fx.indexer.Index(context.Background(), true, 0)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if stats.Documents != 2 {
		t.Errorf("documents = %d, want 2", stats.Documents)
	}
}

func TestIndexSkipsFreshDocuments(t *testing.T) {
	// 修改後未滿延遲窗的文件先跳過，等下一輪
	area := &fakeArea{id: "forum", documents: []Document{
		document("settled", 60),
		document("fresh", 2),
	}}
	fx := newIndexerFixture(t, area)

	stats, err := fx.indexer.Index(context.Background(), false, 0)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if stats.Documents != 1 || stats.Skipped != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	// 檢查點只推進到已索引的文件，fresh 下輪還會撈到
	want := indexBase.Add(-60 * time.Second)
	if got := fx.checkpoints.setIndexed["forum"]; !got.Equal(want) {
		t.Errorf("checkpoint = %v, want %v", got, want)
	}
}

func TestIndexFailedDocumentSkippedNotFatal(t *testing.T) {
	area := &fakeArea{id: "forum", documents: []Document{
		document("good1", 300),
		document("bad", 200),
		document("good2", 100),
	}}
	fx := newIndexerFixture(t, area)
	fx.index.failIDs["bad"] = true

	stats, err := fx.indexer.Index(context.Background(), false, 0)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if stats.Documents != 2 || stats.Skipped != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

// 整批都失敗時讀取游標仍要越過批尾，不能卡在同一批打轉
func TestIndexAllFailingBatchesTerminate(t *testing.T) {
	area := &fakeArea{id: "forum", documents: []Document{
		document("b1", 400),
		document("b2", 300),
		document("b3", 200),
		document("b4", 100),
	}}
	fx := newIndexerFixture(t, area)
	fx.indexer.conf.Indexer.BatchSize = 2
	for _, id := range []string{"b1", "b2", "b3", "b4"} {
		fx.index.failIDs[id] = true
	}

	done := make(chan *IndexStats, 1)
	go func() {
		stats, err := fx.indexer.Index(context.Background(), false, 0)
		if err != nil {
			t.Errorf("Index: %v", err)
		}
		done <- stats
	}()

	var stats *IndexStats
	select {
	case stats = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("indexing run did not terminate")
	}

	if stats.Documents != 0 || stats.Skipped != 4 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if _, ok := fx.checkpoints.setIndexed["forum"]; ok {
		t.Error("checkpoint must not move past failed documents")
	}
}

func TestIndexNoProgressLeavesCheckpointAlone(t *testing.T) {
	area := &fakeArea{id: "forum"}
	fx := newIndexerFixture(t, area)

	stats, err := fx.indexer.Index(context.Background(), false, 0)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if stats.Documents != 0 {
		t.Errorf("documents = %d, want 0", stats.Documents)
	}
	if _, ok := fx.checkpoints.setIndexed["forum"]; ok {
		t.Error("checkpoint must not move without progress")
	}
	if fx.checkpoints.setDurations != 1 {
		t.Errorf("run duration should still be recorded, got %d", fx.checkpoints.setDurations)
	}
}

func TestIndexSlowestAreaFirstUnderBudget(t *testing.T) {
	fast := &fakeArea{id: "fast", documents: []Document{document("f1", 300)}}
	slow := &fakeArea{id: "slow", documents: []Document{document("s1", 300)}}
	fx := newIndexerFixture(t, fast, slow)
	fx.checkpoints.durations["fast"] = time.Second
	fx.checkpoints.durations["slow"] = time.Minute

	stats, err := fx.indexer.Index(context.Background(), false, time.Hour)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if stats.Areas != 2 {
		t.Errorf("areas = %d, want 2", stats.Areas)
	}
	if len(fx.index.indexed) != 2 || fx.index.indexed[0] != "s1" {
		t.Errorf("slowest area must run first, indexed = %v", fx.index.indexed)
	}
}

func TestIndexStopsAtDeadline(t *testing.T) {
	first := &fakeArea{id: "first", documents: []Document{document("f1", 300)}}
	second := &fakeArea{id: "second", documents: []Document{document("s1", 300)}}
	fx := newIndexerFixture(t, first, second)
	fx.checkpoints.durations["first"] = time.Minute

	// 第一個區域跑完後把時鐘推過預算
	fx.indexer.now = func() time.Time {
		now := fx.clock
		fx.clock = fx.clock.Add(45 * time.Second)
		return now
	}

	stats, err := fx.indexer.Index(context.Background(), false, time.Minute)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if !stats.Stopped {
		t.Error("run must report it stopped at the deadline")
	}
	if stats.Areas != 1 {
		t.Errorf("areas = %d, want 1", stats.Areas)
	}
}

package rag

import (
	"context"
	"time"
)

// Document 是待索引的一份內容
type Document struct {
	ID         string
	Title      string
	Content    string
	ContextID  int64
	CourseID   int64
	OwnerID    string
	ModifiedAt time.Time
}

// Area 是一個可索引的內容區域
type Area interface {
	ID() string
	// FetchChangedSince 依修改時間升冪回傳自 since 之後變動的文件
	FetchChangedSince(ctx context.Context, since time.Time, limit int) ([]Document, error)
}

// ContentSource 列出目前啟用的內容區域
type ContentSource interface {
	EnabledAreas(ctx context.Context) ([]Area, error)
}

// DocumentIndex 把文件寫入向量庫
type DocumentIndex interface {
	IndexDocument(ctx context.Context, document *Document) error
}

// CheckpointStore 保存各區域的索引進度與上次執行時間
type CheckpointStore interface {
	LastIndexed(ctx context.Context, areaID string) (time.Time, error)
	SetLastIndexed(ctx context.Context, areaID string, indexedTo time.Time) error
	LastRunDuration(ctx context.Context, areaID string) (time.Duration, error)
	SetLastRunDuration(ctx context.Context, areaID string, duration time.Duration) error
}

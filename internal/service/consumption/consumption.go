package consumption

import (
	"context"
	"time"
)

// SampleType 區分取樣值與 reset 前留存的彙總值
type SampleType string

const (
	SampleCurrent   SampleType = "current"
	SampleAggregate SampleType = "aggregate"
)

// Sample 是一筆消耗量紀錄。Seq 由儲存層遞增配號，
// 同一時間點的多筆紀錄以 Seq 決定先後。
type Sample struct {
	Seq   int64
	Type  SampleType
	Value float64
	Time  time.Time
}

// SampleStore 是消耗量樣本的儲存
type SampleStore interface {
	// LatestCurrent 取最後寫入的 current 樣本（依 Seq 倒序），沒有資料時回 nil
	LatestCurrent(ctx context.Context) (*Sample, error)
	Insert(ctx context.Context, sample *Sample) error
	// DeleteCurrentOlderThan 清掉過期的 current 樣本，aggregate 不動
	DeleteCurrentOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	// All 依 (時間, Seq) 升冪回傳全部樣本
	All(ctx context.Context) ([]Sample, error)
	// ReplaceAll 以交易整批汰換
	ReplaceAll(ctx context.Context, samples []Sample) error
	AggregatesAfter(ctx context.Context, after time.Time) ([]Sample, error)
	// MaxCurrentAfter 取指定時間後最大的 current 值，沒有資料時回 0
	MaxCurrentAfter(ctx context.Context, after time.Time) (float64, error)
}

// UsageAPI 是上游帳務 API 的抽象
type UsageAPI interface {
	Fetch(ctx context.Context) (*UsageInfo, error)
}

// UsageInfo 是上游回報的額度狀態，單位為分
type UsageInfo struct {
	LimitInCent          float64 `json:"limitInCent"`
	RemainingLimitInCent float64 `json:"remainingLimitInCent"`
}

// Consumed 目前已消耗的額度
func (u *UsageInfo) Consumed() float64 {
	return u.LimitInCent - u.RemainingLimitInCent
}

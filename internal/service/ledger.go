package service

import (
	"context"
	"time"

	"aihub/config"
	"aihub/internal/core"
)

// Ledger 維護使用者視窗用量：過期視窗先歸零再遞增。
// 遞增本身交由儲存層原子完成。
type Ledger struct {
	usage UserUsageStore
	conf  *config.Configuration
	now   func() time.Time
}

func NewLedger(usage UserUsageStore, conf *config.Configuration) *Ledger {
	return &Ledger{
		usage: usage,
		conf:  conf,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Record 把一次成功請求記入使用者的當前視窗
func (l *Ledger) Record(ctx context.Context, userID string, purpose core.Purpose) error {
	window, err := l.usage.Window(ctx, userID, purpose)
	if err != nil {
		return err
	}
	now := l.now()
	if window == nil || l.expired(window, now) {
		if err := l.usage.ResetWindow(ctx, userID, purpose, now); err != nil {
			return err
		}
	}
	_, err = l.usage.Increment(ctx, userID, purpose)
	return err
}

func (l *Ledger) expired(window *UsageWindow, now time.Time) bool {
	period := time.Duration(l.conf.AI.MaxRequestsPeriod) * time.Second
	if period <= 0 {
		return false
	}
	return now.Sub(window.WindowStart) >= period
}

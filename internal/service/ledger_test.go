package service

import (
	"context"
	"testing"
	"time"

	"aihub/config"
	"aihub/internal/core"
)

func newLedgerFixture(periodSeconds int64) (*Ledger, *fakeUsage) {
	conf := &config.Configuration{}
	conf.AI.MaxRequestsPeriod = periodSeconds
	usage := &fakeUsage{}
	return NewLedger(usage, conf), usage
}

func TestLedgerFirstRecordOpensWindow(t *testing.T) {
	ledger, usage := newLedgerFixture(3600)

	if err := ledger.Record(context.Background(), "u1", core.PurposeChat); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if usage.resetCalls != 1 {
		t.Errorf("expected one window reset for new user, got %d", usage.resetCalls)
	}
	if usage.incrementCalls != 1 {
		t.Errorf("expected one increment, got %d", usage.incrementCalls)
	}
}

func TestLedgerActiveWindowOnlyIncrements(t *testing.T) {
	ledger, usage := newLedgerFixture(3600)
	usage.window = &UsageWindow{Count: 2, WindowStart: time.Now().UTC().Add(-time.Minute)}

	if err := ledger.Record(context.Background(), "u1", core.PurposeChat); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if usage.resetCalls != 0 {
		t.Errorf("active window must not reset, got %d resets", usage.resetCalls)
	}
	if usage.incrementCalls != 1 {
		t.Errorf("expected one increment, got %d", usage.incrementCalls)
	}
}

func TestLedgerExpiredWindowResetsBeforeIncrement(t *testing.T) {
	ledger, usage := newLedgerFixture(3600)
	usage.window = &UsageWindow{Count: 17, WindowStart: time.Now().UTC().Add(-2 * time.Hour)}

	if err := ledger.Record(context.Background(), "u1", core.PurposeChat); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if usage.resetCalls != 1 {
		t.Errorf("expired window should reset, got %d resets", usage.resetCalls)
	}
	if usage.count != 1 {
		t.Errorf("count should restart at 1 after reset, got %d", usage.count)
	}
}

// 遞增交給儲存層原子完成，ledger 不讀回再寫
func TestLedgerZeroPeriodNeverExpires(t *testing.T) {
	ledger, usage := newLedgerFixture(0)
	usage.window = &UsageWindow{Count: 5, WindowStart: time.Now().UTC().Add(-1000 * time.Hour)}

	if err := ledger.Record(context.Background(), "u1", core.PurposeChat); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if usage.resetCalls != 0 {
		t.Errorf("zero period disables expiry, got %d resets", usage.resetCalls)
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"aihub/config"
	"aihub/internal/core"
)

func newStatsFixture(t *testing.T, users *fakeUsers, usage *fakeUsage) *StatsService {
	t.Helper()
	conf := &config.Configuration{}
	conf.AI.MaxRequestsPeriod = 3600
	conf.AI.MaxRequests = map[string]map[string]int64{
		string(core.PurposeChat): {"basic": 3},
	}
	stats := NewStatsService(&fakeRecords{}, usage, users, conf)
	stats.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return stats
}

func quotaFor(t *testing.T, infos []QuotaInfo, purpose core.Purpose) QuotaInfo {
	t.Helper()
	for _, info := range infos {
		if info.Purpose == purpose {
			return info
		}
	}
	t.Fatalf("no quota entry for %s", purpose)
	return QuotaInfo{}
}

func TestUserQuotaActiveWindow(t *testing.T) {
	users := &fakeUsers{user: &UserInfo{ID: "u1", Role: "basic"}}
	usage := &fakeUsage{window: &UsageWindow{
		Count:       2,
		WindowStart: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}}
	stats := newStatsFixture(t, users, usage)

	infos, err := stats.UserQuota(context.Background(), "u1")
	if err != nil {
		t.Fatalf("UserQuota: %v", err)
	}
	chat := quotaFor(t, infos, core.PurposeChat)
	if chat.Limit != 3 || chat.Used != 2 || chat.Remaining != 1 {
		t.Errorf("chat quota = %+v, want limit 3 used 2 remaining 1", chat)
	}
}

func TestUserQuotaExpiredWindowReadsAsUnused(t *testing.T) {
	users := &fakeUsers{user: &UserInfo{ID: "u1", Role: "basic"}}
	usage := &fakeUsage{window: &UsageWindow{
		Count:       3,
		WindowStart: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}}
	stats := newStatsFixture(t, users, usage)

	infos, err := stats.UserQuota(context.Background(), "u1")
	if err != nil {
		t.Fatalf("UserQuota: %v", err)
	}
	chat := quotaFor(t, infos, core.PurposeChat)
	if chat.Used != 0 || chat.Remaining != 3 {
		t.Errorf("expired window must read as unused, got %+v", chat)
	}
}

func TestUserQuotaUnconfiguredPurposeUnlimited(t *testing.T) {
	users := &fakeUsers{user: &UserInfo{ID: "u1", Role: "basic"}}
	stats := newStatsFixture(t, users, &fakeUsage{})

	infos, err := stats.UserQuota(context.Background(), "u1")
	if err != nil {
		t.Fatalf("UserQuota: %v", err)
	}
	translate := quotaFor(t, infos, core.PurposeTranslate)
	if translate.Limit != -1 || translate.Remaining != -1 {
		t.Errorf("unconfigured purpose must be unlimited, got %+v", translate)
	}
}

func TestUserQuotaUnlimitedRole(t *testing.T) {
	users := &fakeUsers{user: &UserInfo{ID: "u1", Role: core.RoleUnlimited}}
	stats := newStatsFixture(t, users, &fakeUsage{})

	infos, err := stats.UserQuota(context.Background(), "u1")
	if err != nil {
		t.Fatalf("UserQuota: %v", err)
	}
	chat := quotaFor(t, infos, core.PurposeChat)
	if chat.Limit != -1 {
		t.Errorf("unlimited role must have no limit, got %+v", chat)
	}
}

func TestUserQuotaOverconsumedClampsToZero(t *testing.T) {
	users := &fakeUsers{user: &UserInfo{ID: "u1", Role: "basic"}}
	usage := &fakeUsage{window: &UsageWindow{
		Count:       5,
		WindowStart: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}}
	stats := newStatsFixture(t, users, usage)

	infos, err := stats.UserQuota(context.Background(), "u1")
	if err != nil {
		t.Fatalf("UserQuota: %v", err)
	}
	chat := quotaFor(t, infos, core.PurposeChat)
	if chat.Remaining != 0 {
		t.Errorf("remaining must clamp at zero, got %+v", chat)
	}
}

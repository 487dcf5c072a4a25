package service

import (
	"context"
	"time"

	"aihub/config"
	"aihub/internal/core"
)

// QuotaInfo 是使用者目前視窗的配額狀態
type QuotaInfo struct {
	Purpose   core.Purpose `json:"purpose"`
	Limit     int64        `json:"limit"`
	Used      int64        `json:"used"`
	Remaining int64        `json:"remaining"`
}

// StatsService 提供管理端統計與使用者配額查詢
type StatsService struct {
	records UsageRecordStore
	usage   UserUsageStore
	users   UserDirectory
	conf    *config.Configuration
	now     func() time.Time
}

func NewStatsService(records UsageRecordStore, usage UserUsageStore, users UserDirectory, conf *config.Configuration) *StatsService {
	return &StatsService{
		records: records,
		usage:   usage,
		users:   users,
		conf:    conf,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Overview 彙總指定期間內的用量統計列
func (s *StatsService) Overview(ctx context.Context, since time.Time) ([]StatsRow, error) {
	return s.records.StatsRows(ctx, since)
}

// UserQuota 回傳使用者各 purpose 的視窗配額狀態
func (s *StatsService) UserQuota(ctx context.Context, userID string) ([]QuotaInfo, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	period := time.Duration(s.conf.AI.MaxRequestsPeriod) * time.Second
	now := s.now()

	infos := make([]QuotaInfo, 0, len(core.AllPurposes()))
	for _, purpose := range core.AllPurposes() {
		limit := s.limitFor(purpose, user.Role)
		info := QuotaInfo{Purpose: purpose, Limit: limit}
		if limit > 0 {
			window, err := s.usage.Window(ctx, userID, purpose)
			if err != nil {
				return nil, err
			}
			if window != nil && (period <= 0 || now.Sub(window.WindowStart) < period) {
				info.Used = window.Count
			}
			info.Remaining = limit - info.Used
			if info.Remaining < 0 {
				info.Remaining = 0
			}
		} else {
			info.Remaining = limit
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *StatsService) limitFor(purpose core.Purpose, role core.Role) int64 {
	if role == core.RoleUnlimited {
		return -1
	}
	byRole, ok := s.conf.AI.MaxRequests[string(purpose)]
	if !ok {
		return -1
	}
	limit, ok := byRole[string(role)]
	if !ok {
		return -1
	}
	return limit
}
